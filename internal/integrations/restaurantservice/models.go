package restaurantservice

// Restaurant модель ресторана из RestaurantService
type Restaurant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`

	WorkingHours WeekSchedule `json:"working_hours"`

	// BlackoutDates даты повышенного спроса ("YYYY-MM-DD"), в которые
	// бронирование требует депозита
	BlackoutDates []string `json:"blackout_dates"`

	// StaffIDs сотрудники ресторана (могут управлять бронированиями)
	StaffIDs []int64 `json:"staff_ids"`
	// ManagerIDs менеджеры ресторана (могут менять политику и списывать штрафы)
	ManagerIDs []int64 `json:"manager_ids"`
}

// WeekSchedule расписание работы ресторана по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание на один день недели.
// LastReservationTime - последнее время, на которое принимаются брони
// (обычно раньше времени закрытия).
type DaySchedule struct {
	IsOpen              bool    `json:"is_open"`
	OpenTime            *string `json:"open_time,omitempty"`             // "17:00"
	LastReservationTime *string `json:"last_reservation_time,omitempty"` // "22:00"
}

// IsStaff возвращает true, если пользователь является сотрудником или менеджером
func (r *Restaurant) IsStaff(userID int64) bool {
	for _, id := range r.StaffIDs {
		if id == userID {
			return true
		}
	}
	return r.IsManager(userID)
}

// IsManager возвращает true, если пользователь является менеджером ресторана
func (r *Restaurant) IsManager(userID int64) bool {
	for _, id := range r.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsBlackoutDate возвращает true, если дата входит в список blackout дат
func (r *Restaurant) IsBlackoutDate(date string) bool {
	for _, d := range r.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от RestaurantService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
