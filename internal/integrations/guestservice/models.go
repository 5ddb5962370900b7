package guestservice

// Guest модель гостя из GuestService
type Guest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	NoShowCount int    `json:"no_show_count"`
	IsFlagged   bool   `json:"is_flagged"`
}

// NoShowResult результат инкремента счётчика неявок
type NoShowResult struct {
	UserID      int64 `json:"user_id"`
	NoShowCount int   `json:"no_show_count"`
}

// ErrorResponse модель ошибки от GuestService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
