package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

const pgUniqueViolation = "23505"

var reservationColumns = []string{
	"id",
	"user_id",
	"restaurant_id",
	"table_id",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"party_size",
	"status",
	"confirmation_code",
	"deposit_amount",
	"guest_name",
	"guest_phone",
	"notes",
	"cancellation_reason",
	"cancellation_fee",
	"cancelled_at",
	"seated_at",
	"completed_at",
	"no_show_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронями столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую бронь.
// Если в контексте передана активная транзакция, использует её - при создании
// брони с проверкой доступности стола вставка обязана происходить в той же
// сериализуемой транзакции, что и проверка пересечений.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"restaurant_id",
			"table_id",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"party_size",
			"status",
			"confirmation_code",
			"deposit_amount",
			"guest_name",
			"guest_phone",
			"notes",
		).
		Values(
			res.UserID,
			res.RestaurantID,
			res.TableID,
			res.Date,
			res.StartTime,
			res.DurationMinutes,
			res.PartySize,
			res.Status,
			res.ConfirmationCode,
			res.DepositAmount,
			res.GuestName,
			res.GuestPhone,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateCode, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserID получает список броней пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Search получает брони ресторана с гибкой фильтрацией и пагинацией.
// Фильтры: стол, пользователь, период, статус, включение неактивных броней.
func (r *Repository) Search(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"restaurant_id": filter.RestaurantID})

	selectBuilder = applyFilter(selectBuilder, filter)

	// Для конкретной даты сортируем по времени начала, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC, start_time DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Count возвращает количество броней, подпадающих под фильтр (для пагинации)
func (r *Repository) Count(ctx context.Context, filter domain.ReservationsFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"restaurant_id": filter.RestaurantID})

	selectBuilder = applyFilter(selectBuilder, filter)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

// applyFilter добавляет общие условия фильтра (без пагинации и сортировки)
func applyFilter(b squirrel.SelectBuilder, filter domain.ReservationsFilter) squirrel.SelectBuilder {
	if filter.TableID != nil {
		b = b.Where(squirrel.Eq{"table_id": *filter.TableID})
	}
	if filter.UserID != nil {
		b = b.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"reservation_date": *filter.EndDate})
	}
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		b = b.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}
	return b
}

// FindOverlapping возвращает активные брони стола, чьи интервалы пересекают
// [startTime, startTime+durationMinutes) на указанную дату.
// Внутри транзакции добавляет FOR UPDATE - это блокировка, на которой держится
// перепроверка доступности перед вставкой.
func (r *Repository) FindOverlapping(
	ctx context.Context,
	tableID int64,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	endTime, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - window end: %v", ErrBuildQuery, err)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"table_id": tableID}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"start_time": endTime}).
		Where(squirrel.Expr("start_time + (duration_minutes * interval '1 minute') > ?", startTime)).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// FindActiveByUserAround возвращает активные брони пользователя в том же
// ресторане в окне ±windowMinutes от startTime. Хвосты окна, выходящие за
// края запрошенной даты, проверяются на соседних датах.
// Используется для отсечения случайных двойных броней одного гостя.
func (r *Repository) FindActiveByUserAround(
	ctx context.Context,
	userID int64,
	restaurantID int64,
	date time.Time,
	startTime types.TimeString,
	windowMinutes int,
) ([]*domain.Reservation, error) {
	startMin, err := startTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByUserAround - bad start time: %v", ErrBuildQuery, err)
	}

	var found []*domain.Reservation
	for _, seg := range duplicateWindowSegments(date, startMin, windowMinutes) {
		part, err := r.findActiveByUserInWindow(ctx, userID, restaurantID, seg.date, seg.lower, seg.upper)
		if err != nil {
			return nil, err
		}
		found = append(found, part...)
	}
	return found, nil
}

const minutesPerDay = 24 * 60

type windowSegment struct {
	date  time.Time
	lower types.TimeString
	upper types.TimeString
}

// duplicateWindowSegments разбивает окно [start-window, start+window] на
// посуточные отрезки: внутри запрошенной даты плюс хвосты на вчера и завтра
func duplicateWindowSegments(date time.Time, startMin, windowMinutes int) []windowSegment {
	lowerMin := startMin - windowMinutes
	upperMin := startMin + windowMinutes

	segments := []windowSegment{{
		date:  date,
		lower: minutesToTimeString(max(lowerMin, 0)),
		upper: minutesToTimeString(min(upperMin, minutesPerDay)),
	}}

	if lowerMin < 0 {
		segments = append(segments, windowSegment{
			date:  date.AddDate(0, 0, -1),
			lower: minutesToTimeString(minutesPerDay + lowerMin),
			upper: minutesToTimeString(minutesPerDay),
		})
	}
	if upperMin > minutesPerDay {
		segments = append(segments, windowSegment{
			date:  date.AddDate(0, 0, 1),
			lower: minutesToTimeString(0),
			upper: minutesToTimeString(upperMin - minutesPerDay),
		})
	}
	return segments
}

func minutesToTimeString(m int) types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

func (r *Repository) findActiveByUserInWindow(
	ctx context.Context,
	userID int64,
	restaurantID int64,
	date time.Time,
	lower types.TimeString,
	upper types.TimeString,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.GtOrEq{"start_time": lower}).
		Where(squirrel.LtOrEq{"start_time": upper}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByUserAround - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByUserAround - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// UpdateStatus переводит бронь из fromStatus в toStatus и фиксирует время
// перехода в соответствующей колонке. Сравнение с fromStatus в WHERE делает
// переход атомарным: если статус уже изменился, запрос не затронет ни одной
// строки и вернёт ErrReservationNotFound.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	fromStatus domain.ReservationStatus,
	toStatus domain.ReservationStatus,
	at time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("status", toStatus).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStatus})

	switch toStatus {
	case domain.StatusSeated:
		updateBuilder = updateBuilder.Set("seated_at", at)
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("completed_at", at)
	case domain.StatusNoShow:
		updateBuilder = updateBuilder.Set("no_show_at", at)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Cancel отменяет бронь, фиксируя причину и штраф за позднюю отмену
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, fee float64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancellation_fee", fee).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Reassign атомарно переносит бронь на новый стол/время/состав.
// Длительность не меняется - она зафиксирована при создании.
// Вызывается только внутри сериализуемой транзакции: старый стол
// освобождается и новый занимается одним UPDATE, без промежуточного
// состояния с нулём или двумя столами.
func (r *Repository) Reassign(
	ctx context.Context,
	id int64,
	tableID int64,
	date time.Time,
	startTime types.TimeString,
	partySize int,
	depositAmount float64,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("table_id", tableID).
		Set("reservation_date", date).
		Set("start_time", startTime).
		Set("party_size", partySize).
		Set("deposit_amount", depositAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reassign - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reassign - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reassign - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListDueReminders возвращает подтверждённые брони на дату date, начинающиеся
// в интервале (fromTime, toTime], по которым ещё не отправлено напоминание
func (r *Repository) ListDueReminders(
	ctx context.Context,
	date time.Time,
	fromTime types.TimeString,
	toTime types.TimeString,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Gt{"start_time": fromTime}).
		Where(squirrel.LtOrEq{"start_time": toTime}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// MarkReminderSent помечает бронь как получившую напоминание
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("reminder_sent_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.RestaurantID,
		&res.TableID,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&res.PartySize,
		&res.Status,
		&res.ConfirmationCode,
		&res.DepositAmount,
		&res.GuestName,
		&res.GuestPhone,
		&res.Notes,
		&res.CancellationReason,
		&res.CancellationFee,
		&res.CancelledAt,
		&res.SeatedAt,
		&res.CompletedAt,
		&res.NoShowAt,
		&res.ReminderSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс броней
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
