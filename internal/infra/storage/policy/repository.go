package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/psqlbuilder"
)

var policyColumns = []string{
	"id",
	"restaurant_id",
	"min_party_size",
	"max_party_size",
	"reservation_duration_minutes",
	"advance_booking_days",
	"modification_deadline_hours",
	"cancellation_deadline_hours",
	"cancellation_fee_flat",
	"cancellation_fee_per_guest",
	"deposit_party_size",
	"deposit_per_guest",
	"reminder_lead_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий политики бронирования ресторана.
// Одна строка на ресторан; при отсутствии применяются дефолты
// (domain.DefaultPolicy). Изменение политики никогда не переписывает
// существующие брони - их длительность зафиксирована при создании.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByRestaurant получает политику бронирования ресторана
func (r *Repository) GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("reservation_policies").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByRestaurant - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.ReservationPolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.RestaurantID,
		&p.MinPartySize,
		&p.MaxPartySize,
		&p.ReservationDurationMin,
		&p.AdvanceBookingDays,
		&p.ModificationDeadlineHrs,
		&p.CancellationDeadlineHrs,
		&p.CancellationFeeFlat,
		&p.CancellationFeePerGuest,
		&p.DepositPartySize,
		&p.DepositPerGuest,
		&p.ReminderLeadMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRestaurant - scan policy: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Upsert создает или обновляет политику ресторана
func (r *Repository) Upsert(ctx context.Context, p *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_policies").
		Columns(
			"restaurant_id",
			"min_party_size",
			"max_party_size",
			"reservation_duration_minutes",
			"advance_booking_days",
			"modification_deadline_hours",
			"cancellation_deadline_hours",
			"cancellation_fee_flat",
			"cancellation_fee_per_guest",
			"deposit_party_size",
			"deposit_per_guest",
			"reminder_lead_minutes",
		).
		Values(
			p.RestaurantID,
			p.MinPartySize,
			p.MaxPartySize,
			p.ReservationDurationMin,
			p.AdvanceBookingDays,
			p.ModificationDeadlineHrs,
			p.CancellationDeadlineHrs,
			p.CancellationFeeFlat,
			p.CancellationFeePerGuest,
			p.DepositPartySize,
			p.DepositPerGuest,
			p.ReminderLeadMinutes,
		).
		Suffix(`ON CONFLICT (restaurant_id) DO UPDATE SET
			min_party_size = EXCLUDED.min_party_size,
			max_party_size = EXCLUDED.max_party_size,
			reservation_duration_minutes = EXCLUDED.reservation_duration_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			modification_deadline_hours = EXCLUDED.modification_deadline_hours,
			cancellation_deadline_hours = EXCLUDED.cancellation_deadline_hours,
			cancellation_fee_flat = EXCLUDED.cancellation_fee_flat,
			cancellation_fee_per_guest = EXCLUDED.cancellation_fee_per_guest,
			deposit_party_size = EXCLUDED.deposit_party_size,
			deposit_per_guest = EXCLUDED.deposit_per_guest,
			reminder_lead_minutes = EXCLUDED.reminder_lead_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
