package modify_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	resRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// UseCase use case для изменения брони (перенос времени/даты, смена состава)
type UseCase struct {
	reservationRepo  ReservationRepository
	tableRepo        TableRepository
	policyRepo       PolicyRepository
	calculator       AvailabilityCalculator
	restaurantClient RestaurantServiceClient
	publisher        EventPublisher
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	policyRepo PolicyRepository,
	calculator AvailabilityCalculator,
	restaurantClient RestaurantServiceClient,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		tableRepo:        tableRepo,
		policyRepo:       policyRepo,
		calculator:       calculator,
		restaurantClient: restaurantClient,
		publisher:        publisher,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case изменения брони.
// Перенос выполняется в сериализуемой транзакции: освобождение старого окна
// и занятие нового - один атомарный UPDATE, промежуточного состояния нет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ModifyReservation: id=%d, user=%d", req.ReservationID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ModifyReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Загружаем бронь
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			uc.logger.Warn("ModifyReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ModifyReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 4. Получаем профиль ресторана
	restaurant, err := uc.restaurantClient.GetRestaurant(ctx, res.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			uc.logger.Warn("ModifyReservation: restaurant id=%d not found", res.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		uc.logger.Error("ModifyReservation: failed to get restaurant id=%d: %v", res.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 5. Изменять бронь может её владелец или сотрудник ресторана
	if res.UserID != req.UserID && !restaurant.IsStaff(req.UserID) {
		uc.logger.Warn("ModifyReservation: user=%d has no access to reservation id=%d", req.UserID, res.ID)
		return nil, ErrForbidden
	}

	// 6. Менять можно только подтверждённую бронь
	if !res.CanBeModified() {
		uc.logger.Warn("ModifyReservation: reservation id=%d in status %s cannot be modified", res.ID, res.Status)
		return nil, ErrNotModifiable
	}

	// 7. Загружаем политику и проверяем дедлайн изменения
	pol, err := uc.loadPolicy(ctx, res.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckModificationDeadline(res, pol, now); err != nil {
		uc.logger.Warn("ModifyReservation: deadline passed for reservation id=%d", res.ID)
		return nil, err
	}

	// 8. Собираем новые значения, неуказанные поля остаются прежними.
	// Длительность всегда остаётся зафиксированной при создании.
	newDate := res.Date
	if req.Date != nil {
		newDate = *req.Date
	}
	newStart := res.StartTime
	if req.StartTime != nil {
		newStart = *req.StartTime
	}
	newParty := res.PartySize
	if req.PartySize != nil {
		newParty = *req.PartySize
	}

	// 9. Новое окно проверяется по тем же правилам, что и при создании
	if err := policy.Validate(restaurant, pol, now, newDate, newStart, res.DurationMinutes, newParty); err != nil {
		uc.logger.Warn("ModifyReservation: policy check failed: %v", err)
		return nil, err
	}

	var assignedTable *domain.Table

	// 10. Переподбор стола и перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		candidates, err := uc.calculator.FindCandidatesForChange(
			txCtx, res.RestaurantID, newDate, newStart, res.DurationMinutes, newParty, res.ID)
		if err != nil {
			switch {
			case errors.Is(err, availability.ErrPartyUnserviceable):
				uc.logger.Warn("ModifyReservation: no table fits party of %d", newParty)
				return ErrPartyUnserviceable
			case errors.Is(err, availability.ErrNoTablesAvailable):
				uc.logger.Warn("ModifyReservation: all tables taken at %s on %s",
					newStart, newDate.Format(domain.DateFormat))
				return ErrNoAvailability
			default:
				uc.logger.Error("ModifyReservation: availability check failed: %v", err)
				return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
			}
		}

		// Если текущий стол всё ещё подходит, оставляем его
		table := pickTable(candidates, res.TableID)

		// Депозит, как и длительность, фиксируется при создании: изменение
		// брони не запускает повторную авторизацию платежа и не пересчитывает
		// сумму при росте компании
		if err := uc.reservationRepo.Reassign(
			txCtx, res.ID, table.ID, newDate, newStart, newParty, res.DepositAmount); err != nil {
			if errors.Is(err, resRepo.ErrReservationNotFound) {
				// Статус сменился между чтением и переносом
				uc.logger.Warn("ModifyReservation: reservation id=%d changed status concurrently", res.ID)
				return ErrNotModifiable
			}
			uc.logger.Error("ModifyReservation: failed to reassign reservation id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: reassign: %v", ErrInternal, err)
		}

		if res.TableID == nil || *res.TableID != table.ID {
			if err := uc.tableRepo.TouchAssigned(txCtx, table.ID, now); err != nil {
				uc.logger.Error("ModifyReservation: failed to touch table %d: %v", table.ID, err)
				return fmt.Errorf("%w: touch table: %v", ErrInternal, err)
			}
		}

		assignedTable = table
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ModifyReservation: reservation id=%d moved to %s %s, table=%s, party=%d",
		res.ID, newDate.Format(domain.DateFormat), newStart, assignedTable.Label, newParty)

	// 11. Публикуем событие изменения (ошибка публикации перенос не отменяет)
	if err := uc.publisher.ReservationUpdated(ctx, events.ReservationUpdatedEvent{
		ReservationID:    res.ID,
		ConfirmationCode: res.ConfirmationCode,
		UserID:           res.UserID,
		RestaurantID:     res.RestaurantID,
		TableLabel:       assignedTable.Label,
		Date:             newDate.Format(domain.DateFormat),
		StartTime:        newStart.String(),
		DurationMinutes:  res.DurationMinutes,
		PartySize:        newParty,
	}); err != nil {
		uc.logger.Error("ModifyReservation: failed to publish updated event for id=%d: %v", res.ID, err)
	}

	return uc.toResponse(res, assignedTable, newDate, newStart, newParty, now), nil
}

// loadPolicy возвращает политику ресторана или дефолтную, если своя не настроена
func (uc *UseCase) loadPolicy(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	pol, err := uc.policyRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultPolicy(restaurantID), nil
		}
		uc.logger.Error("ModifyReservation: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return pol, nil
}

// pickTable предпочитает текущий стол брони, если он среди кандидатов
func pickTable(candidates []*domain.Table, currentTableID *int64) *domain.Table {
	if currentTableID != nil {
		for _, t := range candidates {
			if t.ID == *currentTableID {
				return t
			}
		}
	}
	return candidates[0]
}

func (uc *UseCase) toResponse(
	res *domain.Reservation,
	table *domain.Table,
	date time.Time,
	startTime types.TimeString,
	partySize int,
	updatedAt time.Time,
) *Response {
	return &Response{
		ID:               res.ID,
		ConfirmationCode: res.ConfirmationCode,
		UserID:           res.UserID,
		RestaurantID:     res.RestaurantID,
		TableID:          table.ID,
		TableLabel:       table.Label,
		Date:             date,
		StartTime:        startTime,
		DurationMinutes:  res.DurationMinutes,
		PartySize:        partySize,
		Status:           string(res.Status),
		DepositAmount:    res.DepositAmount,
		GuestName:        res.GuestName,
		GuestPhone:       res.GuestPhone,
		Notes:            res.Notes,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}
