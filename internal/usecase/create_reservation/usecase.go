package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	resRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// alternativesLimit сколько ближайших свободных времён предлагать при отказе
const alternativesLimit = 3

// UseCase use case для создания брони
type UseCase struct {
	reservationRepo  ReservationRepository
	tableRepo        TableRepository
	policyRepo       PolicyRepository
	calculator       AvailabilityCalculator
	restaurantClient RestaurantServiceClient
	paymentClient    PaymentServiceClient
	publisher        EventPublisher
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger

	// duplicateWindowMinutes окно (±) поиска активных броней того же гостя
	duplicateWindowMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	policyRepo PolicyRepository,
	calculator AvailabilityCalculator,
	restaurantClient RestaurantServiceClient,
	paymentClient PaymentServiceClient,
	publisher EventPublisher,
	txManager TransactionManager,
	duplicateWindowMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:        reservationRepo,
		tableRepo:              tableRepo,
		policyRepo:             policyRepo,
		calculator:             calculator,
		restaurantClient:       restaurantClient,
		paymentClient:          paymentClient,
		publisher:              publisher,
		txManager:              txManager,
		timeProvider:           &RealTimeProvider{},
		duplicateWindowMinutes: duplicateWindowMinutes,
		logger:                 logger,
	}
}

// Execute выполняет use case создания брони.
// Подбор стола и запись выполняются в сериализуемой транзакции: при гонке
// за последний стол одна из конкурирующих броней откатывается и подбор
// повторяется заново уже с учётом зафиксированной.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, restaurant=%d, date=%s, time=%s, party=%d",
		req.UserID, req.RestaurantID, req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем профиль ресторана (часы работы, blackout даты)
	restaurant, err := uc.restaurantClient.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			uc.logger.Warn("CreateReservation: restaurant id=%d not found", req.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		uc.logger.Error("CreateReservation: failed to get restaurant id=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 4. Загружаем политику бронирования ресторана
	pol, err := uc.loadPolicy(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	// 5. Проверяем запрос по правилам ресторана
	if err := policy.Validate(restaurant, pol, now, req.Date, req.StartTime, pol.ReservationDurationMin, req.PartySize); err != nil {
		uc.logger.Warn("CreateReservation: policy check failed: %v", err)
		return nil, err
	}

	// Длительность фиксируется политикой на момент создания и дальше не меняется
	durationMinutes := pol.ReservationDurationMin

	// 6. Авторизуем депозит, если он требуется (большая компания или blackout дата)
	depositAmount := 0.0
	if required, amount := policy.DepositRequired(restaurant, pol, req.Date, req.PartySize); required {
		auth, err := uc.paymentClient.AuthorizeDeposit(ctx, paymentservice.DepositRequest{
			UserID:       req.UserID,
			RestaurantID: req.RestaurantID,
			Amount:       amount,
		})
		if err != nil {
			if errors.Is(err, paymentservice.ErrDepositDeclined) {
				uc.logger.Warn("CreateReservation: deposit %.2f declined for user=%d", amount, req.UserID)
				return nil, ErrDepositDeclined
			}
			uc.logger.Error("CreateReservation: deposit authorization failed: %v", err)
			return nil, fmt.Errorf("%w: deposit authorization: %v", ErrInternal, err)
		}
		depositAmount = auth.Amount
		uc.logger.Info("CreateReservation: deposit %.2f authorized, id=%s", auth.Amount, auth.AuthorizationID)
	}

	// Переменные для хранения результата
	var (
		result        *domain.Reservation
		assignedTable *domain.Table
	)

	// 7. Подбор стола и запись брони в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Отсекаем случайную двойную бронь того же гостя в близкое время
		duplicates, err := uc.reservationRepo.FindActiveByUserAround(
			txCtx, req.UserID, req.RestaurantID, req.Date, req.StartTime, uc.duplicateWindowMinutes)
		if err != nil {
			uc.logger.Error("CreateReservation: duplicate check failed: %v", err)
			return fmt.Errorf("%w: duplicate check: %v", ErrInternal, err)
		}
		if len(duplicates) > 0 {
			uc.logger.Warn("CreateReservation: user=%d already holds reservation id=%d around %s",
				req.UserID, duplicates[0].ID, req.StartTime)
			return ErrDuplicateReservation
		}

		// 7.2. Подбираем свободные столы (с блокировкой пересекающихся броней)
		candidates, err := uc.calculator.FindCandidates(
			txCtx, req.RestaurantID, req.Date, req.StartTime, durationMinutes, req.PartySize)
		if err != nil {
			switch {
			case errors.Is(err, availability.ErrPartyUnserviceable):
				uc.logger.Warn("CreateReservation: no table fits party of %d in restaurant %d",
					req.PartySize, req.RestaurantID)
				return ErrPartyUnserviceable
			case errors.Is(err, availability.ErrNoTablesAvailable):
				uc.logger.Warn("CreateReservation: all tables taken at %s on %s",
					req.StartTime, req.Date.Format(domain.DateFormat))
				return ErrNoAvailability
			default:
				uc.logger.Error("CreateReservation: availability check failed: %v", err)
				return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
			}
		}

		table, err := availability.Allocate(candidates)
		if err != nil {
			return ErrNoAvailability
		}

		// 7.3. Создаем бронь, перегенерируя код подтверждения при коллизии
		created, err := uc.createWithFreshCode(txCtx, req, table.ID, durationMinutes, depositAmount)
		if err != nil {
			return err
		}

		// 7.4. Двигаем метку LRU стола, чтобы равные по вместимости столы чередовались
		if err := uc.tableRepo.TouchAssigned(txCtx, table.ID, now); err != nil {
			uc.logger.Error("CreateReservation: failed to touch table %d: %v", table.ID, err)
			return fmt.Errorf("%w: touch table: %v", ErrInternal, err)
		}

		result = created
		assignedTable = table
		return nil
	})

	if err != nil {
		// Для отказа по занятости добавляем ближайшие свободные времена
		if errors.Is(err, ErrNoAvailability) {
			return nil, uc.withAlternatives(ctx, restaurant, pol, req, durationMinutes)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d, code=%s, table=%s",
		result.ID, result.ConfirmationCode, assignedTable.Label)

	// 8. Публикуем событие подтверждения (ошибка публикации брони не отменяет)
	if err := uc.publisher.ReservationConfirmed(ctx, events.ReservationConfirmedEvent{
		ReservationID:    result.ID,
		ConfirmationCode: result.ConfirmationCode,
		UserID:           result.UserID,
		RestaurantID:     result.RestaurantID,
		TableLabel:       assignedTable.Label,
		Date:             result.Date.Format(domain.DateFormat),
		StartTime:        result.StartTime.String(),
		DurationMinutes:  result.DurationMinutes,
		PartySize:        result.PartySize,
		DepositAmount:    result.DepositAmount,
	}); err != nil {
		uc.logger.Error("CreateReservation: failed to publish confirmed event for id=%d: %v", result.ID, err)
	}

	return toResponse(result, assignedTable), nil
}

// loadPolicy возвращает политику ресторана или дефолтную, если своя не настроена
func (uc *UseCase) loadPolicy(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	pol, err := uc.policyRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Info("CreateReservation: using default policy for restaurant=%d", restaurantID)
			return domain.DefaultPolicy(restaurantID), nil
		}
		uc.logger.Error("CreateReservation: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	return pol, nil
}

// createWithFreshCode сохраняет бронь, повторяя попытку с новым кодом
// подтверждения при нарушении уникальности (restaurant_id, confirmation_code)
func (uc *UseCase) createWithFreshCode(
	ctx context.Context,
	req *Request,
	tableID int64,
	durationMinutes int,
	depositAmount float64,
) (*domain.Reservation, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := generateConfirmationCode()
		if err != nil {
			return nil, fmt.Errorf("%w: generate confirmation code: %v", ErrInternal, err)
		}

		created, err := uc.reservationRepo.Create(ctx, &domain.Reservation{
			UserID:           req.UserID,
			RestaurantID:     req.RestaurantID,
			TableID:          &tableID,
			Date:             req.Date,
			StartTime:        req.StartTime,
			DurationMinutes:  durationMinutes,
			PartySize:        req.PartySize,
			Status:           domain.StatusConfirmed,
			ConfirmationCode: code,
			DepositAmount:    depositAmount,
			GuestName:        req.GuestName,
			GuestPhone:       req.GuestPhone,
			Notes:            req.Notes,
		})
		if err != nil {
			if errors.Is(err, resRepo.ErrDuplicateCode) {
				uc.logger.Warn("CreateReservation: confirmation code collision, attempt %d/%d",
					attempt, maxCodeAttempts)
				continue
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		return created, nil
	}

	return nil, fmt.Errorf("%w: confirmation code attempts exhausted", ErrInternal)
}

// withAlternatives дополняет отказ по занятости ближайшими свободными временами
func (uc *UseCase) withAlternatives(
	ctx context.Context,
	restaurant *restaurantservice.Restaurant,
	pol *domain.ReservationPolicy,
	req *Request,
	durationMinutes int,
) error {
	schedule := policy.ScheduleForDay(restaurant, req.Date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.LastReservationTime == nil {
		return ErrNoAvailability
	}

	open, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return ErrNoAvailability
	}
	last, err := types.NewTimeStringFromString(*schedule.LastReservationTime)
	if err != nil {
		return ErrNoAvailability
	}

	tables, err := uc.tableRepo.GetActiveByRestaurant(ctx, req.RestaurantID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load tables for alternatives: %v", err)
		return ErrNoAvailability
	}

	dayReservations, err := uc.reservationRepo.Search(ctx, domain.ReservationsFilter{
		RestaurantID: req.RestaurantID,
		StartDate:    &req.Date,
		EndDate:      &req.Date,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load reservations for alternatives: %v", err)
		return ErrNoAvailability
	}

	free := availability.ComputeFreeTimes(
		tables, dayReservations, open, last,
		durationMinutes, req.PartySize, availability.DefaultTimeStepMinutes)
	alternatives := availability.NearestAlternatives(free, req.StartTime, alternativesLimit)
	if len(alternatives) == 0 {
		return ErrNoAvailability
	}

	return &NoAvailabilityError{Alternatives: alternatives}
}

func toResponse(res *domain.Reservation, table *domain.Table) *Response {
	return &Response{
		ID:               res.ID,
		ConfirmationCode: res.ConfirmationCode,
		UserID:           res.UserID,
		RestaurantID:     res.RestaurantID,
		TableID:          table.ID,
		TableLabel:       table.Label,
		Date:             res.Date,
		StartTime:        res.StartTime,
		DurationMinutes:  res.DurationMinutes,
		PartySize:        res.PartySize,
		Status:           string(res.Status),
		DepositAmount:    res.DepositAmount,
		GuestName:        res.GuestName,
		GuestPhone:       res.GuestPhone,
		Notes:            res.Notes,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        res.UpdatedAt,
	}
}
