package get_available_times

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// UseCase use case для получения свободных времён на дату
type UseCase struct {
	reservationRepo  ReservationRepository
	tableRepo        TableRepository
	policyRepo       PolicyRepository
	restaurantClient RestaurantServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	policyRepo PolicyRepository,
	restaurantClient RestaurantServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		tableRepo:        tableRepo,
		policyRepo:       policyRepo,
		restaurantClient: restaurantClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных времён.
// Результат консультативный: расчёт идёт без блокировок, гарантия отсутствия
// пересечений даётся только при создании брони.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: restaurant=%d, date=%s, party=%d",
		req.RestaurantID, req.Date.Format(domain.DateFormat), req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableTimes: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем профиль ресторана
	restaurant, err := uc.restaurantClient.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			uc.logger.Warn("GetAvailableTimes: restaurant id=%d not found", req.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		uc.logger.Error("GetAvailableTimes: failed to get restaurant id=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 3. Загружаем политику бронирования ресторана
	pol, err := uc.policyRepo.GetByRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			pol = domain.DefaultPolicy(req.RestaurantID)
			uc.logger.Info("GetAvailableTimes: using default policy for restaurant=%d", req.RestaurantID)
		} else {
			uc.logger.Error("GetAvailableTimes: failed to get policy: %v", err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
	}

	// 4. Расписание на день: закрытый день отдаёт пустой список, не ошибку
	schedule := policy.ScheduleForDay(restaurant, req.Date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.LastReservationTime == nil {
		uc.logger.Info("GetAvailableTimes: restaurant %d is closed on %s",
			req.RestaurantID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, pol), nil
	}

	open, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: bad open time %q: %v", *schedule.OpenTime, err)
		return nil, fmt.Errorf("%w: bad schedule: %v", ErrInternal, err)
	}
	last, err := types.NewTimeStringFromString(*schedule.LastReservationTime)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: bad last reservation time %q: %v", *schedule.LastReservationTime, err)
		return nil, fmt.Errorf("%w: bad schedule: %v", ErrInternal, err)
	}

	// 5. Загружаем столы и активные брони на дату
	tables, err := uc.tableRepo.GetActiveByRestaurant(ctx, req.RestaurantID)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get tables: %v", err)
		return nil, fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
	}

	reservations, err := uc.reservationRepo.Search(ctx, domain.ReservationsFilter{
		RestaurantID: req.RestaurantID,
		StartDate:    &req.Date,
		EndDate:      &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 6. Считаем свободные времена по сетке
	free := availability.ComputeFreeTimes(
		tables, reservations, open, last,
		pol.ReservationDurationMin, req.PartySize, availability.DefaultTimeStepMinutes)

	// На сегодняшнюю дату прошедшие времена не предлагаем
	if now := uc.timeProvider.Now(); sameDay(req.Date, now) {
		free = dropPast(free, types.NewTimeString(now))
	}

	uc.logger.Info("GetAvailableTimes: %d free times for restaurant=%d, date=%s, party=%d",
		len(free), req.RestaurantID, req.Date.Format(domain.DateFormat), req.PartySize)

	resp := uc.emptyResponse(req, pol)
	resp.Times = free
	return resp, nil
}

func (uc *UseCase) emptyResponse(req *Request, pol *domain.ReservationPolicy) *Response {
	return &Response{
		RestaurantID:    req.RestaurantID,
		Date:            req.Date,
		PartySize:       req.PartySize,
		DurationMinutes: pol.ReservationDurationMin,
		Times:           []types.TimeString{},
	}
}

func dropPast(times []types.TimeString, cutoff types.TimeString) []types.TimeString {
	kept := times[:0]
	for _, ts := range times {
		if ts.IsAfter(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
