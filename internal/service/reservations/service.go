package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	resRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/internal/service/reservations/models"
)

// Service сервис для работы с существующими бронями: чтение, отмена,
// прогон по жизненному циклу (seated/completed/no_show)
type Service struct {
	reservationRepo  ReservationRepository
	policyRepo       PolicyRepository
	restaurantClient RestaurantServiceClient
	guestClient      GuestServiceClient
	publisher        EventPublisher
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	restaurantClient RestaurantServiceClient,
	guestClient GuestServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:  reservationRepo,
		policyRepo:       policyRepo,
		restaurantClient: restaurantClient,
		guestClient:      guestClient,
		publisher:        publisher,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetByID получает бронь по ID
// Проверяет права доступа - пользователь может видеть только свою бронь
// или если он сотрудник ресторана
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, res, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю броней пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations, int64(len(reservations))), nil
}

// SearchRestaurantReservations получает брони ресторана с фильтрацией и пагинацией
// Доступно только сотрудникам ресторана
func (s *Service) SearchRestaurantReservations(ctx context.Context, req *models.SearchReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("SearchRestaurantReservations: restaurant=%d, user=%d", req.RestaurantID, req.UserID)

	// Проверяем права доступа сотрудника
	if _, err := s.checkStaffAccess(ctx, req.RestaurantID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("SearchRestaurantReservations: invalid filter for restaurant=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("SearchRestaurantReservations: repository error for restaurant=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: SearchRestaurantReservations - repository error: %v", ErrInternal, err)
	}

	total, err := s.reservationRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("SearchRestaurantReservations: count error for restaurant=%d: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: SearchRestaurantReservations - count error: %v", ErrInternal, err)
	}

	s.logger.Info("SearchRestaurantReservations: fetched %d/%d reservations for restaurant=%d",
		len(reservations), total, req.RestaurantID)
	return models.FromDomainReservationList(reservations, total), nil
}

// Cancel отменяет бронь.
// Гость может отменить только свою бронь, сотрудник ресторана - любую бронь
// ресторана. Поздняя отмена (внутри дедлайна политики) влечёт штраф;
// менеджер ресторана может штраф списать.
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	restaurant, err := s.getRestaurant(ctx, res.RestaurantID)
	if err != nil {
		return nil, err
	}

	// Права: владелец брони или сотрудник ресторана
	isOwner := res.UserID == req.UserID
	isStaff := restaurant.IsStaff(req.UserID)
	if !isOwner && !isStaff {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.UserID, reservationID)
		return nil, ErrAccessDenied
	}

	// Отменить можно только подтверждённую бронь
	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, res.Status)
		return nil, ErrCannotCancel
	}

	now := s.timeProvider.Now()

	// Штраф за позднюю отмену
	fee := 0.0
	pol := s.loadPolicy(ctx, res.RestaurantID)
	if policy.IsLateCancellation(res, pol, now) {
		fee = pol.LateCancellationFee(res.PartySize)
		s.logger.Info("Cancel: late cancellation of reservation id=%d, fee=%.2f", reservationID, fee)
	}

	// Менеджер ресторана может списать штраф
	if fee > 0 && req.WaiveFee {
		if !restaurant.IsManager(req.UserID) {
			s.logger.Warn("Cancel: user=%d is not a manager, fee waive rejected", req.UserID)
			return nil, ErrAccessDenied
		}
		s.logger.Info("Cancel: fee waived for reservation id=%d by manager=%d", reservationID, req.UserID)
		fee = 0.0
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID, req.CancellationReason, fee, now); err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			// Статус сменился между чтением и отменой
			s.logger.Warn("Cancel: reservation id=%d changed status concurrently", reservationID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: cancelled reservation id=%d, fee=%.2f", reservationID, fee)

	// Публикуем событие отмены (ошибка публикации отмену не откатывает)
	if err := s.publisher.ReservationCancelled(ctx, events.ReservationCancelledEvent{
		ReservationID:    res.ID,
		ConfirmationCode: res.ConfirmationCode,
		UserID:           res.UserID,
		RestaurantID:     res.RestaurantID,
		Date:             res.Date.Format(domain.DateFormat),
		StartTime:        res.StartTime.String(),
		CancellationFee:  fee,
		Reason:           req.CancellationReason,
	}); err != nil {
		s.logger.Error("Cancel: failed to publish cancelled event for id=%d: %v", res.ID, err)
	}

	updated, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		s.logger.Error("Cancel: failed to reload reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - reload: %v", ErrInternal, err)
	}
	return models.FromDomainReservation(updated), nil
}

// UpdateStatus переводит бронь по жизненному циклу: confirmed -> seated,
// seated -> completed, confirmed -> no_show. Доступно только сотрудникам.
func (s *Service) UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateStatus: reservation id=%d to status=%s by user=%d",
		reservationID, req.Status, req.UserID)

	newStatus, err := models.ToDomainReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			s.logger.Warn("UpdateStatus: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Смена статуса - операция персонала ресторана
	if _, err := s.checkStaffAccess(ctx, res.RestaurantID, req.UserID); err != nil {
		return nil, err
	}

	if !res.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for reservation id=%d",
			res.Status, newStatus, reservationID)
		return nil, ErrInvalidTransition
	}

	now := s.timeProvider.Now()

	switch newStatus {
	case domain.StatusSeated:
		// Посадка далеко вне окна брони - аномалия, но не отказ
		s.warnIfSeatedOutsideWindow(res, now)
	case domain.StatusNoShow:
		// Неявку нельзя отметить до назначенного времени
		if now.Before(res.StartsAt(now.Location())) {
			s.logger.Warn("UpdateStatus: no-show for reservation id=%d before start time", reservationID)
			return nil, ErrTooEarlyForNoShow
		}
	}

	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, res.Status, newStatus, now); err != nil {
		if errors.Is(err, resRepo.ErrReservationNotFound) {
			// Статус сменился между чтением и обновлением
			s.logger.Warn("UpdateStatus: reservation id=%d changed status concurrently", reservationID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: reservation id=%d moved %s -> %s", reservationID, res.Status, newStatus)

	if newStatus == domain.StatusNoShow {
		s.recordNoShow(ctx, res.UserID)
	}

	updated, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to reload reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - reload: %v", ErrInternal, err)
	}
	return models.FromDomainReservation(updated), nil
}

// Вспомогательные методы

// warnIfSeatedOutsideWindow логирует посадку далеко за пределами окна брони
func (s *Service) warnIfSeatedOutsideWindow(res *domain.Reservation, now time.Time) {
	start := res.StartsAt(now.Location())
	end := start.Add(time.Duration(res.DurationMinutes) * time.Minute)
	slack := time.Duration(domain.SeatWindowSlackMinutes) * time.Minute

	if now.Before(start.Add(-slack)) || now.After(end.Add(slack)) {
		s.logger.Warn("UpdateStatus: reservation id=%d seated at %s, far outside window %s - %s",
			res.ID, now.Format(time.RFC3339), start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
}

// recordNoShow инкрементирует счётчик неявок гостя и при достижении порога
// публикует событие. Ошибки не фатальны для самой отметки неявки.
func (s *Service) recordNoShow(ctx context.Context, userID int64) {
	result, err := s.guestClient.IncrementNoShow(ctx, userID)
	if err != nil {
		s.logger.Error("recordNoShow: failed to increment no-show counter for user=%d: %v", userID, err)
		return
	}

	s.logger.Info("recordNoShow: user=%d has %d no-shows", userID, result.NoShowCount)

	if result.NoShowCount >= domain.NoShowFlagThreshold {
		if err := s.publisher.GuestFlagged(ctx, events.GuestFlaggedEvent{
			UserID:      userID,
			NoShowCount: result.NoShowCount,
		}); err != nil {
			s.logger.Error("recordNoShow: failed to publish guest flagged event for user=%d: %v", userID, err)
		}
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к брони
// Пользователь может видеть свою бронь или если он сотрудник ресторана
func (s *Service) checkUserAccess(ctx context.Context, res *domain.Reservation, userID int64) error {
	if res.UserID == userID {
		return nil
	}

	if _, err := s.checkStaffAccess(ctx, res.RestaurantID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkStaffAccess проверяет, что пользователь является сотрудником ресторана
func (s *Service) checkStaffAccess(ctx context.Context, restaurantID int64, userID int64) (*restaurantservice.Restaurant, error) {
	restaurant, err := s.getRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if !restaurant.IsStaff(userID) {
		s.logger.Warn("checkStaffAccess: user=%d is not staff of restaurant=%d", userID, restaurantID)
		return nil, ErrAccessDenied
	}

	return restaurant, nil
}

func (s *Service) getRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error) {
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("getRestaurant: restaurant id=%d not found", restaurantID)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("getRestaurant: failed to get restaurant id=%d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}
	return restaurant, nil
}

// loadPolicy возвращает политику ресторана или дефолтную, если своя не настроена
func (s *Service) loadPolicy(ctx context.Context, restaurantID int64) *domain.ReservationPolicy {
	pol, err := s.policyRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("loadPolicy: failed to get policy for restaurant=%d: %v", restaurantID, err)
		}
		return domain.DefaultPolicy(restaurantID)
	}
	return pol
}
