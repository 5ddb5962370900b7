package policies

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/internal/service/policies/models"
)

// Service сервис для работы с политиками бронирования ресторанов
type Service struct {
	policyRepo       PolicyRepository
	restaurantClient RestaurantServiceClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	restaurantClient RestaurantServiceClient,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:       policyRepo,
		restaurantClient: restaurantClient,
		logger:           logger,
	}
}

// GetByRestaurant получает политику бронирования ресторана
// Публичный метод - доступен всем. Ресторан без своей политики получает дефолтную.
func (s *Service) GetByRestaurant(ctx context.Context, restaurantID int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetByRestaurant: fetching policy for restaurant=%d", restaurantID)

	pol, err := s.policyRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetByRestaurant: restaurant=%d has no policy, returning defaults", restaurantID)
			return models.FromDomainPolicy(domain.DefaultPolicy(restaurantID), true), nil
		}
		s.logger.Error("GetByRestaurant: repository error for restaurant=%d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: GetByRestaurant - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(pol, false), nil
}

// Update обновляет политику бронирования ресторана
// Доступно только менеджерам ресторана. Не переданные поля остаются прежними;
// у ресторана без своей политики базой служат дефолтные значения.
func (s *Service) Update(ctx context.Context, restaurantID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for restaurant=%d by user=%d", restaurantID, req.UserID)

	// 1. Получаем ресторан для проверки прав доступа
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("Update: restaurant id=%d not found", restaurantID)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("Update: failed to get restaurant id=%d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа (только менеджер ресторана)
	if !restaurant.IsManager(req.UserID) {
		s.logger.Warn("Update: user=%d is not a manager of restaurant=%d", req.UserID, restaurantID)
		return nil, ErrAccessDenied
	}

	// 3. Базой служит текущая политика или дефолтная
	pol, err := s.policyRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("Update: repository error for restaurant=%d: %v", restaurantID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		pol = domain.DefaultPolicy(restaurantID)
	}

	// 4. Накладываем изменения и валидируем результат целиком
	req.ApplyTo(pol)
	if err := validatePolicy(pol); err != nil {
		s.logger.Warn("Update: validation failed for restaurant=%d: %v", restaurantID, err)
		return nil, err
	}

	// 5. Сохраняем
	saved, err := s.policyRepo.Upsert(ctx, pol)
	if err != nil {
		s.logger.Error("Update: failed to upsert policy for restaurant=%d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: policy for restaurant=%d saved, id=%d", restaurantID, saved.ID)
	return models.FromDomainPolicy(saved, false), nil
}

// validatePolicy проверяет политику на согласованность границ
func validatePolicy(p *domain.ReservationPolicy) error {
	if p.MinPartySize < 1 {
		return fmt.Errorf("%w: minPartySize must be at least 1", ErrInvalidInput)
	}
	if p.MaxPartySize > domain.MaxPartySizeBound {
		return fmt.Errorf("%w: maxPartySize must not exceed %d", ErrInvalidInput, domain.MaxPartySizeBound)
	}
	if p.MinPartySize > p.MaxPartySize {
		return fmt.Errorf("%w: minPartySize must not exceed maxPartySize", ErrInvalidInput)
	}
	if p.ReservationDurationMin < domain.MinReservationDurationMin || p.ReservationDurationMin > domain.MaxReservationDurationMin {
		return fmt.Errorf("%w: reservationDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinReservationDurationMin, domain.MaxReservationDurationMin)
	}
	if p.AdvanceBookingDays < domain.MinAdvanceBookingDays || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if p.ModificationDeadlineHrs < 0 || p.ModificationDeadlineHrs > domain.MaxDeadlineHours {
		return fmt.Errorf("%w: modificationDeadlineHours out of range", ErrInvalidInput)
	}
	if p.CancellationDeadlineHrs < 0 || p.CancellationDeadlineHrs > domain.MaxDeadlineHours {
		return fmt.Errorf("%w: cancellationDeadlineHours out of range", ErrInvalidInput)
	}
	if p.CancellationFeeFlat < 0 || p.CancellationFeePerGuest < 0 {
		return fmt.Errorf("%w: cancellation fee must not be negative", ErrInvalidInput)
	}
	if p.DepositPartySize < 0 {
		return fmt.Errorf("%w: depositPartySize must not be negative", ErrInvalidInput)
	}
	if p.DepositPerGuest < 0 {
		return fmt.Errorf("%w: depositPerGuest must not be negative", ErrInvalidInput)
	}
	if p.ReminderLeadMinutes < 0 {
		return fmt.Errorf("%w: reminderLeadMinutes must not be negative", ErrInvalidInput)
	}
	return nil
}
