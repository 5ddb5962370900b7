package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ErrInternal возвращается при внутренних ошибках развёртки
var ErrInternal = errors.New("reminders: internal error")

// dayEnd верхняя граница суток для оконных запросов
const dayEnd = types.TimeString("24:00")

// Service периодическая развёртка напоминаний: находит подтверждённые брони,
// до начала которых осталось меньше lead-времени политики, публикует
// напоминание и помечает бронь, чтобы не отправлять повторно.
type Service struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger

	// maxLeadMinutes ширина окна выборки; должна покрывать максимальный
	// ReminderLeadMinutes среди политик ресторанов
	maxLeadMinutes int
}

// NewService создает новый экземпляр развёртки напоминаний
func NewService(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	publisher EventPublisher,
	maxLeadMinutes int,
	logger Logger,
) *Service {
	if maxLeadMinutes <= 0 {
		maxLeadMinutes = domain.DefaultReminderLeadMinutes
	}
	return &Service{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		maxLeadMinutes:  maxLeadMinutes,
		logger:          logger,
	}
}

// Sweep выполняет один проход развёртки. Возвращает число отправленных
// напоминаний. Ошибка по отдельной брони не прерывает проход.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	s.logger.Info("Sweep: started at %s, window=%d minutes", now.Format(time.RFC3339), s.maxLeadMinutes)

	due, err := s.collectDue(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	policies := map[int64]*domain.ReservationPolicy{}
	for _, res := range due {
		pol, ok := policies[res.RestaurantID]
		if !ok {
			pol = s.loadPolicy(ctx, res.RestaurantID)
			policies[res.RestaurantID] = pol
		}

		// Шлём только тем, у кого lead их ресторана уже наступил
		lead := time.Duration(pol.ReminderLeadMinutes) * time.Minute
		if res.StartsAt(now.Location()).After(now.Add(lead)) {
			continue
		}

		if err := s.publisher.ReservationReminder(ctx, events.ReservationReminderEvent{
			ReservationID:    res.ID,
			ConfirmationCode: res.ConfirmationCode,
			UserID:           res.UserID,
			RestaurantID:     res.RestaurantID,
			Date:             res.Date.Format(domain.DateFormat),
			StartTime:        res.StartTime.String(),
			PartySize:        res.PartySize,
		}); err != nil {
			s.logger.Error("Sweep: failed to publish reminder for reservation id=%d: %v", res.ID, err)
			continue
		}

		if err := s.reservationRepo.MarkReminderSent(ctx, res.ID, now); err != nil {
			s.logger.Error("Sweep: failed to mark reminder sent for reservation id=%d: %v", res.ID, err)
			continue
		}

		sent++
	}

	s.logger.Info("Sweep: finished, %d/%d reminders sent", sent, len(due))
	return sent, nil
}

// collectDue собирает брони в окне [now, now+maxLead], включая хвост,
// перетекающий через полночь на завтрашнюю дату
func (s *Service) collectDue(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowTime := types.NewTimeString(now)

	windowEnd, err := nowTime.AddMinutes(s.maxLeadMinutes)
	if err != nil {
		// Окно перетекает через полночь: добираем завтрашний хвост
		nowMinutes, merr := nowTime.Minutes()
		if merr != nil {
			return nil, fmt.Errorf("%w: window start: %v", ErrInternal, merr)
		}
		spill := nowMinutes + s.maxLeadMinutes - 24*60

		due, err := s.reservationRepo.ListDueReminders(ctx, today, nowTime, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: list due reminders: %v", ErrInternal, err)
		}

		spillEnd, serr := types.TimeString("00:00").AddMinutes(spill)
		if serr != nil {
			return due, nil
		}
		tomorrow, err := s.reservationRepo.ListDueReminders(ctx, today.AddDate(0, 0, 1), types.TimeString("00:00"), spillEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: list due reminders: %v", ErrInternal, err)
		}
		return append(due, tomorrow...), nil
	}

	due, err := s.reservationRepo.ListDueReminders(ctx, today, nowTime, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: list due reminders: %v", ErrInternal, err)
	}
	return due, nil
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
