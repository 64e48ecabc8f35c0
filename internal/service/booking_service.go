package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/notify"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	unknownMemberName = "Unknown"

	// DefaultNotifyTimeout сколько запрос ждёт подписчиков журнала
	DefaultNotifyTimeout = 2 * time.Second
)

// BookRequest запрос на запись
type BookRequest struct {
	MemberID   string
	MemberName string
	Date       string
	UserAgent  string
}

type BookingService struct {
	bookings repository.BookingStore
	members  repository.MemberStore
	listener notify.ActivityListener
	logger   *zap.Logger
	now      func() time.Time

	notifyTimeout time.Duration
}

func NewBookingService(
	bookings repository.BookingStore,
	members repository.MemberStore,
	listener notify.ActivityListener,
	logger *zap.Logger,
) *BookingService {
	if listener == nil {
		listener = notify.Nop
	}
	return &BookingService{
		bookings: bookings,
		members:  members,
		listener: listener,
		logger:   logger,
		now:      time.Now,

		notifyTimeout: DefaultNotifyTimeout,
	}
}

// SetNotifyTimeout меняет предел ожидания подписчиков, d <= 0 возвращает значение по умолчанию
func (s *BookingService) SetNotifyTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultNotifyTimeout
	}
	s.notifyTimeout = d
}

// BookSlot записывает участника на будний день.
// Проверки дубликата и вместимости выполняет хранилище вместе с записью.
func (s *BookingService) BookSlot(ctx context.Context, req BookRequest) (*model.Booking, error) {
	if req.MemberID == "" {
		return nil, model.Validationf("memberId is required")
	}

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", req.Date)
	}
	if !calendar.IsWeekday(day) {
		return nil, model.ErrInvalidDate
	}

	memberName := req.MemberName
	if memberName == "" {
		member, err := s.members.GetMember(ctx, req.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, model.Validationf("Unknown member %q", req.MemberID)
		}
		memberName = member.Name
	}

	now := s.now().UTC()
	booking := &model.Booking{
		ID:         uuid.NewString(),
		MemberID:   req.MemberID,
		MemberName: memberName,
		Date:       req.Date,
		CreatedAt:  now,
	}
	activity := &model.Activity{
		ID:         uuid.NewString(),
		MemberID:   req.MemberID,
		MemberName: memberName,
		Action:     model.ActivityActionBooked,
		Date:       req.Date,
		DeviceInfo: DescribeDevice(req.UserAgent),
		CreatedAt:  now,
	}

	if err := s.bookings.CreateBooking(ctx, booking, activity, model.MaxSlotsPerDay); err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.String("booking_id", booking.ID),
		zap.String("member_id", booking.MemberID),
		zap.String("date", booking.Date),
	)

	s.notify(ctx, activity)
	return booking, nil
}

// CancelBooking удаляет запись участника. Прошедшие даты отменять можно.
func (s *BookingService) CancelBooking(ctx context.Context, memberID, date, userAgent string) (*model.Booking, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", date)
	}

	memberName, err := s.cancelledName(ctx, memberID, date)
	if err != nil {
		return nil, err
	}

	activity := &model.Activity{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		MemberName: memberName,
		Action:     model.ActivityActionCancelled,
		Date:       date,
		DeviceInfo: DescribeDevice(userAgent),
		CreatedAt:  s.now().UTC(),
	}

	deleted, err := s.bookings.DeleteBooking(ctx, memberID, date, activity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", deleted.ID),
		zap.String("member_id", memberID),
		zap.String("date", date),
	)

	s.notify(ctx, activity)
	return deleted, nil
}

// ListBookings все брони по дате и времени создания
func (s *BookingService) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

// ListBookingsByDate брони на дату
func (s *BookingService) ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.bookings.ListBookingsByDate(ctx, date)
}

// ListBookingsByMember брони участника
func (s *BookingService) ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error) {
	return s.bookings.ListBookingsByMember(ctx, memberID)
}

// cancelledName имя для журнала отмены: справочник, затем имя из самой брони, затем "Unknown"
func (s *BookingService) cancelledName(ctx context.Context, memberID, date string) (string, error) {
	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return "", err
	}
	if member != nil && member.Name != "" {
		return member.Name, nil
	}

	bookings, err := s.bookings.ListBookingsByDate(ctx, date)
	if err != nil {
		return "", err
	}
	for _, b := range bookings {
		if b.MemberID == memberID && b.MemberName != "" {
			return b.MemberName, nil
		}
	}
	return unknownMemberName, nil
}

// notify отдаёт запись подписчикам и ждёт их не дольше notifyTimeout.
// Отмена запроса подписчиков не прерывает, зависший подписчик досылает в фоне.
func (s *BookingService) notify(ctx context.Context, activity *model.Activity) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.listener.OnActivity(notifyCtx, activity)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Warn("Failed to deliver activity",
				zap.String("activity_id", activity.ID),
				zap.Error(err),
			)
		}
	case <-notifyCtx.Done():
		s.logger.Warn("Activity delivery timed out",
			zap.String("activity_id", activity.ID),
			zap.Duration("timeout", s.notifyTimeout),
		)
	}
}
