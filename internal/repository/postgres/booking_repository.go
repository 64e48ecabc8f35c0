package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, member_id, member_name, date, created_at`

type BookingRepository struct {
	base *Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{base: NewRepository(pool)}
}

// CreateBooking создаёт бронь и запись журнала в одной транзакции.
// Advisory lock по дате сериализует конкурентные записи на один день.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *model.Booking, activity *model.Activity, capacity int) error {
	return r.base.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockDate(ctx, tx, booking.Date); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM bookings WHERE member_id = $1 AND date = $2)`,
			booking.MemberID, booking.Date,
		).Scan(&exists)
		if err != nil {
			return classify(fmt.Errorf("check member booking: %w", err))
		}
		if exists {
			return model.ErrDuplicateBooking
		}

		var taken int
		err = tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE date = $1`, booking.Date).Scan(&taken)
		if err != nil {
			return classify(fmt.Errorf("count bookings: %w", err))
		}
		if taken >= capacity {
			return model.ErrCapacityExceeded
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bookings (`+bookingColumns+`) VALUES ($1, $2, $3, $4, $5)`,
			booking.ID, booking.MemberID, booking.MemberName, booking.Date, booking.CreatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return model.ErrDuplicateBooking
			}
			return classify(fmt.Errorf("create booking: %w", err))
		}

		return insertActivity(ctx, tx, activity)
	})
}

// DeleteBooking удаляет бронь участника на дату и пишет журнал
func (r *BookingRepository) DeleteBooking(ctx context.Context, memberID, date string, activity *model.Activity) (*model.Booking, error) {
	var deleted model.Booking

	err := r.base.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockDate(ctx, tx, date); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`DELETE FROM bookings WHERE member_id = $1 AND date = $2 RETURNING `+bookingColumns,
			memberID, date,
		).Scan(&deleted.ID, &deleted.MemberID, &deleted.MemberName, &deleted.Date, &deleted.CreatedAt)
		if err != nil {
			if IsNotFound(err) {
				return model.ErrBookingNotFound
			}
			return classify(fmt.Errorf("delete booking: %w", err))
		}

		return insertActivity(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}

// ListBookings получает все брони
func (r *BookingRepository) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY date ASC, created_at ASC`)
}

// ListBookingsByDate получает брони на дату
func (r *BookingRepository) ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE date = $1 ORDER BY created_at ASC`, date)
}

// ListBookingsByMember получает брони участника
func (r *BookingRepository) ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE member_id = $1 ORDER BY date ASC, created_at ASC`, memberID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.base.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list bookings: %w", err))
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.MemberID, &b.MemberName, &b.Date, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

func lockDate(ctx context.Context, tx pgx.Tx, date string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "booking:"+date); err != nil {
		return classify(fmt.Errorf("lock date: %w", err))
	}
	return nil
}
