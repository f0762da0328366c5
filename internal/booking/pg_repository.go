package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonware/booking-engine/internal/timeutil"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.DurationMinutes,
		&s.PriceCents,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanStaff(row pgx.Row) (*Staff, error) {
	var st Staff

	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Email,
		&st.Role,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	return &st, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var startMin, endMin int
	var cancelledAt *time.Time

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.StaffID,
		&b.Date,
		&startMin,
		&endMin,
		&b.Status,
		&b.ClientName,
		&b.ClientEmail,
		&b.Notes,
		&b.CreatedAt,
		&cancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	b.Interval = timeutil.Interval{
		Start: timeutil.TimeOfDay(startMin),
		End:   timeutil.TimeOfDay(endMin),
	}
	b.CancelledAt = cancelledAt
	return &b, nil
}

// Interface methods

func (r *PgRepository) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, created_at, updated_at
		FROM staff
		WHERE id = $1
	`, id)
	return scanStaff(row)
}

func (r *PgRepository) ListStaff(ctx context.Context) ([]Staff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role, created_at, updated_at
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListWindows(ctx context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_min, end_min
		FROM availability_windows
		WHERE staff_id = $1 AND date = $2
		ORDER BY start_min
	`, staffID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIntervals(rows)
}

func (r *PgRepository) ListConfirmed(ctx context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_min, end_min
		FROM bookings
		WHERE staff_id = $1 AND date = $2 AND status = 'CONFIRMED'
		ORDER BY start_min
	`, staffID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIntervals(rows)
}

func scanIntervals(rows pgx.Rows) ([]timeutil.Interval, error) {
	var result []timeutil.Interval
	for rows.Next() {
		var startMin, endMin int
		if err := rows.Scan(&startMin, &endMin); err != nil {
			return nil, err
		}
		result = append(result, timeutil.Interval{
			Start: timeutil.TimeOfDay(startMin),
			End:   timeutil.TimeOfDay(endMin),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) InsertBooking(ctx context.Context, b *Booking) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, service_id, staff_id, date, start_min, end_min, status, client_name, client_email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, now()))
		RETURNING id, service_id, staff_id, date, start_min, end_min, status, client_name, client_email, notes, created_at, cancelled_at
	`, b.ID, b.ServiceID, b.StaffID, b.Date, int(b.Interval.Start), int(b.Interval.End), b.Status, b.ClientName, b.ClientEmail, b.Notes, nullableTime(b.CreatedAt))

	return scanBooking(row)
}

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, service_id, staff_id, date, start_min, end_min, status, client_name, client_email, notes, created_at, cancelled_at
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, cancelledAt *time.Time) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
		    cancelled_at = $4
		WHERE id = $1
		  AND status = $3
		RETURNING id, service_id, staff_id, date, start_min, end_min, status, client_name, client_email, notes, created_at, cancelled_at
	`, id, to, from, cancelledAt)

	return scanBooking(row)
}

func (r *PgRepository) ListStartingBetween(ctx context.Context, fromAt, toAt time.Time) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, service_id, staff_id, date, start_min, end_min, status, client_name, client_email, notes, created_at, cancelled_at
		FROM bookings
		WHERE status = 'CONFIRMED'
		  AND date + make_interval(mins => start_min) >= $1
		  AND date + make_interval(mins => start_min) < $2
		ORDER BY date, start_min
	`, fromAt, toAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// PgSettings reads the key-value settings table (BUSINESS_OPEN and friends).
type PgSettings struct {
	pool *pgxpool.Pool
}

func NewPgSettings(pool *pgxpool.Pool) *PgSettings {
	return &PgSettings{pool: pool}
}

func (s *PgSettings) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM system_settings WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
		}
		return "", err
	}
	return value, nil
}
