package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookingColumns = `id, patient_id, patient_name, patient_email, patient_phone, patient_gender, patient_age,
	doctor_id, doctor_name, specialization, date, slot_minute, health_issue, status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b      Booking
		date   time.Time
		minute int
		status string
	)

	err := row.Scan(
		&b.ID,
		&b.PatientID,
		&b.PatientName,
		&b.PatientEmail,
		&b.PatientPhone,
		&b.PatientGender,
		&b.PatientAge,
		&b.DoctorID,
		&b.DoctorName,
		&b.Specialization,
		&date,
		&minute,
		&b.HealthIssue,
		&status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	b.Date = calendar.DateOf(date)
	b.Time = calendar.TimeOfDay(minute)
	b.Status = Status(status)
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
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

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// Create inserts a Pending booking. The partial unique index on active
// bookings makes the conflict check and the insert one atomic step.
func (r *PgRepository) Create(ctx context.Context, d Draft) (*Booking, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, patient_id, patient_name, patient_email, patient_phone, patient_gender, patient_age,
			doctor_id, doctor_name, specialization, date, slot_minute, health_issue, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now())
		RETURNING `+bookingColumns,
		uuid.New(), d.PatientID, d.PatientName, d.PatientEmail, d.PatientPhone, d.PatientGender, d.PatientAge,
		d.DoctorID, d.DoctorName, d.Specialization, d.Date.Time(), int(*d.Time), d.HealthIssue,
		string(StatusPending), d.Notes,
	)

	b, err := scanBooking(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func (r *PgRepository) FindByDoctorDateTime(ctx context.Context, doctorID uuid.UUID, date calendar.Date, at calendar.TimeOfDay, statuses []Status) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE doctor_id = $1
		  AND date = $2
		  AND slot_minute = $3
		  AND (cardinality($4::text[]) = 0 OR status = ANY($4))
	`, doctorID, date.Time(), int(at), statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("find bookings for slot: %w", err)
	}
	return collectBookings(rows)
}

func (r *PgRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]Booking, error) {
	return r.FindAll(ctx, Filter{PatientID: patientID})
}

func (r *PgRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Booking, error) {
	return r.FindAll(ctx, Filter{DoctorID: doctorID})
}

func (r *PgRepository) FindByDateRange(ctx context.Context, from, to calendar.Date) ([]Booking, error) {
	return r.FindAll(ctx, Filter{From: from, To: to})
}

func (r *PgRepository) FindAll(ctx context.Context, f Filter) ([]Booking, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.PatientID != uuid.Nil {
		add("patient_id = $%d", f.PatientID)
	}
	if f.DoctorID != uuid.Nil {
		add("doctor_id = $%d", f.DoctorID)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", statusStrings(f.Statuses))
	}
	if !f.From.IsZero() {
		add("date >= $%d", f.From.Time())
	}
	if !f.To.IsZero() {
		add("date <= $%d", f.To.Time())
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, slot_minute, created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return collectBookings(rows)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes *string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
		    notes = COALESCE($4, notes),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+bookingColumns, id, string(to), string(from), notes)

	b, err := scanBooking(row)
	if errors.Is(err, ErrBookingNotFound) {
		// either the id is unknown or its status moved on underneath us
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return b, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PgRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int, len(allStatuses))
	for _, s := range allStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking_events (event_type, booking_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.Type, ev.BookingID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
