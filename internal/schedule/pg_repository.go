package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetWeekly(ctx context.Context, doctorID uuid.UUID) (*WeeklySchedule, error) {
	var (
		raw       []byte
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT days, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1
	`, doctorID).Scan(&raw, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	var days map[string]DaySchedule
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("decode schedule days: %w", err)
	}

	w := WeeklySchedule{DoctorID: doctorID, UpdatedAt: updatedAt}
	if err := w.SetDayMap(days); err != nil {
		return nil, fmt.Errorf("decode schedule days: %w", err)
	}
	return &w, nil
}

func (r *PgRepository) SaveWeekly(ctx context.Context, w WeeklySchedule) error {
	days, err := json.Marshal(w.DayMap())
	if err != nil {
		return fmt.Errorf("encode schedule days: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor_schedules (doctor_id, days, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (doctor_id) DO UPDATE
		SET days = EXCLUDED.days,
		    updated_at = now()
	`, w.DoctorID, string(days))
	if err != nil {
		return fmt.Errorf("save weekly schedule: %w", err)
	}
	return nil
}

const exceptionColumns = `doctor_id, date, kind, reason, time_slots`

func scanException(row pgx.Row) (*Exception, error) {
	var (
		e     Exception
		date  time.Time
		kind  string
		slots []byte
	)
	err := row.Scan(&e.DoctorID, &date, &kind, &e.Reason, &slots)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExceptionNotFound
		}
		return nil, err
	}

	e.Date = calendar.DateOf(date)
	e.Kind = ExceptionKind(kind)
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &e.Slots); err != nil {
			return nil, fmt.Errorf("decode exception slots: %w", err)
		}
	}
	return &e, nil
}

func (r *PgRepository) GetException(ctx context.Context, doctorID uuid.UUID, date calendar.Date) (*Exception, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+exceptionColumns+`
		FROM schedule_exceptions
		WHERE doctor_id = $1 AND date = $2
	`, doctorID, date.Time())
	return scanException(row)
}

func (r *PgRepository) ListExceptions(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]Exception, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exceptionColumns+`
		FROM schedule_exceptions
		WHERE doctor_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`, doctorID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	defer rows.Close()

	var result []Exception
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) UpsertException(ctx context.Context, e Exception) error {
	slots, err := json.Marshal(e.Slots)
	if err != nil {
		return fmt.Errorf("encode exception slots: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO schedule_exceptions (doctor_id, date, kind, reason, time_slots, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (doctor_id, date) DO UPDATE
		SET kind = EXCLUDED.kind,
		    reason = EXCLUDED.reason,
		    time_slots = EXCLUDED.time_slots,
		    updated_at = now()
	`, e.DoctorID, e.Date.Time(), string(e.Kind), e.Reason, string(slots))
	if err != nil {
		return fmt.Errorf("upsert exception: %w", err)
	}
	return nil
}

func (r *PgRepository) DeleteException(ctx context.Context, doctorID uuid.UUID, date calendar.Date) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM schedule_exceptions
		WHERE doctor_id = $1 AND date = $2
	`, doctorID, date.Time())
	if err != nil {
		return fmt.Errorf("delete exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExceptionNotFound
	}
	return nil
}
