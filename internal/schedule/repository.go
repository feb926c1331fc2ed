package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/calendar"
)

var (
	ErrScheduleNotFound  = apperrors.Wrap(apperrors.ErrNotFound, "weekly schedule not found")
	ErrExceptionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "schedule exception not found")
)

type Repository interface {
	GetWeekly(ctx context.Context, doctorID uuid.UUID) (*WeeklySchedule, error)
	SaveWeekly(ctx context.Context, w WeeklySchedule) error

	GetException(ctx context.Context, doctorID uuid.UUID, date calendar.Date) (*Exception, error)
	// ListExceptions returns exceptions with from <= date <= to, ordered by date.
	ListExceptions(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]Exception, error)
	// UpsertException replaces any exception already stored for the same date.
	UpsertException(ctx context.Context, e Exception) error
	DeleteException(ctx context.Context, doctorID uuid.UUID, date calendar.Date) error
}
