package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/apperrors"
)

var (
	ErrDoctorNotFound = apperrors.Wrap(apperrors.ErrNotFound, "doctor not found")
	ErrDoctorInactive = apperrors.Wrap(apperrors.ErrNotFound, "doctor is not accepting bookings")
)

type Repository interface {
	Create(ctx context.Context, d Doctor) (*Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	List(ctx context.Context, activeOnly bool) ([]Doctor, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Doctor, error)
	CountActive(ctx context.Context) (int, error)
}
