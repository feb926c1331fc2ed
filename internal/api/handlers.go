package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/calendar"
)

var errPatientOnly = apperrors.Wrap(apperrors.ErrForbidden, "only patients may book appointments")

func createBookingHandler(alloc *booking.Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r.Context())
		if !actor.Is(auth.RolePatient) {
			handleError(w, r, errPatientOnly)
			return
		}

		var req CreateBookingRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		draft, err := req.draft(actor.ID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		b, err := alloc.Reserve(r.Context(), draft)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, bookingResponse(actor, b))
	}
}

func (req CreateBookingRequest) draft(patientID uuid.UUID) (booking.Draft, error) {
	d := booking.Draft{
		PatientID:     patientID,
		PatientName:   req.PatientName,
		PatientEmail:  req.PatientEmail,
		PatientPhone:  req.PatientPhone,
		PatientGender: req.PatientGender,
		PatientAge:    req.PatientAge,
		HealthIssue:   req.HealthIssue,
		Notes:         req.Notes,
	}

	if s := strings.TrimSpace(req.DoctorID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return d, apperrors.NewValidationError("doctorId", "must be a valid UUID")
		}
		d.DoctorID = id
	}
	if s := strings.TrimSpace(req.Date); s != "" {
		date, err := calendar.ParseDate(s)
		if err != nil {
			return d, apperrors.NewValidationError("date", err.Error())
		}
		d.Date = date
	}
	if s := strings.TrimSpace(req.Time); s != "" {
		at, err := calendar.ParseTimeOfDay(s)
		if err != nil {
			return d, apperrors.NewValidationError("time", err.Error())
		}
		d.Time = &at
	}
	return d, nil
}

func listBookingsHandler(q *booking.Queries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		actor := actorFrom(r.Context())
		list, err := q.List(r.Context(), actor, f)
		if err != nil {
			handleError(w, r, err)
			return
		}

		items := make([]BookingResponse, 0, len(list))
		for i := range list {
			items = append(items, bookingResponse(actor, &list[i]))
		}
		writeJSON(w, http.StatusOK, ListResponse[BookingResponse]{Items: items, Count: len(items)})
	}
}

func getBookingHandler(q *booking.Queries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		actor := actorFrom(r.Context())
		b, err := q.Get(r.Context(), actor, id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bookingResponse(actor, b))
	}
}

func transitionBookingHandler(lc *booking.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req TransitionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Status) == "" {
			handleError(w, r, apperrors.Required("status"))
			return
		}
		to, err := booking.ParseStatus(req.Status)
		if err != nil {
			handleError(w, r, apperrors.NewValidationError("status", err.Error()))
			return
		}

		actor := actorFrom(r.Context())
		b, err := lc.Transition(r.Context(), id, actor, to, req.Notes)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bookingResponse(actor, b))
	}
}

func deleteBookingHandler(lc *booking.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		if err := lc.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func bookingResponse(actor auth.Actor, b *booking.Booking) BookingResponse {
	allowed := booking.AllowedTransitions(actor, *b)
	if allowed == nil {
		allowed = []booking.Status{}
	}
	return BookingResponse{Booking: *b, AllowedTransitions: allowed}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

func pathDate(r *http.Request, name string) (calendar.Date, error) {
	d, err := calendar.ParseDate(chi.URLParam(r, name))
	if err != nil {
		return calendar.Date{}, apperrors.NewValidationError(name, err.Error())
	}
	return d, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter; absent is the zero Date.
func queryDate(r *http.Request, name string) (calendar.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return calendar.Date{}, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, apperrors.NewValidationError(name, err.Error())
	}
	return d, nil
}

func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// parseFilter reads patient_id, doctor_id, status (comma separated), from and to.
func parseFilter(r *http.Request) (booking.Filter, error) {
	var (
		f   booking.Filter
		err error
	)
	if f.PatientID, err = queryUUID(r, "patient_id"); err != nil {
		return f, err
	}
	if f.DoctorID, err = queryUUID(r, "doctor_id"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(r, "to"); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, apperrors.NewValidationError("to", "must not be before from")
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s, err := booking.ParseStatus(strings.TrimSpace(part))
			if err != nil {
				return f, apperrors.NewValidationError("status", err.Error())
			}
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f, nil
}
