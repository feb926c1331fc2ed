package api

import (
	"net/http"
	"strconv"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

func listDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := false
		if raw := r.URL.Query().Get("active"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				handleError(w, r, apperrors.NewValidationError("active", "must be true or false"))
				return
			}
			activeOnly = v
		}

		list, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if list == nil {
			list = []doctor.Doctor{}
		}
		writeJSON(w, http.StatusOK, ListResponse[doctor.Doctor]{Items: list, Count: len(list)})
	}
}

func getDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		d, err := svc.Get(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func createDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctor.NewDoctor
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		d, err := svc.Create(r.Context(), actorFrom(r.Context()), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func setDoctorActiveHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req SetActiveRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.IsActive == nil {
			handleError(w, r, apperrors.Required("isActive"))
			return
		}

		d, err := svc.SetActive(r.Context(), actorFrom(r.Context()), id, *req.IsActive)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// slotsHandler lists the slots a doctor offers on one date and whether each
// is still free. An inactive doctor offers nothing.
func slotsHandler(doctors *doctor.Service, resolver *schedule.Resolver, alloc *booking.Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		date, err := queryDate(r, "date")
		if err != nil {
			handleError(w, r, err)
			return
		}
		if date.IsZero() {
			handleError(w, r, apperrors.Required("date"))
			return
		}

		d, err := doctors.Get(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := SlotsResponse{DoctorID: id.String(), Date: date, Slots: []SlotView{}}
		if !d.IsActive {
			writeJSON(w, http.StatusOK, resp)
			return
		}

		offered, err := resolver.ResolveSlots(r.Context(), id, date)
		if err != nil {
			handleError(w, r, err)
			return
		}
		var held map[calendar.TimeOfDay]bool
		if len(offered) > 0 {
			if held, err = alloc.Occupied(r.Context(), id, date); err != nil {
				handleError(w, r, err)
				return
			}
		}

		for _, t := range offered {
			resp.Slots = append(resp.Slots, SlotView{Time: t, Available: !held[t]})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
