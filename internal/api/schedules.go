package api

import (
	"net/http"

	"github.com/hackgods/doctor-booking/internal/schedule"
)

func getScheduleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		ws, err := svc.GetWeeklySchedule(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ws)
	}
}

// putScheduleHandler replaces the doctor's weekly template with the body's
// days. Days left out become unavailable.
func putScheduleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		var ws schedule.WeeklySchedule
		if err := decodeJSON(r, &ws); err != nil {
			handleError(w, r, err)
			return
		}
		ws.DoctorID = id

		if err := svc.SetWeeklySchedule(r.Context(), actorFrom(r.Context()), ws); err != nil {
			handleError(w, r, err)
			return
		}

		saved, err := svc.GetWeeklySchedule(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// listExceptionsHandler defaults from/to to the bookable window.
func listExceptionsHandler(svc *schedule.Service, resolver *schedule.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		from, err := queryDate(r, "from")
		if err != nil {
			handleError(w, r, err)
			return
		}
		to, err := queryDate(r, "to")
		if err != nil {
			handleError(w, r, err)
			return
		}
		first, last := resolver.Window()
		if from.IsZero() {
			from = first
		}
		if to.IsZero() {
			to = last
		}

		list, err := svc.GetExceptions(r.Context(), id, from, to)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if list == nil {
			list = []schedule.Exception{}
		}
		writeJSON(w, http.StatusOK, ListResponse[schedule.Exception]{Items: list, Count: len(list)})
	}
}

func putExceptionHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		date, err := pathDate(r, "date")
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req ExceptionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		exc := schedule.Exception{
			DoctorID: id,
			Date:     date,
			Kind:     schedule.ExceptionKind(req.Type),
			Reason:   req.Reason,
			Slots:    req.TimeSlots,
		}
		if err := svc.UpsertException(r.Context(), actorFrom(r.Context()), exc); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exc)
	}
}

func deleteExceptionHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		date, err := pathDate(r, "date")
		if err != nil {
			handleError(w, r, err)
			return
		}

		if err := svc.RemoveException(r.Context(), actorFrom(r.Context()), id, date); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
