package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func overviewHandler(q *booking.Queries, doctors booking.ActiveDoctorCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov, err := q.Overview(r.Context(), actorFrom(r.Context()), doctors)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ov)
	}
}

// exportBookingsHandler streams the bookings matching the query filters as
// an XLSX workbook.
func exportBookingsHandler(q *booking.Queries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r.Context())
		if !actor.Is(auth.RoleAdmin) {
			handleError(w, r, booking.ErrAdminOnly)
			return
		}

		f, err := parseFilter(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		list, err := q.List(r.Context(), actor, f)
		if err != nil {
			handleError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteBookings(&buf, list); err != nil {
			handleError(w, r, fmt.Errorf("render export: %w", err))
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
