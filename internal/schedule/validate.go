package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/calendar"
)

// Validate checks the template against the slot grid defined by step.
func (w WeeklySchedule) Validate(step time.Duration) error {
	for i, day := range w.Days {
		name := calendar.WeekdayName(time.Weekday(i))
		if !day.IsAvailable && len(day.Slots) > 0 {
			return apperrors.NewValidationError(name+".timeSlots", "must be empty when the day is unavailable")
		}
		if err := validateRanges(name+".timeSlots", day.Slots, step); err != nil {
			return err
		}
	}
	return nil
}

func (e Exception) Validate(step time.Duration) error {
	if e.Date.IsZero() {
		return apperrors.Required("date")
	}

	switch e.Kind {
	case ExceptionUnavailable:
		if len(e.Slots) > 0 {
			return apperrors.NewValidationError("timeSlots", "must be empty for an unavailable date")
		}
	case ExceptionCustom:
		return validateRanges("timeSlots", e.Slots, step)
	case "":
		return apperrors.Required("type")
	default:
		return apperrors.NewValidationError("type", fmt.Sprintf("unknown exception type %q", e.Kind))
	}
	return nil
}

// validateRanges rejects empty, inverted, off-grid and overlapping ranges.
func validateRanges(field string, ranges []calendar.TimeRange, step time.Duration) error {
	for i, r := range ranges {
		if !r.Valid() {
			return apperrors.NewValidationError(fmt.Sprintf("%s[%d]", field, i), "start must be before end")
		}
		if !r.AlignedTo(step) {
			return apperrors.NewValidationError(fmt.Sprintf("%s[%d]", field, i),
				fmt.Sprintf("start and end must fall on the %d-minute grid", int(step/time.Minute)))
		}
	}

	sorted := append([]calendar.TimeRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return apperrors.NewValidationError(field, fmt.Sprintf("%s overlaps %s", sorted[i-1], sorted[i]))
		}
	}
	return nil
}
