package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type DaySchedule struct {
	IsAvailable bool                 `json:"isAvailable"`
	Slots       []calendar.TimeRange `json:"timeSlots"`
}

// WeeklySchedule is a doctor's recurring template, indexed by time.Weekday.
type WeeklySchedule struct {
	DoctorID  uuid.UUID
	Days      [7]DaySchedule
	UpdatedAt time.Time
}

func (w WeeklySchedule) Day(d time.Weekday) DaySchedule {
	return w.Days[d]
}

// DayMap keys the template by lowercase weekday name.
func (w WeeklySchedule) DayMap() map[string]DaySchedule {
	out := make(map[string]DaySchedule, 7)
	for i, day := range w.Days {
		if day.Slots == nil {
			day.Slots = []calendar.TimeRange{}
		}
		out[calendar.WeekdayName(time.Weekday(i))] = day
	}
	return out
}

// SetDayMap replaces Days from a name-keyed map. Missing days are unavailable.
func (w *WeeklySchedule) SetDayMap(m map[string]DaySchedule) error {
	var days [7]DaySchedule
	for name, day := range m {
		wd, err := calendar.ParseWeekday(name)
		if err != nil {
			return err
		}
		if len(day.Slots) == 0 {
			day.Slots = nil
		}
		days[wd] = day
	}
	w.Days = days
	return nil
}

type weeklyJSON struct {
	DoctorID  uuid.UUID              `json:"doctorId"`
	Days      map[string]DaySchedule `json:"days"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	doc := weeklyJSON{DoctorID: w.DoctorID, Days: w.DayMap()}
	if !w.UpdatedAt.IsZero() {
		doc.UpdatedAt = &w.UpdatedAt
	}
	return json.Marshal(doc)
}

func (w *WeeklySchedule) UnmarshalJSON(b []byte) error {
	var doc weeklyJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	w.DoctorID = doc.DoctorID
	if doc.UpdatedAt != nil {
		w.UpdatedAt = *doc.UpdatedAt
	}
	return w.SetDayMap(doc.Days)
}

// Unavailable is what a doctor without a saved schedule has.
func Unavailable(doctorID uuid.UUID) WeeklySchedule {
	return WeeklySchedule{DoctorID: doctorID}
}

// ClinicHours is the clinic's standard template: Monday to Saturday,
// 09:00-12:00 and 14:00-17:00.
func ClinicHours(doctorID uuid.UUID) WeeklySchedule {
	w := WeeklySchedule{DoctorID: doctorID}
	for d := time.Monday; d <= time.Saturday; d++ {
		w.Days[d] = DaySchedule{
			IsAvailable: true,
			Slots: []calendar.TimeRange{
				{Start: calendar.NewTimeOfDay(9, 0), End: calendar.NewTimeOfDay(12, 0)},
				{Start: calendar.NewTimeOfDay(14, 0), End: calendar.NewTimeOfDay(17, 0)},
			},
		}
	}
	return w
}

type ExceptionKind string

const (
	ExceptionUnavailable ExceptionKind = "unavailable"
	ExceptionCustom      ExceptionKind = "custom"
)

func ParseExceptionKind(s string) (ExceptionKind, error) {
	switch k := ExceptionKind(s); k {
	case ExceptionUnavailable, ExceptionCustom:
		return k, nil
	}
	return "", fmt.Errorf("unknown exception type %q", s)
}

// Exception overrides the weekly template for one date.
type Exception struct {
	DoctorID uuid.UUID            `json:"doctorId"`
	Date     calendar.Date        `json:"date"`
	Kind     ExceptionKind        `json:"type"`
	Reason   string               `json:"reason,omitempty"`
	Slots    []calendar.TimeRange `json:"timeSlots,omitempty"`
}
