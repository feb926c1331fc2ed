package calendar

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is minutes after midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// EndOfDay is midnight at the close of the day, "24:00". It is only valid
// as the end of a range.
const EndOfDay = TimeOfDay(minutesPerDay)

// ParseTimeOfDay accepts "HH:MM" from 00:00 to 23:59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return NewTimeOfDay(hour, minute), nil
}

// ParseRangeEnd is ParseTimeOfDay that also accepts "24:00".
func ParseRangeEnd(s string) (TimeOfDay, error) {
	if strings.TrimSpace(s) == "24:00" {
		return EndOfDay, nil
	}
	return ParseTimeOfDay(s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// On places t on day d in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (r TimeRange) Valid() bool {
	return r.Start >= 0 && r.End <= minutesPerDay && r.Start < r.End
}

// AlignedTo reports whether both bounds are whole multiples of step past
// midnight. A non-positive step aligns everything.
func (r TimeRange) AlignedTo(step time.Duration) bool {
	stepMin := TimeOfDay(step / time.Minute)
	if stepMin <= 0 {
		return true
	}
	return r.Start%stepMin == 0 && r.End%stepMin == 0
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r *TimeRange) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	start, err := ParseTimeOfDay(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := ParseRangeEnd(raw.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	*r = TimeRange{Start: start, End: end}
	return nil
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Expand subdivides ranges into slot starts spaced step apart. A slot is
// emitted only if it ends within its range. Output is sorted and unique.
func Expand(ranges []TimeRange, step time.Duration) []TimeOfDay {
	stepMin := TimeOfDay(step / time.Minute)
	if stepMin <= 0 {
		return nil
	}

	seen := make(map[TimeOfDay]struct{})
	var out []TimeOfDay
	for _, r := range ranges {
		if !r.Valid() {
			continue
		}
		for cursor := r.Start; cursor+stepMin <= r.End; cursor += stepMin {
			if _, ok := seen[cursor]; ok {
				continue
			}
			seen[cursor] = struct{}{}
			out = append(out, cursor)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
