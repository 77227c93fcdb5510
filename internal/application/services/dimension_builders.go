package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// Dimension builders. Each is a pure function from raw appointments to a
// dimension table plus the per-appointment key slice (aligned by index), so
// the fact formatter never has to re-derive a key and referential integrity
// holds by construction.

// Accepted layouts for the raw appointment_date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02.01.2006",
}

// Time grid bounds: 08:00 to 18:00 inclusive at 15-minute steps (41 rows).
const (
	timeGridStartHour = 8
	timeGridEndHour   = 18
	timeGridStepMin   = 15
)

// BuildDateDimension parses the appointment dates (invalid values are
// treated as null for range computation), generates one row per calendar
// day in [min, max] inclusive and returns the per-appointment date keys.
// An appointment whose date cannot be parsed has no resolvable key and is
// rejected.
func BuildDateDimension(appointments []entities.AppointmentRecord) ([]entities.DateDimRow, []int64, error) {
	parsed := make([]*time.Time, len(appointments))
	var minDate, maxDate time.Time
	haveRange := false

	for i, a := range appointments {
		d, ok := parseDate(a.AppointmentDate)
		if !ok {
			continue
		}
		parsed[i] = &d
		if !haveRange || d.Before(minDate) {
			minDate = d
		}
		if !haveRange || d.After(maxDate) {
			maxDate = d
		}
		haveRange = true
	}

	if !haveRange {
		return nil, nil, apperrors.NewValidationError("no parseable appointment dates; cannot build date dimension")
	}

	var dim []entities.DateDimRow
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		dim = append(dim, entities.DateDimRow{
			DateID:   dateKey(d),
			FullDate: d.Format("2006-01-02"),
			Day:      int64(d.Day()),
			Month:    int64(d.Month()),
			Year:     int64(d.Year()),
			Weekday:  d.Weekday().String(),
			Quarter:  int64((int(d.Month())-1)/3 + 1),
		})
	}

	keys := make([]int64, len(appointments))
	for i, d := range parsed {
		if d == nil {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d has unparseable date %q", appointments[i].AppointmentID, appointments[i].AppointmentDate))
		}
		keys[i] = dateKey(*d)
	}

	return dim, keys, nil
}

// BuildTimeDimension generates the fixed 08:00-18:00 grid regardless of the
// observed appointment times and returns the per-appointment time keys. A
// key outside the generated grid would leave a fact row with no matching
// dimension row, so it is rejected rather than clamped.
func BuildTimeDimension(appointments []entities.AppointmentRecord) ([]entities.TimeDimRow, []int64, error) {
	var dim []entities.TimeDimRow
	grid := make(map[int64]bool)

	for hour := timeGridStartHour; hour <= timeGridEndHour; hour++ {
		for minute := 0; minute < 60; minute += timeGridStepMin {
			if hour == timeGridEndHour && minute > 0 {
				break
			}
			id := int64(hour*100 + minute)
			amPm := "AM"
			if hour >= 12 {
				amPm = "PM"
			}
			dim = append(dim, entities.TimeDimRow{
				TimeID:   id,
				FullTime: fmt.Sprintf("%02d:%02d:00", hour, minute),
				Hour:     int64(hour),
				Minute:   int64(minute),
				AmPm:     amPm,
			})
			grid[id] = true
		}
	}

	keys := make([]int64, len(appointments))
	for i, a := range appointments {
		key, err := timeKey(a.AppointmentTime)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d: %v", a.AppointmentID, err))
		}
		if !grid[key] {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d time %q (key %d) is outside the 08:00-18:00 dimension grid",
				a.AppointmentID, a.AppointmentTime, key))
		}
		keys[i] = key
	}

	return dim, keys, nil
}

// BuildStatusDimension enumerates distinct non-null statuses in first-seen
// order with surrogate keys starting at 1, and returns the per-appointment
// status keys. An appointment without a status has no resolvable key and
// is rejected.
func BuildStatusDimension(appointments []entities.AppointmentRecord) ([]entities.StatusDimRow, []int64, error) {
	var dim []entities.StatusDimRow
	lookup := make(map[string]int64)

	for _, a := range appointments {
		status := strings.TrimSpace(a.Status)
		if status == "" {
			continue
		}
		if _, seen := lookup[status]; seen {
			continue
		}
		id := int64(len(dim) + 1)
		lookup[status] = id
		dim = append(dim, entities.StatusDimRow{StatusID: id, StatusTitle: status})
	}

	keys := make([]int64, len(appointments))
	for i, a := range appointments {
		status := strings.TrimSpace(a.Status)
		id, ok := lookup[status]
		if !ok {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d has no status; cannot resolve status dimension key", a.AppointmentID))
		}
		keys[i] = id
	}

	return dim, keys, nil
}

// parseDate returns the calendar day of value, truncated to midnight so
// that range iteration and key computation never see a time-of-day carried
// in by a datetime layout.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// dateKey formats a date as YYYYMMDD, the same rule used for dim_date ids.
func dateKey(d time.Time) int64 {
	return int64(d.Year()*10000 + int(d.Month())*100 + d.Day())
}

// timeKey truncates a raw time string to its first four digits (HHMM) and
// parses them as an integer, matching the dim_time id rule.
func timeKey(value string) (int64, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(value), ":", "")
	if len(digits) < 4 {
		return 0, fmt.Errorf("time value %q is too short for an HHMM key", value)
	}
	key, err := strconv.ParseInt(digits[:4], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("time value %q is not numeric: %v", value, err)
	}
	return key, nil
}
