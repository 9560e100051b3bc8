// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package timetable

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spmpl-pl/ztm/ztm/source"
)

// ServiceHours is the number of hours in a service day. Departures after midnight
// belonging to the previous day have hours 24 and above.
const ServiceHours = 30

const (
	keyLine      = "linia"
	keyBrigade   = "brygada"
	keyDirection = "kierunek"
	keyRoute     = "trasa"
	keyTime      = "czas"
)

// InvalidTimeError is returned for departure times not in the "HH:MM:SS" format,
// or with hours outside of the service day.
type InvalidTimeError struct {
	Time string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid departure time: %q", e.Time)
}

// Lines returns the line numbers served at a stop, in source order.
func Lines(records []source.AttributeRecord) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		if line, ok := r.Get(keyLine); ok {
			lines = append(lines, line)
		} else {
			slog.Debug("Skipping lines record without a line", "record", r)
		}
	}
	return lines
}

// Departure is a single scheduled departure from a stop.
type Departure struct {
	// Time is "HH:MM:SS", where HH may be 24 or more for after-midnight trips.
	Time      string
	Direction string
	Brigade   string
	Route     string
}

func (d Departure) hourMinute() (hour int, minute string, err error) {
	if len(d.Time) < 5 || d.Time[2] != ':' {
		return 0, "", &InvalidTimeError{d.Time}
	}

	hour, err = strconv.Atoi(d.Time[0:2])
	if err != nil || hour < 0 || hour >= ServiceHours {
		return 0, "", &InvalidTimeError{d.Time}
	}
	return hour, d.Time[3:5], nil
}

// Clock returns the "HH:MM" wall-clock time of the departure.
func (d Departure) Clock() (string, error) {
	hour, minute, err := d.hourMinute()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%s", hour%24, minute), nil
}

// Departures folds schedule records, preserving source order.
func Departures(records []source.AttributeRecord) []Departure {
	deps := make([]Departure, 0, len(records))
	for _, r := range records {
		var d Departure
		for _, a := range r.Values {
			switch a.Key {
			case keyTime:
				d.Time = a.Value
			case keyDirection:
				d.Direction = a.Value
			case keyBrigade:
				d.Brigade = a.Value
			case keyRoute:
				d.Route = a.Value
			}
		}
		deps = append(deps, d)
	}
	return deps
}

// HourRow lists the departure minutes within a single hour of the service day.
type HourRow struct {
	Hour    int
	Minutes []string
}

// Label returns the hour as displayed on a stop's timetable.
func (h HourRow) Label() string {
	return fmt.Sprintf("%02d", h.Hour%24)
}

// Hourly groups departures by their service hour. Hours without departures are omitted.
func Hourly(deps []Departure) ([]HourRow, error) {
	var table [ServiceHours][]string
	for _, d := range deps {
		hour, minute, err := d.hourMinute()
		if err != nil {
			return nil, err
		}
		table[hour] = append(table[hour], minute)
	}

	var rows []HourRow
	for hour, minutes := range table {
		if len(minutes) > 0 {
			rows = append(rows, HourRow{hour, minutes})
		}
	}
	return rows, nil
}
