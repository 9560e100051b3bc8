// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

// Package render prints query results as fixed-width text tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spmpl-pl/ztm/ztm/registry"
	"github.com/spmpl-pl/ztm/ztm/route"
	"github.com/spmpl-pl/ztm/ztm/source"
	"github.com/spmpl-pl/ztm/ztm/timetable"
)

// MapLink returns a Google Maps link pointing at the given coordinates.
func MapLink(lat, lon string) string {
	return "https://maps.google.com/maps?q=loc:" + lat + "," + lon
}

func formatCoordinate(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func GroupHeader(w io.Writer, g registry.StopGroup) {
	fmt.Fprintf(w, "==== Stop Group Name: %s. Stop Group ID: %s\n", g.Name, g.ID)
}

// Stops prints the physical stops of a stop group.
func Stops(w io.Writer, g registry.StopGroup, stops []registry.StopRecord) {
	GroupHeader(w, g)
	fmt.Fprintln(w, "  == Available Stop IDs:")
	fmt.Fprintln(w)

	const row = "  %-10s %-30s %-12s %-12s %-30s\n"
	fmt.Fprintf(w, row, "StopID", "Direction", "GPS Lat.", "GPS Long.", "Map Link")
	for _, s := range stops {
		fmt.Fprintf(w, row, s.StopID, s.Direction, s.GPSLat, s.GPSLon, MapLink(s.GPSLat, s.GPSLon))
	}
	fmt.Fprintln(w)
}

// Lines prints the lines calling at a single physical stop.
func Lines(w io.Writer, stopID, direction string, lines []string) {
	fmt.Fprintf(w, "  == Stop ID: %s. Direction: %s\n", stopID, direction)
	if len(lines) == 0 {
		fmt.Fprintln(w, "  No lines on this Stop.")
	} else {
		fmt.Fprintf(w, "  Lines: %s\n", strings.Join(lines, ", "))
	}
	fmt.Fprintln(w)
}

func ScheduleHeader(w io.Writer, line string, g registry.StopGroup) {
	fmt.Fprintf(w, "==== Schedule for line: %s. Stop Group Name: %s. Stop Group ID: %s\n", line, g.Name, g.ID)
	fmt.Fprintln(w)
}

// FullSchedule prints every departure with its direction and brigade.
func FullSchedule(w io.Writer, deps []timetable.Departure) error {
	const row = "%-10s %-35s %-10s\n"
	fmt.Fprintf(w, row, "Time", "Direction", "Brigade")
	for _, d := range deps {
		clock, err := d.Clock()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, row, clock, d.Direction, d.Brigade)
	}
	return nil
}

// HourlySchedule prints departure minutes grouped by hour, like a stop's timetable.
func HourlySchedule(w io.Writer, rows []timetable.HourRow) {
	for _, r := range rows {
		fmt.Fprintf(w, "%s:  %s\n", r.Label(), strings.Join(r.Minutes, " "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Hint: You can print a schedule with Directions and Brigades with -f parameter...")
}

func NoResults(w io.Writer) {
	fmt.Fprintln(w, "==== No results...")
	fmt.Fprintln(w)
}

// Route prints the itineraries of the assembled route variants.
func Route(w io.Writer, r *route.Route, includeAll bool) {
	fmt.Fprintf(w, "==== There are %d route variants for the line %s.\n", r.TotalVariants, r.Line)
	if includeAll {
		fmt.Fprintln(w, "==== Printing all variants...")
	} else {
		fmt.Fprintln(w, "==== Printing only primary routes and detours. Use -f parameter to print all variants.")
	}

	const row = "  %-5s %-30s %-10s %-20s %-15s %-15s\n"
	for _, v := range r.Variants {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "==== Route variant ID: %s. Number of Stops: %d\n", v.ID, len(v.Stops))
		fmt.Fprintln(w)
		fmt.Fprintf(w, row, "No", "Stop Name", "Stop ID", "Stop Type", "Distance", "Street")
		for _, s := range v.Stops {
			fmt.Fprintf(w, row, strconv.Itoa(s.Position), s.StopName, s.StopID, s.StopType, s.Distance, s.StreetName)
		}
	}
	fmt.Fprintln(w)
}

// Vehicles prints live vehicle positions.
func Vehicles(w io.Writer, vehicles []source.Vehicle) {
	const row = "%-22s %-8s %-10s %-12s %-12s %-12s %-30s\n"
	fmt.Fprintf(w, row, "Last update", "Line", "Brigade", "Vehicle ID", "GPS Lat.", "GPS Long.", "Map link")
	for _, v := range vehicles {
		lat, lon := formatCoordinate(v.Lat), formatCoordinate(v.Lon)

		updated := ""
		if !time.Time(v.Time).IsZero() {
			updated = v.Time.String()
		}

		fmt.Fprintf(w, row, updated, v.Line, v.Brigade, v.VehicleNumber, lat, lon, MapLink(lat, lon))
	}
}
