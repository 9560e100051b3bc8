// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package time2

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want Date
	}{
		{"midday", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), Date{2024, 3, 15}},
		{"just before midnight", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), Date{2024, 12, 31}},
		{"leap day", time.Date(2024, 2, 29, 0, 0, 0, 0, WarsawTimezone), Date{2024, 2, 29}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateOf(tc.in); got != tc.want {
				t.Errorf("DateOf(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	// 23:30 UTC on 31 Dec is already 1 Jan in Warsaw
	utc := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	if got := DateOf(utc.In(WarsawTimezone)); got != (Date{2025, 1, 1}) {
		t.Errorf("DateOf in Warsaw = %v, expected 2025-01-01", got)
	}
}

func TestDateString(t *testing.T) {
	tests := []struct {
		in   Date
		want string
	}{
		{Date{2024, 5, 1}, "2024-05-01"},
		{Date{987, 12, 31}, "0987-12-31"},
	}

	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestLocalTimeUnmarshal(t *testing.T) {
	var v struct {
		Time LocalTime `json:"Time"`
	}
	if err := json.Unmarshal([]byte(`{"Time":"2024-05-01 14:03:22"}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := time.Time(v.Time)
	want := time.Date(2024, 5, 1, 14, 3, 22, 0, WarsawTimezone)
	if !got.Equal(want) {
		t.Errorf("LocalTime = %v, expected %v", got, want)
	}
	if s := v.Time.String(); s != "2024-05-01 14:03:22" {
		t.Errorf("String() = %q", s)
	}
}
