// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package time2

import (
	"fmt"
	"strings"
	"time"
)

var WarsawTimezone *time.Location

func init() {
	var err error
	WarsawTimezone, err = time.LoadLocation("Europe/Warsaw")
	if err != nil {
		panic(fmt.Errorf("failed to load Europe/Warsaw timezone: %w", err))
	}
}

const localTimeLayout = "2006-01-02 15:04:05"

// LocalTime is a timestamp reported by the API as a naive "YYYY-MM-DD HH:MM:SS"
// string in Warsaw local time.
type LocalTime time.Time

func (t LocalTime) String() string {
	return time.Time(t).Format(localTimeLayout)
}

func (t LocalTime) MarshalText() ([]byte, error) {
	return []byte(time.Time(t).Format(time.RFC3339)), nil
}

func (t *LocalTime) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*t = LocalTime{}
		return nil
	}

	parsed, err := time.ParseInLocation(localTimeLayout, s, WarsawTimezone)
	if err != nil {
		return err
	}
	*t = LocalTime(parsed)
	return nil
}
