// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package time2

import (
	"fmt"
	"time"
)

// Date is a calendar day without any time-of-day or timezone attached.
type Date struct {
	Y    uint16
	M, D uint8
}

// DateOf returns the calendar day of t, as observed in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{uint16(y), uint8(m), uint8(d)}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Y, d.M, d.D)
}
