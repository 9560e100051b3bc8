// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package registry

import (
	"github.com/spmpl-pl/ztm/ztm/source"
)

// Key is an attribute key of a stop registry record.
type Key string

const (
	KeyStopGroupID   Key = "zespol"
	KeyStopID        Key = "slupek"
	KeyDirection     Key = "kierunek"
	KeyGPSLat        Key = "szer_geo"
	KeyGPSLon        Key = "dlug_geo"
	KeyStopGroupName Key = "nazwa_zespolu"
	KeyStreetID      Key = "id_ulicy"
)

// StopRecord is a physical stop, folded from a stop registry record.
// Fields whose key was absent from the record are empty, and Has reports false for them.
type StopRecord struct {
	StopID        string
	Direction     string
	GPSLat        string
	GPSLon        string
	StopGroupName string
	StreetID      string

	present uint8
}

var keyBits = map[Key]uint8{
	KeyStopID:        1 << 0,
	KeyDirection:     1 << 1,
	KeyGPSLat:        1 << 2,
	KeyGPSLon:        1 << 3,
	KeyStopGroupName: 1 << 4,
	KeyStreetID:      1 << 5,
}

// Has returns true if the record carried the given key.
func (s StopRecord) Has(k Key) bool {
	bit, ok := keyBits[k]
	return ok && s.present&bit != 0
}

// Filter selects records containing the exact key-value pair.
type Filter struct {
	Key   Key
	Value string
}

func (f Filter) Matches(r source.AttributeRecord) bool {
	return r.Has(string(f.Key), f.Value)
}

// Fold builds a StopRecord out of the recognized keys of a record.
// Unknown keys are ignored; on duplicates the last pair wins.
func Fold(r source.AttributeRecord) (s StopRecord) {
	for _, a := range r.Values {
		k := Key(a.Key)
		switch k {
		case KeyStopID:
			s.StopID = a.Value
		case KeyDirection:
			s.Direction = a.Value
		case KeyGPSLat:
			s.GPSLat = a.Value
		case KeyGPSLon:
			s.GPSLon = a.Value
		case KeyStopGroupName:
			s.StopGroupName = a.Value
		case KeyStreetID:
			s.StreetID = a.Value
		default:
			continue
		}
		s.present |= keyBits[k]
	}
	return
}

// Normalize folds every record matching the filter, preserving source order.
func Normalize(records []source.AttributeRecord, f Filter) []StopRecord {
	var stops []StopRecord
	for _, r := range records {
		if f.Matches(r) {
			stops = append(stops, Fold(r))
		}
	}
	return stops
}
