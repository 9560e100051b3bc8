// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spmpl-pl/ztm/ztm/util/time2"
)

// Attribute is a single key-value pair of a denormalized API record.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AttributeRecord is the shape of records returned by the dbstore and dbtimetable
// actions: an unordered bag of key-value pairs.
type AttributeRecord struct {
	Values []Attribute `json:"values"`
}

// Get returns the value of the first pair with the given key.
func (r AttributeRecord) Get(key string) (string, bool) {
	for _, a := range r.Values {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Has returns true if the record contains the exact key-value pair.
func (r AttributeRecord) Has(key, value string) bool {
	for _, a := range r.Values {
		if a.Key == key && a.Value == value {
			return true
		}
	}
	return false
}

// Text is a scalar which the API sometimes sends as a JSON string
// and sometimes as a bare number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*t = Text(data)
		return nil
	default:
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
}

// StopRegistry is the content of the stop registry dataset.
type StopRegistry struct {
	Result []AttributeRecord `json:"result"`
}

// RouteStop is a single position of a route variant.
type RouteStop struct {
	StopGroupID Text `json:"nr_zespolu"`
	StopID      Text `json:"nr_przystanku"`
	Type        Text `json:"typ"`
	Distance    Text `json:"odleglosc"`
	StreetID    Text `json:"ulica_id"`
}

// Variant is a single route variant. Stops are keyed by their 1-based position.
type Variant struct {
	ID    string
	Stops map[string]RouteStop
}

// Variants keeps route variants in the order they appear in the source document.
type Variants []Variant

func (v *Variants) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	*v = (*v)[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := tok.(string)

		var stops map[string]RouteStop
		if err := dec.Decode(&stops); err != nil {
			return fmt.Errorf("variant %q: %w", id, err)
		}
		*v = append(*v, Variant{ID: id, Stops: stops})
	}

	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// RouteRegistry is the content of the route registry dataset, keyed by line.
type RouteRegistry struct {
	Result map[string]Variants `json:"result"`
}

// Dictionary is the content of the term dictionary dataset.
type Dictionary struct {
	Result struct {
		StopTypes map[string]string `json:"typy_przystankow"`
		Streets   map[string]string `json:"ulice"`
	} `json:"result"`
}

// VehicleKind selects buses or trams in the live positions endpoint.
type VehicleKind string

const (
	Bus  VehicleKind = "1"
	Tram VehicleKind = "2"
)

func (k VehicleKind) String() string {
	switch k {
	case Bus:
		return "bus"
	case Tram:
		return "tram"
	default:
		return string(k)
	}
}

// Vehicle is a single live position report.
type Vehicle struct {
	Line          string          `json:"Lines"`
	Lat           float64         `json:"Lat"`
	Lon           float64         `json:"Lon"`
	VehicleNumber string          `json:"VehicleNumber"`
	Brigade       string          `json:"Brigade"`
	Time          time2.LocalTime `json:"Time"`
}
