// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/spmpl-pl/ztm/ztm/source"
)

type fakeLookup struct {
	records map[string][]source.AttributeRecord
	calls   int
}

func (f *fakeLookup) LookupStopGroups(_ context.Context, name string) ([]source.AttributeRecord, error) {
	f.calls++
	return f.records[name], nil
}

type fakeStops struct {
	registry *source.StopRegistry
	calls    int
}

func (f *fakeStops) Stops(context.Context) (*source.StopRegistry, error) {
	f.calls++
	return f.registry, nil
}

func newTestResolver() (*Resolver, *fakeLookup, *fakeStops) {
	lookup := &fakeLookup{records: map[string][]source.AttributeRecord{
		"Okopowa": {
			record("zespol", "6014", "nazwa_zespolu", "Okopowa"),
			record("zespol", "6015", "nazwa_zespolu", "Cm.Wojskowy-Okopowa"),
		},
	}}
	stops := &fakeStops{registry: &source.StopRegistry{Result: []source.AttributeRecord{
		record("zespol", "5205", "slupek", "01", "kierunek", "Żoliborz",
			"szer_geo", "52.1", "dlug_geo", "20.9", "nazwa_zespolu", "Metro Młociny", "id_ulicy", "123"),
		record("zespol", "7006", "slupek", "01", "kierunek", "Wola", "nazwa_zespolu", "Jana Kazimierza"),
		record("zespol", "7006", "slupek", "02", "kierunek", "Ochota", "nazwa_zespolu", "Jana Kazimierza"),
	}}}
	return &Resolver{Lookup: lookup, Stops: stops}, lookup, stops
}

func TestResolveGroupToStops(t *testing.T) {
	r, _, _ := newTestResolver()

	stops, err := r.ResolveGroupToStops(context.Background(), "5205")
	if err != nil {
		t.Fatalf("ResolveGroupToStops: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("got %d stops, expected 1", len(stops))
	}

	s := stops[0]
	if s.StopID != "01" || s.Direction != "Żoliborz" || s.GPSLat != "52.1" || s.GPSLon != "20.9" {
		t.Errorf("stop = %+v", s)
	}
}

func TestResolveIDToName(t *testing.T) {
	r, _, _ := newTestResolver()
	ctx := context.Background()

	first, err := r.ResolveIDToName(ctx, "7006")
	if err != nil {
		t.Fatalf("ResolveIDToName: %v", err)
	}
	second, err := r.ResolveIDToName(ctx, "7006")
	if err != nil {
		t.Fatalf("ResolveIDToName: %v", err)
	}

	if first != "Jana Kazimierza" || first != second {
		t.Errorf("ResolveIDToName = %q then %q", first, second)
	}
}

func TestResolveIDToNameNotFound(t *testing.T) {
	r, _, _ := newTestResolver()

	_, err := r.ResolveIDToName(context.Background(), "0000")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if notFound.Key != "0000" {
		t.Errorf("Key = %q", notFound.Key)
	}
}

func TestResolveByName(t *testing.T) {
	r, lookup, stops := newTestResolver()

	groups, err := r.Resolve(context.Background(), Query{Name: "Okopowa"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []StopGroup{{"6014", "Okopowa"}, {"6015", "Cm.Wojskowy-Okopowa"}}
	if len(groups) != len(want) || groups[0] != want[0] || groups[1] != want[1] {
		t.Errorf("Resolve = %v, expected %v", groups, want)
	}
	if lookup.calls != 1 {
		t.Errorf("lookup called %d times, expected 1", lookup.calls)
	}
	if stops.calls != 0 {
		t.Errorf("stop registry loaded %d times, expected 0", stops.calls)
	}
}

func TestResolveByNameNoMatches(t *testing.T) {
	r, _, _ := newTestResolver()

	_, err := r.Resolve(context.Background(), Query{Name: "Nowhere"})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}

func TestResolveByID(t *testing.T) {
	r, lookup, _ := newTestResolver()

	groups, err := r.Resolve(context.Background(), Query{ID: "7006"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(groups) != 1 || groups[0] != (StopGroup{"7006", "Jana Kazimierza"}) {
		t.Errorf("Resolve = %v", groups)
	}
	if lookup.calls != 0 {
		t.Errorf("name lookup called %d times, expected 0", lookup.calls)
	}
}

func TestResolveUsageErrors(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  error
	}{
		{"both", Query{Name: "Okopowa", ID: "6014"}, ErrNameAndID},
		{"neither", Query{}, ErrNoNameOrID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, lookup, stops := newTestResolver()

			_, err := r.Resolve(context.Background(), tc.query)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Resolve = %v, expected %v", err, tc.want)
			}
			var usage UsageError
			if !errors.As(err, &usage) {
				t.Errorf("expected a UsageError, got %T", err)
			}
			if lookup.calls != 0 || stops.calls != 0 {
				t.Errorf("collaborators used: lookup=%d stops=%d", lookup.calls, stops.calls)
			}
		})
	}
}
