// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package route

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bluele/gcache"

	"github.com/spmpl-pl/ztm/ztm/registry"
	"github.com/spmpl-pl/ztm/ztm/source"
)

// Kind classifies a route variant by the prefix of its ID.
type Kind uint8

const (
	Alternate Kind = iota
	Primary
	Detour
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Detour:
		return "detour"
	default:
		return "alternate"
	}
}

func KindOf(variantID string) Kind {
	switch {
	case strings.HasPrefix(variantID, "TP"):
		return Primary
	case strings.HasPrefix(variantID, "TO"):
		return Detour
	default:
		return Alternate
	}
}

// DictionaryError is returned when a route references a code missing from the dictionary,
// which means the cached dictionary is malformed or doesn't match the route registry.
type DictionaryError struct {
	Table, Code string
}

func (e *DictionaryError) Error() string {
	return fmt.Sprintf("dictionary: no %s with code %q", e.Table, e.Code)
}

// MalformedVariantError is returned when a variant's positions are not numbered 1..N.
type MalformedVariantError struct {
	VariantID string
	Missing   int
}

func (e *MalformedVariantError) Error() string {
	return fmt.Sprintf("route variant %s: position %d is missing", e.VariantID, e.Missing)
}

// Row is a single stop of an itinerary.
type Row struct {
	Position    int
	StopName    string
	StopGroupID string
	StopID      string
	StopType    string
	Distance    string
	StreetName  string
}

type Variant struct {
	ID    string
	Kind  Kind
	Stops []Row
}

// Route is the result of assembling a line.
type Route struct {
	Line string

	// TotalVariants counts every variant of the line, including those filtered out.
	TotalVariants int
	Variants      []Variant
}

type RoutesLoader interface {
	Routes(ctx context.Context) (*source.RouteRegistry, error)
}

type DictionaryLoader interface {
	Dictionary(ctx context.Context) (*source.Dictionary, error)
}

type NameResolver interface {
	ResolveIDToName(ctx context.Context, stopGroupID string) (string, error)
}

// Assembler joins route variants with stop names and dictionary labels.
type Assembler struct {
	Routes     RoutesLoader
	Dictionary DictionaryLoader
	Names      NameResolver

	// NameCacheSize limits how many resolved stop group names are remembered
	// during a single Assemble call. Zero means 1024.
	NameCacheSize int
}

// Assemble builds itineraries of the variants of a line. Unless includeAll is set,
// only primary and detour variants are included. Variants and their stops keep the
// order of the route registry.
//
// An unknown line fails before the dictionary or stop registry are touched.
func (a *Assembler) Assemble(ctx context.Context, line string, includeAll bool) (*Route, error) {
	routes, err := a.Routes.Routes(ctx)
	if err != nil {
		return nil, err
	}

	variants, ok := routes.Result[line]
	if !ok {
		return nil, &registry.NotFoundError{What: "line", Key: line}
	}

	r := &Route{Line: line, TotalVariants: len(variants)}

	var selected []source.Variant
	for _, v := range variants {
		if includeAll || KindOf(v.ID) != Alternate {
			selected = append(selected, v)
		}
	}
	if len(selected) == 0 {
		return r, nil
	}

	dict, err := a.Dictionary.Dictionary(ctx)
	if err != nil {
		return nil, err
	}
	names := a.newNameCache(ctx)

	r.Variants = make([]Variant, 0, len(selected))
	for _, v := range selected {
		assembled, err := assembleVariant(v, dict, names)
		if err != nil {
			return nil, err
		}
		r.Variants = append(r.Variants, assembled)
	}
	return r, nil
}

func (a *Assembler) newNameCache(ctx context.Context) gcache.Cache {
	size := a.NameCacheSize
	if size <= 0 {
		size = 1024
	}
	return gcache.New(size).
		LRU().
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return a.Names.ResolveIDToName(ctx, key.(string))
		}).
		Build()
}

func assembleVariant(v source.Variant, dict *source.Dictionary, names gcache.Cache) (Variant, error) {
	assembled := Variant{
		ID:    v.ID,
		Kind:  KindOf(v.ID),
		Stops: make([]Row, 0, len(v.Stops)),
	}

	for n := 1; n <= len(v.Stops); n++ {
		stop, ok := v.Stops[strconv.Itoa(n)]
		if !ok {
			return Variant{}, &MalformedVariantError{v.ID, n}
		}

		name, err := names.Get(string(stop.StopGroupID))
		if err != nil {
			return Variant{}, err
		}

		stopType, ok := dict.Result.StopTypes[string(stop.Type)]
		if !ok {
			return Variant{}, &DictionaryError{"stop type", string(stop.Type)}
		}

		street, ok := dict.Result.Streets[string(stop.StreetID)]
		if !ok {
			return Variant{}, &DictionaryError{"street", string(stop.StreetID)}
		}

		assembled.Stops = append(assembled.Stops, Row{
			Position:    n,
			StopName:    name.(string),
			StopGroupID: string(stop.StopGroupID),
			StopID:      string(stop.StopID),
			StopType:    stopType,
			Distance:    string(stop.Distance),
			StreetName:  street,
		})
	}

	return assembled, nil
}
