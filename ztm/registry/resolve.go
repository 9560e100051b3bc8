// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spmpl-pl/ztm/ztm/source"
)

// UsageError is returned when the caller supplied contradictory or incomplete parameters.
type UsageError string

func (e UsageError) Error() string {
	return string(e)
}

const (
	ErrNameAndID  = UsageError("provide either a stop group name or a stop group ID, not both")
	ErrNoNameOrID = UsageError("provide a stop group name or a stop group ID")
)

// NotFoundError is returned when a lookup matched nothing.
type NotFoundError struct {
	What, Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matching %q", e.What, e.Key)
}

// StopGroup is the identity of a stop group: many physical stops share it.
type StopGroup struct {
	ID   string
	Name string
}

// Query identifies stop groups by exactly one of Name or ID.
type Query struct {
	Name string
	ID   string
}

func (q Query) Validate() error {
	switch {
	case q.Name != "" && q.ID != "":
		return ErrNameAndID
	case q.Name == "" && q.ID == "":
		return ErrNoNameOrID
	default:
		return nil
	}
}

// NameLookup searches stop groups by name remotely.
type NameLookup interface {
	LookupStopGroups(ctx context.Context, name string) ([]source.AttributeRecord, error)
}

// StopsLoader provides the stop registry dataset.
type StopsLoader interface {
	Stops(ctx context.Context) (*source.StopRegistry, error)
}

// Resolver maps user-facing stop group names and IDs onto stop registry records.
// Both collaborators are consulted lazily, only when an operation needs them.
type Resolver struct {
	Lookup NameLookup
	Stops  StopsLoader
}

// Resolve validates the query and returns the stop groups it refers to.
// Invalid queries fail before any dataset or network access.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]StopGroup, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.Name != "" {
		groups, err := r.ResolveNameToGroups(ctx, q.Name)
		if err != nil {
			return nil, err
		} else if len(groups) == 0 {
			return nil, &NotFoundError{"stop groups", q.Name}
		}
		return groups, nil
	}

	name, err := r.ResolveIDToName(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return []StopGroup{{ID: q.ID, Name: name}}, nil
}

// ResolveNameToGroups asks the API for every stop group with the given name.
// More than one group may legitimately match, e.g. for a street name.
func (r *Resolver) ResolveNameToGroups(ctx context.Context, name string) ([]StopGroup, error) {
	records, err := r.Lookup.LookupStopGroups(ctx, name)
	if err != nil {
		return nil, err
	}

	groups := make([]StopGroup, 0, len(records))
	for _, record := range records {
		id, _ := record.Get(string(KeyStopGroupID))
		groupName, _ := record.Get(string(KeyStopGroupName))
		if id == "" {
			slog.Debug("Skipping name lookup record without a stop group ID", "record", record)
			continue
		}
		groups = append(groups, StopGroup{ID: id, Name: groupName})
	}
	return groups, nil
}

// ResolveIDToName returns the name of the stop group with the given ID.
func (r *Resolver) ResolveIDToName(ctx context.Context, id string) (string, error) {
	stops, err := r.ResolveGroupToStops(ctx, id)
	if err != nil {
		return "", err
	} else if len(stops) == 0 {
		return "", &NotFoundError{"stop groups", id}
	}
	return stops[0].StopGroupName, nil
}

// ResolveGroupToStops returns all physical stops of the stop group with the given ID.
func (r *Resolver) ResolveGroupToStops(ctx context.Context, id string) ([]StopRecord, error) {
	registry, err := r.Stops.Stops(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(registry.Result, Filter{KeyStopGroupID, id}), nil
}
