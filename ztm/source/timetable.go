// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
)

// LookupStopGroups asks the API for all stop groups matching the given name.
// Returned records carry the "zespol" and "nazwa_zespolu" keys.
func (c *Client) LookupStopGroups(ctx context.Context, name string) ([]AttributeRecord, error) {
	req, err := c.newRequest(ctx, "dbtimetable_get", c.params(
		"id", c.ids.NameLookup.String(),
		"name", name,
	))
	if err != nil {
		return nil, err
	}
	return getResult[[]AttributeRecord](c, req)
}

// FetchLines returns the lines calling at a physical stop.
// Returned records carry the "linia" key.
func (c *Client) FetchLines(ctx context.Context, stopGroupID, stopID string) ([]AttributeRecord, error) {
	req, err := c.newRequest(ctx, "dbtimetable_get", c.params(
		"id", c.ids.LinesAtStop.String(),
		"busstopId", stopGroupID,
		"busstopNr", stopID,
	))
	if err != nil {
		return nil, err
	}
	return getResult[[]AttributeRecord](c, req)
}

// FetchSchedule returns departures of a line from a physical stop.
// Returned records carry the "brygada", "kierunek", "trasa" and "czas" keys.
func (c *Client) FetchSchedule(ctx context.Context, stopGroupID, stopID, line string) ([]AttributeRecord, error) {
	req, err := c.newRequest(ctx, "dbtimetable_get", c.params(
		"id", c.ids.Schedule.String(),
		"busstopId", stopGroupID,
		"busstopNr", stopID,
		"line", line,
	))
	if err != nil {
		return nil, err
	}
	return getResult[[]AttributeRecord](c, req)
}
