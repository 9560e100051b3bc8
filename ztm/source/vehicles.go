// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
)

// FetchVehicles returns live positions of all vehicles of the given kind serving a line.
// If brigade is non-empty, only the vehicle running that brigade is returned.
func (c *Client) FetchVehicles(ctx context.Context, kind VehicleKind, line, brigade string) ([]Vehicle, error) {
	kv := []string{
		"resource_id", c.ids.Vehicles,
		"type", string(kind),
		"line", line,
	}
	if brigade != "" {
		kv = append(kv, "brigade", brigade)
	}

	req, err := c.newRequest(ctx, "busestrams_get", c.params(kv...))
	if err != nil {
		return nil, err
	}
	return getResult[[]Vehicle](c, req)
}
