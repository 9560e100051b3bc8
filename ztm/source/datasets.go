// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spmpl-pl/ztm/ztm/util/http2"
)

// Dataset names one of the large reference datasets which are cached locally.
type Dataset string

const (
	StopsDataset      Dataset = "busstops"
	RoutesDataset     Dataset = "routes"
	DictionaryDataset Dataset = "dictionary"
)

var AllDatasets = []Dataset{StopsDataset, RoutesDataset, DictionaryDataset}

func (d Dataset) request(c *Client) (action string, params url.Values, err error) {
	switch d {
	case StopsDataset:
		return "dbstore_get", c.params("id", c.ids.StopRegistry.String()), nil
	case RoutesDataset:
		return "public_transport_routes", c.params(), nil
	case DictionaryDataset:
		return "public_transport_dictionary", c.params(), nil
	default:
		return "", nil, fmt.Errorf("unknown dataset: %q", string(d))
	}
}

// FetchDataset downloads the given dataset and returns the verbatim response body.
// The body is only returned if it is a well-formed envelope with a non-error result.
func (c *Client) FetchDataset(ctx context.Context, d Dataset) ([]byte, error) {
	action, params, err := d.request(c)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, action, params)
	if err != nil {
		return nil, err
	}

	slog.Debug("Fetching dataset", "dataset", d)
	body, err := http2.Get(c.http, req)
	if err != nil {
		return nil, err
	}

	var e envelope
	if err = json.NewDecoder(bytes.NewReader(body)).Decode(&e); err != nil {
		return nil, fmt.Errorf("%s: %w", d, err)
	}
	if err = checkResult(&e); err != nil {
		return nil, err
	}

	slog.Debug("Fetched dataset", "dataset", d, "bytes", len(body))
	return body, nil
}
