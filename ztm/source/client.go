// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/spmpl-pl/ztm/ztm/util/http2"
)

// APIError is returned when the API answers successfully, but the result
// is an error message instead of data. That's how it reports bad parameters.
type APIError string

func (e APIError) Error() string {
	return fmt.Sprintf("api: %s", string(e))
}

// IDs identifies the datasets behind the generic dbstore_get, dbtimetable_get
// and busestrams_get actions.
type IDs struct {
	StopRegistry uuid.UUID
	NameLookup   uuid.UUID
	LinesAtStop  uuid.UUID
	Schedule     uuid.UUID

	// Vehicles is not a well-formed UUID, so it can't be stored as one.
	Vehicles string
}

func DefaultIDs() IDs {
	return IDs{
		StopRegistry: uuid.MustParse("ab75c33d-3a26-4342-b36a-6e5fef0a3ac3"),
		NameLookup:   uuid.MustParse("b27f4c17-5c50-4a5b-89dd-236b282bc499"),
		LinesAtStop:  uuid.MustParse("88cd555f-6f31-43ca-9de4-66c479ad5942"),
		Schedule:     uuid.MustParse("e923fa0e-d96c-43f9-ae6e-60518c9f3238"),
		Vehicles:     "f2e5503e927d-4ad3-9500-4ab9e55deb59",
	}
}

// Client talks to the open data API of the City of Warsaw.
type Client struct {
	baseURL string
	base    url.Values
	ids     IDs
	http    *http.Client
}

// NewClient creates a client. The api key is the only parameter sent with every request.
// A nil httpClient uses http2.NewClient with the default timeouts.
func NewClient(baseURL, apikey string, ids IDs, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http2.NewClient(http2.DefaultConnectTimeout, http2.DefaultReadTimeout)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		base:    url.Values{"apikey": {apikey}},
		ids:     ids,
		http:    httpClient,
	}
}

// params returns a fresh copy of the base parameters extended with the
// given key-value pairs. The base parameters are never modified.
func (c *Client) params(kv ...string) url.Values {
	p := make(url.Values, len(c.base)+len(kv)/2)
	for k, v := range c.base {
		p[k] = append([]string(nil), v...)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

func (c *Client) newRequest(ctx context.Context, action string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"api/action/"+action, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()
	return req, nil
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

// checkResult rejects envelopes whose result is a string, which the API uses for errors.
func checkResult(e *envelope) error {
	raw := strings.TrimSpace(string(e.Result))
	if raw == "" || raw == "null" {
		return APIError("empty result")
	}
	if raw[0] == '"' {
		var msg string
		if err := json.Unmarshal(e.Result, &msg); err != nil || msg == "" {
			return APIError(raw)
		}
		return APIError(msg)
	}
	return nil
}

func getResult[T any](c *Client, req *http.Request) (T, error) {
	var result T

	slog.Debug("Connecting", "action", req.URL.Path)
	e, err := http2.GetJSON[envelope](c.http, req)
	if err != nil {
		return result, err
	}
	if err = checkResult(e); err != nil {
		return result, err
	}

	if err = json.Unmarshal(e.Result, &result); err != nil {
		return result, fmt.Errorf("%s: result: %w", req.URL.Path, err)
	}
	return result, nil
}
