// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package http2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 15 * time.Second
)

// Error is returned when the server responds with anything else than 200 OK.
type Error struct {
	URL, Status string
	StatusCode  int
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, e.Status)
}

// NetworkError is returned when a request could not be completed at all:
// the connection failed, or the connect or read deadline was exceeded.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was aborted by one of the deadlines.
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// NewClient returns an http.Client which gives up when a connection can't be
// established in connectTimeout, or when the server stays silent for readTimeout,
// either before the response headers or between two reads of the body.
// There is no limit on the total duration of a request.
func NewClient(connectTimeout, readTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
	}
	return &http.Client{
		Transport: &idleTimeoutTransport{base: transport, timeout: readTimeout},
	}
}

func Check(r *http.Response) error {
	if r.StatusCode != http.StatusOK {
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
		return &Error{
			URL:        redacted(r.Request),
			Status:     r.Status,
			StatusCode: r.StatusCode,
		}
	}
	return nil
}

func do(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: redacted(req), Err: unwrapURLError(err)}
	} else if err = Check(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Get executes the request and returns the full response body.
func Get(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := do(client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: redacted(req), Err: err}
	}
	return body, nil
}

func GetJSON[T any](client *http.Client, req *http.Request) (*T, error) {
	resp, err := do(client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content := new(T)
	if err = json.NewDecoder(resp.Body).Decode(content); err != nil {
		if isDecodeError(err) {
			return nil, fmt.Errorf("%s: %w", redacted(req), err)
		}
		return nil, &NetworkError{URL: redacted(req), Err: err}
	}
	return content, nil
}

func redacted(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}

func unwrapURLError(err error) error {
	// *url.Error repeats the method and URL, which NetworkError already carries.
	if u, ok := err.(interface{ Unwrap() error }); ok {
		if inner := u.Unwrap(); inner != nil {
			return inner
		}
	}
	return err
}

// isDecodeError returns true if err comes from malformed content,
// rather than from a failure to receive it.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
