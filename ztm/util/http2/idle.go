// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package http2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ReadTimeoutError is returned when the response body stops arriving for longer than the read timeout.
type ReadTimeoutError struct {
	Silence time.Duration
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("no data received for %s", e.Silence)
}

func (e *ReadTimeoutError) Timeout() bool {
	return true
}

// idleTimeoutTransport aborts a request whose response body goes silent for longer than timeout.
// The timer is re-armed on every read which returns data.
type idleTimeoutTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func (t *idleTimeoutTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(req.Context())

	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel(nil)
		return nil, err
	}

	cause := &ReadTimeoutError{t.timeout}
	resp.Body = &idleTimeoutBody{
		ReadCloser: resp.Body,
		ctx:        ctx,
		cancel:     cancel,
		timeout:    t.timeout,
		timer:      time.AfterFunc(t.timeout, func() { cancel(cause) }),
	}
	return resp, nil
}

type idleTimeoutBody struct {
	io.ReadCloser
	ctx     context.Context
	cancel  context.CancelCauseFunc
	timeout time.Duration
	timer   *time.Timer
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)

	if err != nil {
		b.timer.Stop()
		if cause, ok := context.Cause(b.ctx).(*ReadTimeoutError); ok {
			return n, cause
		}
	} else if n > 0 {
		b.timer.Reset(b.timeout)
	}

	return n, err
}

func (b *idleTimeoutBody) Close() error {
	b.timer.Stop()
	err := b.ReadCloser.Close()
	b.cancel(nil)
	return err
}
