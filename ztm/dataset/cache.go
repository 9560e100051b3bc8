// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

// Package dataset keeps local snapshots of the large reference datasets.
//
// A snapshot is valid for the calendar day it was written on; the first use
// on any later day downloads it again. There is no locking: concurrent runs
// against the same directory race on the file writes.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bluele/gcache"

	"github.com/spmpl-pl/ztm/ztm/source"
	"github.com/spmpl-pl/ztm/ztm/util/time2"
)

// Fetcher downloads the verbatim content of a dataset.
type Fetcher interface {
	FetchDataset(context.Context, source.Dataset) ([]byte, error)
}

// CacheError is returned when a snapshot file can't be read or written.
type CacheError struct {
	Op, Path string
	Err      error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("failed to %s database file %s: %s", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

type Cache struct {
	Dir     string
	Fetcher Fetcher

	// Now is used to tell the current day. If nil, time.Now is used.
	Now func() time.Time

	parsed gcache.Cache
}

func New(dir string, fetcher Fetcher) *Cache {
	return &Cache{
		Dir:     dir,
		Fetcher: fetcher,
		parsed:  gcache.New(len(source.AllDatasets)).Simple().Build(),
	}
}

// Path returns the location of the snapshot of the given dataset.
func (c *Cache) Path(d source.Dataset) string {
	return filepath.Join(c.Dir, fmt.Sprintf("ztm_%s.json", d))
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// IsFresh returns true if the snapshot at path was last modified today.
// A missing file is not fresh.
func (c *Cache) IsFresh(path string) (bool, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, &CacheError{"stat", path, err}
	}

	now := c.now()
	modified := time2.DateOf(stat.ModTime().In(now.Location()))
	today := time2.DateOf(now)
	slog.Debug("Checking dataset snapshot", "path", path, "modified", modified.String(), "today", today.String())
	return modified == today, nil
}

// Get makes sure an up-to-date snapshot of the dataset exists on disk,
// and returns its content.
func (c *Cache) Get(ctx context.Context, d source.Dataset) ([]byte, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, &CacheError{"create directory for", c.Dir, err}
	}

	path := c.Path(d)
	fresh, err := c.IsFresh(path)
	if err != nil {
		return nil, err
	}

	if fresh {
		slog.Debug("Dataset is up to date", "dataset", d, "path", path)
	} else {
		slog.Debug("Dataset is outdated or missing", "dataset", d, "path", path)
		if err := c.refresh(ctx, d, path); err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &CacheError{"open", path, err}
	}
	return content, nil
}

func (c *Cache) refresh(ctx context.Context, d source.Dataset, path string) error {
	content, err := c.Fetcher.FetchDataset(ctx, d)
	if err != nil {
		return err
	}

	tempPath := getTempOutputPath(path)
	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return &CacheError{"write", tempPath, err}
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &CacheError{"write", path, err}
	}
	return nil
}

// Load returns the parsed content of a dataset. Every dataset is read and parsed
// at most once per Cache; later calls return the same value.
func Load[T any](ctx context.Context, c *Cache, d source.Dataset) (*T, error) {
	if c.parsed == nil {
		c.parsed = gcache.New(len(source.AllDatasets)).Simple().Build()
	}
	if v, err := c.parsed.Get(d); err == nil {
		if t, ok := v.(*T); ok {
			return t, nil
		}
	}

	content, err := c.Get(ctx, d)
	if err != nil {
		return nil, err
	}

	t := new(T)
	if err := json.Unmarshal(content, t); err != nil {
		return nil, &CacheError{"parse", c.Path(d), err}
	}

	c.parsed.Set(d, t)
	return t, nil
}

func (c *Cache) Stops(ctx context.Context) (*source.StopRegistry, error) {
	return Load[source.StopRegistry](ctx, c, source.StopsDataset)
}

func (c *Cache) Routes(ctx context.Context) (*source.RouteRegistry, error) {
	return Load[source.RouteRegistry](ctx, c, source.RoutesDataset)
}

func (c *Cache) Dictionary(ctx context.Context) (*source.Dictionary, error) {
	return Load[source.Dictionary](ctx, c, source.DictionaryDataset)
}

func getTempOutputPath(path string) string {
	dir, name := filepath.Split(path)
	return fmt.Sprintf("%s.%s.tmp", dir, name)
}
