// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/gutread/archive"
	"github.com/poiesic/gutread/rdf"
	"github.com/poiesic/gutread/storage"
)

// Pipeline drives one import run: it walks the archive, parses each
// record entry, and stores every extracted record. Per-entry failures
// are isolated; only failure to open the archive aborts a run.
type Pipeline struct {
	store   storage.CatalogStore
	workers int
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithWorkers sets how many entries are processed at once. The default
// of 1 keeps the run strictly sequential. Higher values hand buffered
// entries to a worker pool; record writes stay safe because every
// record runs in its own transaction and all upserts are keyed by
// natural ids, so the store serializes writers of the same key.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.workers = n
		return nil
	}
}

// NewPipeline creates an import pipeline writing to store.
func NewPipeline(store storage.CatalogStore, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		store:   store,
		workers: 1,
		logger:  slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Result is the aggregate outcome of one run.
type Result struct {
	Entries     int64 // record entries seen in the archive
	Processed   int64 // records committed to the store
	Skipped     int64 // records dropped for having no title
	ParseFailed int64 // entries or record elements that failed to parse
	WriteFailed int64 // records whose transaction rolled back
}

func (r *Result) String() string {
	return fmt.Sprintf("entries=%d processed=%d skipped=%d parse_failed=%d write_failed=%d",
		r.Entries, r.Processed, r.Skipped, r.ParseFailed, r.WriteFailed)
}

type counters struct {
	entries     atomic.Int64
	processed   atomic.Int64
	skipped     atomic.Int64
	parseFailed atomic.Int64
	writeFailed atomic.Int64
}

func (c *counters) result() *Result {
	return &Result{
		Entries:     c.entries.Load(),
		Processed:   c.processed.Load(),
		Skipped:     c.skipped.Load(),
		ParseFailed: c.parseFailed.Load(),
		WriteFailed: c.writeFailed.Load(),
	}
}

// Run imports every record entry of the archive at path. The returned
// Result is valid even when an error is returned: a mid-stream archive
// failure reports the counts for everything already committed.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	c := &counters{}
	walker := archive.NewWalker(path)

	var err error
	if p.workers == 1 {
		err = walker.ForEach(ctx, func(name string, r io.Reader) error {
			c.entries.Add(1)
			p.handleEntry(ctx, name, r, c)
			return nil
		})
	} else {
		err = p.runParallel(ctx, walker, c)
	}

	result := c.result()
	if err != nil {
		return result, err
	}

	p.logger.Info("import finished", "outcome", result.String())
	return result, nil
}

// runParallel fans buffered entries out to a worker pool. The archive
// stream itself stays single-pass: each entry is read fully before the
// walk advances, and only the parse and write run on the pool.
func (p *Pipeline) runParallel(ctx context.Context, walker *archive.Walker, c *counters) error {
	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	defer wg.Wait()

	return walker.ForEach(ctx, func(name string, r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%w: reading entry %s: %v", archive.ErrCorrupt, name, err)
		}

		c.entries.Add(1)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			p.handleEntry(ctx, name, bytes.NewReader(data), c)
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})
}

// handleEntry processes one record entry end to end. Every failure mode
// is counted and logged here; none of them propagate.
func (p *Pipeline) handleEntry(ctx context.Context, name string, r io.Reader, c *counters) {
	doc, err := rdf.Parse(r)
	if err != nil {
		c.parseFailed.Add(1)
		p.logger.Warn("skipping unparsable entry", "entry", name, "err", err)
		return
	}

	if doc.Skipped > 0 {
		c.skipped.Add(int64(doc.Skipped))
		p.logger.Debug("skipped untitled records", "entry", name, "count", doc.Skipped)
	}

	for _, issue := range doc.Issues {
		c.parseFailed.Add(1)
		p.logger.Warn("skipping invalid record", "entry", name, "err", issue)
	}

	for i := range doc.Records {
		record := &doc.Records[i]
		if err := p.store.StoreRecord(ctx, record); err != nil {
			c.writeFailed.Add(1)
			p.logger.Error("record write failed", "entry", name, "record", record.ID, "err", err)
			continue
		}
		c.processed.Add(1)
	}
}
