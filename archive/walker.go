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


package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// RecordExtension is the file extension of catalog record entries.
// Entries with any other name are skipped by the walker.
const RecordExtension = ".rdf"

// Walker streams catalog record entries out of a compressed tar archive.
// The traversal is single-pass and lazy: each entry's reader is valid only
// until the callback returns, and the archive is never buffered whole.
type Walker struct {
	path string
}

// NewWalker creates a walker for the archive at path. The compression
// format is chosen from the file name: .tar.bz2/.tbz2, .tar.gz/.tgz, or
// plain .tar. The catalog feed ships as .tar.bz2.
func NewWalker(path string) *Walker {
	return &Walker{path: path}
}

// ForEach walks the archive, calling fn once per record entry with the
// entry's name and a reader over its bytes. The reader must be consumed
// (or abandoned) before fn returns; the walker advances past any unread
// remainder itself.
//
// An error from fn stops the walk and is returned unwrapped. Context
// cancellation is checked between entries; a record entry already handed
// to fn is never interrupted.
//
// Failures opening the archive return ErrUnreadable before any entry is
// produced. Failures after the first entry return ErrCorrupt; entries
// already handed to fn stand.
func (w *Walker) ForEach(ctx context.Context, fn func(name string, r io.Reader) error) error {
	file, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer file.Close()

	stream, err := decompressor(file, w.path)
	if err != nil {
		return err
	}

	tr := tar.NewReader(stream)
	yielded := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// A failure before anything was produced means the archive
			// was never readable; after that it is mid-stream corruption.
			if !yielded {
				return fmt.Errorf("%w: %v", ErrUnreadable, err)
			}
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		yielded = true

		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, RecordExtension) {
			continue
		}

		if err := fn(header.Name, tr); err != nil {
			return err
		}
	}
}

// decompressor wraps the raw archive stream with the decoder implied by
// the file name.
func decompressor(r io.Reader, path string) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".tar.bz2"), strings.HasSuffix(path, ".tbz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return gz, nil
	case strings.HasSuffix(path, ".tar"):
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unsupported archive format %q", ErrUnreadable, path)
	}
}
