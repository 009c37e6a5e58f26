package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name string
	body string
}

func writeTar(t *testing.T, entries []testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(e.body)),
		}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, name string, entries []testEntry) string {
	t.Helper()

	data := writeTar(t, entries)
	if filepath.Ext(name) == ".gz" {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write(data)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		data = buf.Bytes()
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func collect(t *testing.T, path string) []testEntry {
	t.Helper()

	var got []testEntry
	err := NewWalker(path).ForEach(context.Background(), func(name string, r io.Reader) error {
		body, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		got = append(got, testEntry{name: name, body: string(body)})
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestWalkerYieldsRecordEntriesInOrder(t *testing.T) {
	path := writeArchive(t, "catalog.tar.gz", []testEntry{
		{name: "cache/epub/1/pg1.rdf", body: "<rdf/>"},
		{name: "cache/epub/1/readme.txt", body: "not a record"},
		{name: "cache/epub/2/pg2.rdf", body: "<rdf2/>"},
	})

	got := collect(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "cache/epub/1/pg1.rdf", got[0].name)
	assert.Equal(t, "<rdf/>", got[0].body)
	assert.Equal(t, "cache/epub/2/pg2.rdf", got[1].name)
	assert.Equal(t, "<rdf2/>", got[1].body)
}

func TestWalkerPlainTar(t *testing.T) {
	path := writeArchive(t, "catalog.tar", []testEntry{
		{name: "pg10.rdf", body: "x"},
	})

	got := collect(t, path)
	require.Len(t, got, 1)
}

func TestWalkerAdvancesPastUnreadEntries(t *testing.T) {
	path := writeArchive(t, "catalog.tar.gz", []testEntry{
		{name: "a.rdf", body: "first body"},
		{name: "b.rdf", body: "second body"},
	})

	var names []string
	err := NewWalker(path).ForEach(context.Background(), func(name string, r io.Reader) error {
		// Deliberately leave the entry unread.
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rdf", "b.rdf"}, names)
}

func TestWalkerMissingFile(t *testing.T) {
	err := NewWalker(filepath.Join(t.TempDir(), "nope.tar.bz2")).
		ForEach(context.Background(), func(string, io.Reader) error { return nil })
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestWalkerUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))

	err := NewWalker(path).ForEach(context.Background(), func(string, io.Reader) error { return nil })
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestWalkerBadGzipHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("definitely not gzip"), 0o644))

	err := NewWalker(path).ForEach(context.Background(), func(string, io.Reader) error { return nil })
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestWalkerGarbageBeforeFirstEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.tar")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xff}, 1024), 0o644))

	err := NewWalker(path).ForEach(context.Background(), func(string, io.Reader) error { return nil })
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestWalkerCorruptMidStream(t *testing.T) {
	data := writeTar(t, []testEntry{
		{name: "a.rdf", body: "first"},
		{name: "b.rdf", body: "second"},
	})

	// The second header starts at offset 1024 (512-byte header plus one
	// padded data block). Wrecking its checksum field corrupts the stream
	// after the first entry.
	copy(data[1024+148:], []byte("xxxxxxxx"))

	path := filepath.Join(t.TempDir(), "catalog.tar")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var names []string
	err := NewWalker(path).ForEach(context.Background(), func(name string, r io.Reader) error {
		names = append(names, name)
		return nil
	})
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, []string{"a.rdf"}, names)
}

func TestWalkerCallbackErrorStopsWalk(t *testing.T) {
	path := writeArchive(t, "catalog.tar.gz", []testEntry{
		{name: "a.rdf", body: "x"},
		{name: "b.rdf", body: "y"},
	})

	boom := errors.New("boom")
	calls := 0
	err := NewWalker(path).ForEach(context.Background(), func(string, io.Reader) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWalkerContextCancellation(t *testing.T) {
	path := writeArchive(t, "catalog.tar.gz", []testEntry{
		{name: "a.rdf", body: "x"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWalker(path).ForEach(ctx, func(string, io.Reader) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
