package archive

import "errors"

var (
	// ErrUnreadable indicates the archive could not be opened at all:
	// missing file, unsupported format, or a corrupt header detected
	// before any entry was produced.
	ErrUnreadable = errors.New("archive unreadable")

	// ErrCorrupt indicates the archive failed mid-stream after one or
	// more entries were already produced. Work done for those entries
	// remains valid.
	ErrCorrupt = errors.New("archive corrupt")
)
