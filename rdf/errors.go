package rdf

import "errors"

var (
	// ErrParse indicates the entry's bytes were not parseable markup.
	// This is recoverable and scoped to one archive entry.
	ErrParse = errors.New("unparsable record markup")

	// ErrRecord indicates one record element inside an otherwise
	// well-formed document could not be extracted.
	ErrRecord = errors.New("invalid record element")

	// ErrMissingID indicates a record element with no catalog identifier.
	ErrMissingID = errors.New("missing record identifier")

	// ErrMissingDownloads indicates a record element with no usable
	// download count. The count is required; its absence fails the
	// record rather than defaulting.
	ErrMissingDownloads = errors.New("missing download count")
)
