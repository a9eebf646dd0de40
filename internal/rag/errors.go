package rag

import "errors"

var (
	// ErrEmptyInput is returned by Ingest when the document text is empty
	// after normalization.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmptyQuery is returned by Retrieve when the query is blank.
	ErrEmptyQuery = errors.New("empty query")

	// ErrNoChunksProduced is returned by Ingest when the chunking strategy
	// yields zero usable chunks.
	ErrNoChunksProduced = errors.New("no chunks produced")
)
