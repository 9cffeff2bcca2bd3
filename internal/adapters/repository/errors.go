package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("locality not found")
	ErrEmptyLocality = errors.New("empty locality name")
	// ErrNoData signals an export of an empty store.
	ErrNoData = errors.New("no data to export")
)
