// Package hiqerr collects the small set of sentinel errors shared across
// fetchers, syncers, and stores so callers can branch with errors.Is instead
// of string matching.
package hiqerr

import "errors"

var (
	// ErrNotImplemented is returned by store backends this repo declares but
	// does not implement (file, mysql, clickhouse).
	ErrNotImplemented = errors.New("hiqsync: not implemented")

	// ErrRequest wraps a failed upstream HTTP call.
	ErrRequest = errors.New("hiqsync: request failed")

	// ErrDecode wraps a failed response decode.
	ErrDecode = errors.New("hiqsync: decode failed")

	// ErrShutdown signals a cooperative shutdown in progress; it is not
	// logged as a failure by callers that check for it explicitly.
	ErrShutdown = errors.New("hiqsync: shutdown")

	// ErrCacheEmpty is returned when the reference cache fails to populate
	// every required table.
	ErrCacheEmpty = errors.New("hiqsync: cache info is empty")
)
