package domain

import (
	"errors"
	"fmt"
)

type FetchErrorKind int

const (
	FetchOther FetchErrorKind = iota
	FetchTimeout
	FetchRateLimited
	FetchNotFound
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchRateLimited:
		return "rate_limited"
	case FetchNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// FetchError is a classified failure of a single page or detail fetch.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func FetchErrorKindOf(err error) (FetchErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return FetchOther, false
}

func IsRateLimited(err error) bool {
	kind, ok := FetchErrorKindOf(err)
	return ok && kind == FetchRateLimited
}

func IsNotFound(err error) bool {
	kind, ok := FetchErrorKindOf(err)
	return ok && kind == FetchNotFound
}

// PersistenceError is a per-record storage failure.
type PersistenceError struct {
	ExternalID string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.ExternalID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ExtractionError marks a listing dropped from a page.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extract listing: " + e.Reason
}

// FatalError aborts the current run.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

var (
	ErrRunInProgress   = errors.New("run already in progress")
	ErrListingNotFound = errors.New("listing not found")
	// ErrBlocked is returned by extractors for an anti-bot challenge page.
	ErrBlocked         = errors.New("blocked by anti-bot challenge")
)
