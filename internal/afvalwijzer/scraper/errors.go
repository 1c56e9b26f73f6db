package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport classifies failures to reach the site at all.
	ErrTransport = errors.New("transport failure")
	// ErrBadResponse classifies responses that arrived but cannot be used.
	ErrBadResponse = errors.New("bad response")
)

// FetchError carries the cause class of a failed page fetch. Match it with
// errors.Is(err, ErrTransport) or errors.Is(err, ErrBadResponse).
type FetchError struct {
	Kind       error
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v fetching %s: status %d", e.Kind, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}
