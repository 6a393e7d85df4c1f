package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	// RequestFailed covers transport errors and non-2xx responses.
	RequestFailed ErrorKind = iota + 1
	// DecodeFailed means the body did not match the expected JSON shape.
	DecodeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case RequestFailed:
		return "request failed"
	case DecodeFailed:
		return "decode failed"
	}
	return "unknown"
}

// Sentinels for errors.Is against a *FetchError.
var (
	ErrRequestFailed = errors.New("request failed")
	ErrDecodeFailed  = errors.New("decode failed")
)

// FetchError is returned by every Client call that reaches the network.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d from %s", e.Kind, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return e.Kind == RequestFailed
	case ErrDecodeFailed:
		return e.Kind == DecodeFailed
	}
	return false
}
