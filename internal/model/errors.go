package model

import (
	"errors"
	"fmt"
)

// Configuration and control-flow sentinels
var (
	ErrExtractorUnavailable = errors.New("yt-dlp is not available: install it (pip install -U yt-dlp) or set tools.ytdlp_path")
	ErrMuxerRequired        = errors.New("ffmpeg is required for this download: install ffmpeg and make sure it is on PATH")
	ErrCancelled            = errors.New("download cancelled by user")
	ErrOutputDirUnwritable  = errors.New("output directory is not writable")
)

// ErrorKind groups errors by how callers should present them
type ErrorKind string

const (
	KindUnknown       ErrorKind = "unknown"
	KindConfiguration ErrorKind = "configuration"
	KindResolution    ErrorKind = "resolution"
	KindRetrieval     ErrorKind = "retrieval"
	KindFilesystem    ErrorKind = "filesystem"
	KindCancelled     ErrorKind = "cancelled"
)

// Error attaches a kind and the failing operation to an underlying error
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ResolutionError wraps a metadata resolution failure
func ResolutionError(op string, err error) error {
	return &Error{Kind: KindResolution, Op: op, Err: err}
}

// RetrievalError wraps a download failure
func RetrievalError(op string, err error) error {
	return &Error{Kind: KindRetrieval, Op: op, Err: err}
}

// KindOf classifies err. Sentinels take precedence over wrapping kinds.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrExtractorUnavailable), errors.Is(err, ErrMuxerRequired):
		return KindConfiguration
	case errors.Is(err, ErrOutputDirUnwritable):
		return KindFilesystem
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the user may reasonably retry the operation
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindResolution, KindRetrieval:
		return true
	}
	return false
}
