package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind int

// Error kinds, one per failure path of the pipeline.
const (
	KindUnknown ErrorKind = iota
	// KindValidation: input is not a syntactically valid absolute URL.
	KindValidation
	// KindPrivateURL: the URL targets a private or local network host.
	KindPrivateURL
	// KindTimeout: the fetch deadline elapsed before a response arrived.
	KindTimeout
	// KindHostNotFound: DNS resolution failed for the target host.
	KindHostNotFound
	// KindBadResponse: the server answered with a status outside 2xx/3xx.
	KindBadResponse
	// KindTransport: any other network-layer failure.
	KindTransport
)

var kindNames = map[ErrorKind]string{
	KindUnknown:      "internal",
	KindValidation:   "validation",
	KindPrivateURL:   "private_url",
	KindTimeout:      "timeout",
	KindHostNotFound: "host_not_found",
	KindBadResponse:  "bad_response",
	KindTransport:    "transport",
}

// String returns the wire name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinel errors matched by errors.Is against a *PipelineError of the same kind.
var (
	ErrValidation   = errors.New("invalid URL")
	ErrPrivateURL   = errors.New("private or local address")
	ErrTimeout      = errors.New("fetch timed out")
	ErrHostNotFound = errors.New("host not found")
	ErrBadResponse  = errors.New("bad response status")
	ErrTransport    = errors.New("transport failure")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:   ErrValidation,
	KindPrivateURL:   ErrPrivateURL,
	KindTimeout:      ErrTimeout,
	KindHostNotFound: ErrHostNotFound,
	KindBadResponse:  ErrBadResponse,
	KindTransport:    ErrTransport,
}

// PipelineError is the only failure value that crosses the pipeline boundary.
type PipelineError struct {
	Kind       ErrorKind
	Message    string
	URL        string
	StatusCode int // set for KindBadResponse
	Cause      error
}

func (e *PipelineError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.URL)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match a PipelineError against its kind's sentinel.
func (e *PipelineError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// NewError creates a PipelineError of the given kind.
func NewError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WithURL returns the error annotated with the URL it concerns.
func (e *PipelineError) WithURL(url string) *PipelineError {
	e.URL = url
	return e
}

// KindOf returns the kind of the first PipelineError in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
