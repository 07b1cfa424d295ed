package fetch

import (
	"context"
	"errors"
	"net"

	"github.com/jonathan/site-analyzer/internal/types"
)

// translation maps one family of transport failures to a pipeline error kind.
type translation struct {
	kind    types.ErrorKind
	message string
	match   func(error) bool
}

// translations is evaluated in order; the first match wins.
// DNS lookups that time out are reported as Timeout.
var translations = []translation{
	{types.KindTimeout, "Timeout while fetching the URL", isTimeout},
	{types.KindHostNotFound, "Host not found", isHostNotFound},
}

// classify converts a transport error into a PipelineError.
func classify(err error) *types.PipelineError {
	for _, t := range translations {
		if t.match(err) {
			return types.NewError(t.kind, t.message, err)
		}
	}
	return types.NewError(types.KindTransport, err.Error(), err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isHostNotFound matches authoritative "no such host" answers only.
// Temporary resolver failures stay Transport errors.
func isHostNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
