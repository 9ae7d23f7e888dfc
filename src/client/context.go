package client

import (
	"context"
	"time"
)

// WithMulticastWait returns a new context that specifies the "quiet window"
// used when performing a multicast DNS query. Collection of responses stops
// once no response has been received for this duration.
//
// If the parent's wait time is already longer than w, parent is returned.
func WithMulticastWait(parent context.Context, w time.Duration) context.Context {
	if e, ok := parent.Value(multicastWaitKey).(time.Duration); ok && e > w {
		return parent
	}

	return context.WithValue(parent, multicastWaitKey, w)
}

// MulticastWait returns the quiet window to use when performing a multicast
// query on behalf of ctx. ok is false if no wait duration is specified.
func MulticastWait(ctx context.Context) (w time.Duration, ok bool) {
	w, ok = ctx.Value(multicastWaitKey).(time.Duration)
	return
}

// ResolveMulticastWait returns the quiet window to use for ctx. If ctx does not
// specify a wait duration, w is used. If the context deadline occurs sooner
// than the end of the window, the time remaining until the deadline is
// returned instead.
func ResolveMulticastWait(ctx context.Context, w time.Duration) time.Duration {
	if e, ok := ctx.Value(multicastWaitKey).(time.Duration); ok {
		w = e
	}

	if d, ok := ctx.Deadline(); ok {
		if r := time.Until(d); r < w {
			return r
		}
	}

	return w
}

type multicastWaitKeyType struct{}

var multicastWaitKey multicastWaitKeyType
