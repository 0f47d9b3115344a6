package transport

import (
	"context"
	"fmt"
)

// Recovery returns middleware that converts a panic in a downstream Doer
// into an error, so a faulty custom Doer fails the call instead of the
// process.
func Recovery() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (resp *Response, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					resp, retErr = nil, fmt.Errorf("transport panic: %v", r)
				}
			}()
			return next.Do(ctx, req)
		})
	}
}
