package transport

import "context"

// Gauge is the subset of a Prometheus gauge used by InFlight.
type Gauge interface {
	Inc()
	Dec()
}

// InFlight returns middleware that raises g while an exchange is waiting
// on the network.
func InFlight(g Gauge) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			g.Inc()
			defer g.Dec()
			return next.Do(ctx, req)
		})
	}
}
