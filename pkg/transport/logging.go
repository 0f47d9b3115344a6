package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rhuss/twcai/pkg/debug"
)

// logBodyLimit caps bodies in debug logs below TRACE.
const logBodyLimit = 1024

// Logging returns middleware that emits a structured log entry per
// exchange with method, path, status, duration and request ID. Completed
// exchanges log at DEBUG, failed ones at WARN. With the "transport" debug
// category enabled, bodies are logged too, in full at TRACE. The
// Authorization header is never logged.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			path := req.URL
			if u, err := url.Parse(req.URL); err == nil {
				path = u.Path
			}

			if len(req.Body) > 0 {
				debug.Log("transport", "request body", "path", path, "body", debug.Truncate(string(req.Body), logBodyLimit))
				debug.Raw("transport", dump(">>>", req.Method+" "+req.URL, req.Body))
			}

			resp, err := next.Do(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("method", req.Method),
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelWarn, "agent request failed", attrs...)
				return nil, err
			}

			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			logger.LogAttrs(ctx, slog.LevelDebug, "agent request completed", attrs...)
			debug.Log("transport", "response body", "path", path, "body", debug.Truncate(string(resp.Body), logBodyLimit))
			debug.Raw("transport", dump("<<<", fmt.Sprintf("HTTP %d", resp.StatusCode), resp.Body))
			return resp, nil
		})
	}
}

func dump(dir, line string, body []byte) string {
	var b strings.Builder
	b.WriteString(dir + " " + line + "\n")
	b.Write(body)
	return b.String()
}
