// Command mock-agent runs an in-memory stand-in for the Timeweb Cloud AI
// agent API. Chat endpoints echo the last user message; conversations and
// responses live in memory until the process exits.
//
// Every flag defaults to an environment variable:
//
//	--port, -p            MOCK_PORT              Listen port (default: 9090)
//	--token, -t           MOCK_TOKEN             Accepted bearer token (required)
//	--signing-key         MOCK_SIGNING_KEY       Also accept HS256 JWTs signed with this key
//	--rpm                 MOCK_RPM               Requests per minute per token, 0 disables (default: 0)
//	--max-conversations   MOCK_MAX_CONVERSATIONS Conversation cap, 0 is unlimited (default: 1000)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/rhuss/twcai/pkg/debug"
	"github.com/rhuss/twcai/pkg/mockagent"
	"github.com/rhuss/twcai/pkg/observability"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("mock agent failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	debug.Init("", "")

	rpmDefault, err := envInt("MOCK_RPM", 0)
	if err != nil {
		return err
	}
	maxDefault, err := envInt("MOCK_MAX_CONVERSATIONS", 1000)
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("mock-agent", pflag.ContinueOnError)
	port := flags.StringP("port", "p", envOrDefault("MOCK_PORT", "9090"), "listen port")
	token := flags.StringP("token", "t", os.Getenv("MOCK_TOKEN"), "accepted bearer token")
	signingKey := flags.String("signing-key", os.Getenv("MOCK_SIGNING_KEY"), "HS256 key for JWT bearer tokens")
	rpm := flags.Int("rpm", rpmDefault, "requests per minute per token (0 disables)")
	maxConversations := flags.Int("max-conversations", maxDefault, "maximum stored conversations (0 is unlimited)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		return fmt.Errorf("a token is required (--token or MOCK_TOKEN)")
	}
	if *rpm < 0 || *maxConversations < 0 {
		return fmt.Errorf("--rpm and --max-conversations must not be negative")
	}

	agent := mockagent.New(mockagent.Config{
		Token:             *token,
		SigningKey:        []byte(*signingKey),
		RequestsPerMinute: *rpm,
		MaxConversations:  *maxConversations,
	})

	mux := http.NewServeMux()
	mux.Handle("/", observability.MetricsMiddleware(agent))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("mock agent starting", "port", *port, "rate_limit", *rpm, "max_conversations", *maxConversations)
	srv := mockagent.NewServer(mux, mockagent.ServerConfig{Addr: ":" + *port})
	return srv.ListenAndServe(ctx)
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
