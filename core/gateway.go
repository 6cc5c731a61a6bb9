package core

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sherut/sherut/core/config"
	"github.com/sherut/sherut/core/logger"
	"github.com/sherut/sherut/core/shell"
)

// Gateway is the HTTP server that maps inbound requests to shell commands.
// All of its fields are set at construction time and read-only afterwards;
// request handlers share them without locking.
type Gateway struct {
	dialect      shell.Dialect
	headerFormat shell.Format
	queryFormat  shell.Format
	routes       *RouteTable
	events       *logger.Logger
	toClose      listCloser
	httpServer   *http.Server
}

// NewGateway builds a gateway from the configuration: it resolves the shell
// dialect and formats, normalizes the route table, and registers every route
// on the router.
func NewGateway(cfg *config.Configuration) (*Gateway, error) {
	var toClose listCloser

	dialect := shell.Dialect(cfg.Shell)
	if dialect == "" {
		dialect = shell.DetectDefault()
	}

	headerFormat, err := resolveFormat(cfg.HeaderFormat, dialect, "--header-format")
	if err != nil {
		return nil, err
	}
	queryFormat, err := resolveFormat(cfg.QueryFormat, dialect, "--query-format")
	if err != nil {
		return nil, err
	}

	logger.Infof("Using shell: %s", dialect.Executable())
	logger.Infof("Header format: %s", headerFormat)
	logger.Infof("Query format: %s", queryFormat)

	entries, err := ParseRoutes(routeSpecs(cfg))
	if err != nil {
		return nil, err
	}

	events := logger.NewNopLogRecorder()
	if fd, err := cfg.OpenRequestLog(); err != nil {
		logger.Warnf("Request log disabled: %v", err)
	} else {
		toClose = append(toClose, fd)
		events = logger.NewJSONLinesLogRecorder(fd)
	}

	gateway := &Gateway{
		dialect:      dialect,
		headerFormat: headerFormat,
		queryFormat:  queryFormat,
		routes:       NewRouteTable(entries),
		events:       events,
		toClose:      toClose,
	}

	router := mux.NewRouter()
	for _, entry := range entries {
		route := router.HandleFunc(entry.Path, gateway.handle)
		if entry.Method != "ANY" {
			route.Methods(entry.Method)
		}
	}
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	gateway.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return gateway, nil
}

// resolveFormat parses a configured format name, deriving the default from
// the dialect when unset. A configured assoc format on a dialect without
// associative arrays is kept but warned about; the preamble is silently
// skipped per request.
func resolveFormat(name string, dialect shell.Dialect, flag string) (shell.Format, error) {
	if name == "" {
		return shell.DefaultFormat(dialect), nil
	}
	format, err := shell.ParseFormat(name)
	if err != nil {
		return "", err
	}
	if format == shell.FormatAssoc && !dialect.SupportsAssocArrays() {
		logger.Warnf("Shell %q does not support associative arrays. Consider using %s json",
			dialect.Executable(), flag)
	}
	return format, nil
}

func routeSpecs(cfg *config.Configuration) []RouteSpec {
	specs := make([]RouteSpec, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		specs = append(specs, RouteSpec{Spec: r.Route, Command: r.Command})
	}
	return specs
}

// Routes returns the normalized route table entries.
func (g *Gateway) Routes() []RouteEntry {
	return g.routes.Entries()
}

// Handler returns the gateway's HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

func (g *Gateway) ListenAndServe() error {
	logger.Infof("Server running on http://0.0.0.0%s", g.httpServer.Addr)
	return g.httpServer.ListenAndServe()
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	defer g.Close()
	return g.httpServer.Shutdown(ctx)
}

func (g *Gateway) Close() error {
	return g.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, c := range lc {
		if err := c.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
