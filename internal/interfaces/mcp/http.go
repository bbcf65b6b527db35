package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	mcpfw "github.com/felixgeelhaar/mcp-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

const (
	maxToolArgs     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Handler returns the operations surface served next to the MCP
// transport: health, status, metrics, and a plain JSON bridge onto the
// facade under /api. extraRoutes may mount more.
func (s *Server) Handler(extraRoutes func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"server":  s.name,
			"version": s.version,
		})
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.checkStatus.Execute())
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"name":         s.name,
				"version":      s.version,
				"instructions": Instructions,
			})
		})
		r.Get("/resources", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"resources": s.ListResources(req.Context())})
		})
		r.Get("/resource-templates", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"resourceTemplates": s.ListResourceTemplates(req.Context())})
		})
		r.Get("/resource", func(w http.ResponseWriter, req *http.Request) {
			content, err := s.ReadResource(req.Context(), req.URL.Query().Get("uri"))
			if err != nil {
				writeFailure(w, err)
				return
			}
			w.Header().Set("Content-Type", content.MimeType)
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, content.Text)
		})
		r.Get("/tools", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"tools": s.ListTools(req.Context())})
		})
		r.Post("/tools/{name}", func(w http.ResponseWriter, req *http.Request) {
			args, err := io.ReadAll(io.LimitReader(req.Body, maxToolArgs))
			if err != nil {
				writeFailure(w, failure.InvalidParams("arguments", nil, "could not read request body"))
				return
			}
			result, err := s.CallTool(req.Context(), chi.URLParam(req, "name"), args)
			if err != nil {
				writeFailure(w, err)
				return
			}
			w.Header().Set("Content-Type", mimeJSON)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(result)
		})
	})

	if extraRoutes != nil {
		extraRoutes(r)
	}
	return r
}

// ServeHTTP serves MCP over mcp-go's HTTP transport on addr (JSON-RPC on
// POST /mcp, events on /mcp/sse) and, when opsAddr is not empty, Handler
// on opsAddr. Both stop when ctx is cancelled; either failing stops the
// other.
func (s *Server) ServeHTTP(ctx context.Context, addr, opsAddr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("mcp http transport listening", "addr", addr)
		httpOpts := []mcpfw.HTTPOption{mcpfw.WithShutdownTimeout(shutdownTimeout)}
		err := mcpfw.ServeHTTPWithMiddleware(gctx, s.inner, addr, httpOpts, s.serveOptions()...)
		if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
			return nil
		}
		return err
	})
	if opsAddr != "" {
		g.Go(func() error {
			return s.serveOps(gctx, opsAddr)
		})
	}
	return g.Wait()
}

func (s *Server) serveOps(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("ops server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// HTTPStatus maps a failure kind onto an HTTP status code.
func HTTPStatus(kind failure.Kind) int {
	switch kind {
	case failure.KindInvalidURI, failure.KindInvalidParams:
		return http.StatusBadRequest
	case failure.KindResourceNotFound:
		return http.StatusNotFound
	case failure.KindNotConfigured:
		return http.StatusServiceUnavailable
	case failure.KindAPIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	fe, ok := failure.As(err)
	if !ok {
		fe = failure.APIError("Request failed", nil)
	}
	w.Header().Set("Content-Type", mimeJSON)
	w.WriteHeader(HTTPStatus(fe.Kind))
	_, _ = w.Write(fe.JSON())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", mimeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
