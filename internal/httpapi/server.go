// Package httpapi serves the move checker over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/oh-my-chess/internal/movecheck"
	"github.com/park285/oh-my-chess/internal/msgcat"
	"github.com/park285/oh-my-chess/internal/render"
	"github.com/park285/oh-my-chess/pkg/movedto"
)

const (
	PathValidate = "/v1/moves/validate"
	PathCheck    = "/v1/paths/check"
	PathRender   = "/v1/boards/render"
	PathRecent   = "/v1/checks/recent"
	PathHealth   = "/healthz"
)

type Options struct {
	MaxBodyBytes   int
	SquareSize     int
	RecentLimit    int
	RequestTimeout time.Duration
}

type Server struct {
	svc      *movecheck.Service
	renderer *render.Renderer
	catalog  *msgcat.Catalog
	logger   *zap.Logger
	opts     Options

	srv *fasthttp.Server
}

// New wires the handlers. catalog and logger may be nil.
func New(svc *movecheck.Service, renderer *render.Renderer, catalog *msgcat.Catalog, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if opts.SquareSize <= 0 {
		opts.SquareSize = render.DefaultSquareSize
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = movecheck.DefaultRecentLimit
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	s := &Server{svc: svc, renderer: renderer, catalog: catalog, logger: logger, opts: opts}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "oh-my-chess",
		MaxRequestBodySize: opts.MaxBodyBytes,
		ReadTimeout:        opts.RequestTimeout,
		WriteTimeout:       opts.RequestTimeout,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handler returns the routed handler with logging and panic recovery.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withLogging(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	if path == PathHealth {
		if !ctx.IsGet() && !ctx.IsHead() {
			s.methodNotAllowed(ctx)
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
		return
	}
	if path == PathRecent {
		if !ctx.IsGet() {
			s.methodNotAllowed(ctx)
			return
		}
		s.handleRecent(ctx)
		return
	}

	var h fasthttp.RequestHandler
	switch path {
	case PathValidate:
		h = s.handleValidate
	case PathCheck:
		h = s.handlePath
	case PathRender:
		h = s.handleRender
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, movedto.DomainError{Code: movedto.CodeNotFound, Message: "no route for " + path})
		return
	}
	if !ctx.IsPost() {
		s.methodNotAllowed(ctx)
		return
	}
	if len(ctx.PostBody()) > s.opts.MaxBodyBytes {
		s.writeError(ctx, fasthttp.StatusRequestEntityTooLarge, movedto.DomainError{Code: movedto.CodeTooLarge, Message: "request body too large"})
		return
	}
	h(ctx)
}

func (s *Server) withLogging(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("http_panic", zap.Any("panic", r), zap.ByteString("path", ctx.Path()))
				s.writeError(ctx, fasthttp.StatusInternalServerError, movedto.DomainError{Code: movedto.CodeInternal, Message: "internal error"})
			}
			s.logger.Info("http_request",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		next(ctx)
	}
}

func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opts.RequestTimeout)
}

func (s *Server) methodNotAllowed(ctx *fasthttp.RequestCtx) {
	s.writeError(ctx, fasthttp.StatusMethodNotAllowed, movedto.DomainError{Code: movedto.CodeBadRequest, Message: "method not allowed"})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("http_encode_error", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, e movedto.DomainError) {
	s.writeJSON(ctx, status, movedto.ErrorResponse{Error: e})
}

// fail maps err to a status: DomainErrors are client errors, anything else
// is internal.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	var de movedto.DomainError
	if errors.As(err, &de) {
		s.writeError(ctx, fasthttp.StatusBadRequest, de)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.writeError(ctx, fasthttp.StatusServiceUnavailable, movedto.DomainError{Code: movedto.CodeUnavailable, Message: err.Error(), Retryable: true})
		return
	}
	s.logger.Error("http_handler_error", zap.ByteString("path", ctx.Path()), zap.Error(err))
	s.writeError(ctx, fasthttp.StatusInternalServerError, movedto.DomainError{Code: movedto.CodeInternal, Message: "internal error"})
}
