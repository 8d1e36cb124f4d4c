package challenge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/core/server"
)

// DefaultPort is the port the CA connects to for HTTP file validation.
const DefaultPort = 80

// ValidationPath derives the request path the CA will fetch from the
// validation URL by stripping the scheme and domain prefix.
// URLs for other hosts are returned unchanged apart from a leading slash.
func ValidationPath(fileURL, domain string) string {
	p := fileURL
	for _, prefix := range []string{"http://" + domain, "https://" + domain} {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			p = rest
			break
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Server answers the CA's validation request with the expected file content.
// It serves exactly one path; everything else is 404.
type Server struct {
	path    string
	body    string
	logger  *slog.Logger
	srv     *server.Server
	srvOpts []server.Option
}

// Option configures a challenge Server.
type Option func(*Server)

// WithLogger sets the logger for the challenge server and its HTTP server.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServerOptions passes options to the underlying HTTP server.
func WithServerOptions(opts ...server.Option) Option {
	return func(s *Server) {
		s.srvOpts = append(s.srvOpts, opts...)
	}
}

// New creates a challenge server bound to addr (e.g. ":80") that serves
// content, joined by "\n", at path.
func New(addr, path string, content []string, opts ...Option) *Server {
	s := &Server{
		path:   path,
		body:   strings.Join(content, "\n"),
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	srvOpts := append([]server.Option{server.WithLogger(s.logger)}, s.srvOpts...)
	s.srv = server.New(addr, srvOpts...)
	return s
}

// Addr returns the listener address once started.
func (s *Server) Addr() string {
	return s.srv.Addr()
}

// Path returns the served validation path.
func (s *Server) Path() string {
	return s.path
}

// Start binds the listener and serves in the background. The port accepts
// connections once Start returns nil.
func (s *Server) Start(ctx context.Context) error {
	if err := s.srv.Start(ctx, s.Handler()); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "challenge server started",
		logger.Component("challenge"),
		logger.Addr(s.srv.Addr()),
		logger.Path(s.path),
	)
	return nil
}

// Stop shuts the server down and releases the port. Safe to call repeatedly.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// Handler returns the HTTP handler serving the validation file.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != s.path {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		s.logger.DebugContext(r.Context(), "validation file requested",
			logger.Component("challenge"),
			logger.Method(r.Method),
			slog.String("remote_addr", r.RemoteAddr),
		)

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", strconv.Itoa(len(s.body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, s.body)
		}
	})
}
