package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"blogd/internal/auth"
	"blogd/internal/blobstore"
	"blogd/internal/store"
)

const (
	allowRemoteEnvKey = "BLOGD_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	loginMaxFailures = 5
	loginWindow      = time.Minute
	loginBlockedFor  = 5 * time.Minute
)

// UploadOptions bounds multipart image uploads.
type UploadOptions struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps HTTP handlers for the blogd API.
type Server struct {
	addr         string
	store        *store.Store
	blobs        blobstore.Store
	tokens       *auth.TokenIssuer
	users        *UserService
	posts        *PostService
	logger       *slog.Logger
	loginLimiter *loginRateLimiter
	uploads      UploadOptions
}

// New creates a new server instance.
func New(addr string, st *store.Store, blobs blobstore.Store, tokens *auth.TokenIssuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:         addr,
		store:        st,
		blobs:        blobs,
		tokens:       tokens,
		users:        NewUserService(st, tokens),
		posts:        NewPostService(st),
		logger:       logger,
		loginLimiter: newLoginRateLimiter(loginMaxFailures, loginWindow, loginBlockedFor),
		uploads: UploadOptions{
			MaxUploadBytes:     10 << 20,
			MultipartMaxMemory: 8 << 20,
		},
	}
}

// ConfigureUploadOptions overrides the default upload limits.
func (s *Server) ConfigureUploadOptions(opts UploadOptions) {
	if opts.MaxUploadBytes > 0 {
		s.uploads.MaxUploadBytes = opts.MaxUploadBytes
	}
	if opts.MultipartMaxMemory > 0 {
		s.uploads.MultipartMaxMemory = opts.MultipartMaxMemory
	}
}

// Handler returns the fully wired HTTP handler, useful for embedding the
// API into another server or a test harness.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
