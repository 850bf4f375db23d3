// Package preview serves cloned pages to a local browser inside a sandboxed
// iframe, sized to a simulated device viewport.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/render"
)

// ErrNothingToPreview is returned when publishing an empty document.
var ErrNothingToPreview = errors.New("nothing to preview")

// Config configures a preview server.
type Config struct {
	Host   string
	Port   int // 0 picks a free port
	Logger logrus.FieldLogger
}

// Server holds published pages and serves them over HTTP.
type Server struct {
	host   string
	port   int
	logger logrus.FieldLogger
	engine *gin.Engine

	mu    sync.RWMutex
	pages map[string]string

	startMu sync.Mutex
	srv     *http.Server
	baseURL string
}

// NewServer creates a preview server. Nothing listens until Start.
func NewServer(cfg Config) *Server {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	s := &Server{
		host:   cfg.Host,
		port:   cfg.Port,
		logger: cfg.Logger.WithField("component", "preview"),
		pages:  map[string]string{},
	}
	s.engine = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	p := router.Group("/preview/:token")
	{
		p.GET("", s.handlePage)
		p.GET("/code", s.handleCode)
		p.GET("/download", s.handleDownload)
	}

	return router
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins listening in the background. Calling it again is a no-op.
func (s *Server) Start() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.srv != nil {
		return nil
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("preview port %d is already in use", s.port)
		}
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port
	s.baseURL = fmt.Sprintf("http://%s", net.JoinHostPort(s.host, strconv.Itoa(actualPort)))
	s.srv = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srv := s.srv
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("preview server stopped")
		}
	}()

	s.logger.WithField("addr", s.baseURL).Info("preview server listening")
	return nil
}

// Shutdown stops the server if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.startMu.Lock()
	srv := s.srv
	s.srv = nil
	s.startMu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// BaseURL returns the address the server listens on, empty before Start.
func (s *Server) BaseURL() string {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	return s.baseURL
}

// Publish stores html under a fresh token. The caller must Release the
// returned handle once the page is no longer shown.
func (s *Server) Publish(html string) (*Handle, error) {
	if html == "" {
		return nil, ErrNothingToPreview
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.pages[token] = html
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"token": token, "bytes": len(html)}).Debug("preview published")
	return &Handle{server: s, token: token}, nil
}

// Published returns the number of pages currently served.
func (s *Server) Published() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

func (s *Server) revoke(token string) {
	s.mu.Lock()
	delete(s.pages, token)
	s.mu.Unlock()

	s.logger.WithField("token", token).Debug("preview released")
}

func (s *Server) lookup(c *gin.Context) (string, bool) {
	s.mu.RLock()
	html, ok := s.pages[c.Param("token")]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "preview not found"})
		return "", false
	}
	return html, true
}

func (s *Server) handlePage(c *gin.Context) {
	mode, err := render.ParseViewMode(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	html, ok := s.lookup(c)
	if !ok {
		return
	}

	body, err := renderPage(c.Param("token"), mode, html)
	if err != nil {
		s.logger.WithError(err).Error("could not render preview page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (s *Server) handleCode(c *gin.Context) {
	html, ok := s.lookup(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, "%s", render.FormatHTML(html))
}

func (s *Server) handleDownload(c *gin.Context) {
	html, ok := s.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.DownloadFileName))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Handle is a published page. Release revokes it.
type Handle struct {
	server *Server
	token  string
	once   sync.Once
}

// Token returns the page token.
func (h *Handle) Token() string {
	return h.token
}

// URL returns the browser address of the page in the given view mode.
func (h *Handle) URL(mode render.ViewMode) string {
	return pageURL(h.server.BaseURL(), h.token, mode)
}

// Release revokes the page. It is safe to call more than once.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.server.revoke(h.token)
	})
}
