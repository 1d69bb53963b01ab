// Package server exposes mesh generation over HTTP.
package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"geodome/internal/config"
	"geodome/internal/export"
	"geodome/internal/geodesic"
	"geodome/internal/logger"
	"geodome/internal/store"
)

// MaxFrequency bounds the frequency a request may ask for; a mesh grows with its square.
const MaxFrequency = 64

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-ID"

// CacheHeader is "hit" or "miss" on /mesh responses when a cache is attached.
const CacheHeader = "X-Cache"

// Server serves meshes built from query parameters, with defaults from a Config.
type Server struct {
	cfg    config.Config
	log    *logger.Logger
	engine *gin.Engine
	cache  *store.Cache
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StrutsResponse is the body of GET /struts.
type StrutsResponse struct {
	Radius    float64          `json:"radius"`
	Frequency int              `json:"frequency"`
	Struts    []geodesic.Strut `json:"struts"`
}

// New builds the router. Logging goes to log.
func New(cfg config.Config, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{cfg: cfg, log: log, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestID, s.accessLog)
	s.routes(s.engine)
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.healthz)
	r.GET("/formats", s.formats)
	r.GET("/mesh", s.mesh)
	r.GET("/stats", s.stats)
	r.GET("/struts", s.struts)
	r.GET("/cache", s.cacheStats)
	r.DELETE("/cache", s.cacheClear)
}

// WithCache makes /mesh serve repeated requests from c. A nil c disables caching.
func (s *Server) WithCache(c *store.Cache) *Server {
	s.cache = c
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr, or on the configured address when addr is empty.
func (s *Server) Run(addr string) error {
	if addr == "" {
		addr = s.cfg.Server.Addr
	}
	s.log.Logf("server: listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) requestID(c *gin.Context) {
	id := uuid.New().String()
	c.Set("request_id", id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Logf("server: %s %s %d %s id=%s", c.Request.Method, c.Request.URL.RequestURI(),
		c.Writer.Status(), time.Since(start).Round(time.Microsecond), c.GetString("request_id"))
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": export.Formats()})
}

// options parses radius and frequency from the query, falling back to the config. On
// failure it has already written the error response.
func (s *Server) options(c *gin.Context) (geodesic.Options, bool) {
	opts := s.cfg.Options()
	if v := c.Query("radius"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "radius: " + err.Error()})
			return opts, false
		}
		opts.Radius = r
	}
	if v := c.Query("frequency"); v != "" {
		f, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "frequency: " + err.Error()})
			return opts, false
		}
		opts.Frequency = f
	}
	if opts.Frequency > MaxFrequency {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "frequency: above " + strconv.Itoa(MaxFrequency)})
		return opts, false
	}
	return opts, true
}

// build generates the mesh for the query. On failure it has already written the error
// response.
func (s *Server) build(c *gin.Context) (*geodesic.Mesh, bool) {
	opts, ok := s.options(c)
	if !ok {
		return nil, false
	}
	return s.generate(c, opts)
}

func (s *Server) generate(c *gin.Context, opts geodesic.Options) (*geodesic.Mesh, bool) {
	m, err := geodesic.Build(opts)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return m, true
}

// fail maps err onto a status: bad input is 400, anything else 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, geodesic.ErrInvalidArgument) || errors.Is(err, export.ErrUnknownFormat) {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (s *Server) mesh(c *gin.Context) {
	name := c.DefaultQuery("format", "json")
	contentType, err := export.ContentType(name)
	if err != nil {
		s.fail(c, err)
		return
	}
	opts, ok := s.options(c)
	if !ok {
		return
	}
	key := store.Key(opts, name)
	if s.cache != nil {
		data, ct, found, err := s.cache.Get(key)
		if err != nil {
			s.log.Logf("server: cache get: %v", err)
		} else if found {
			c.Header(CacheHeader, "hit")
			sendMesh(c, name, ct, data)
			return
		}
	}

	m, ok := s.generate(c, opts)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, name, m); err != nil {
		s.fail(c, err)
		return
	}
	if s.cache != nil {
		if err := s.cache.Put(key, name, contentType, buf.Bytes()); err != nil {
			s.log.Logf("server: cache put: %v", err)
		}
		c.Header(CacheHeader, "miss")
	}
	sendMesh(c, name, contentType, buf.Bytes())
}

// sendMesh writes an encoded mesh; formats other than json are sent as attachments.
func sendMesh(c *gin.Context, name, contentType string, data []byte) {
	if name != "json" {
		ext, _ := export.Extension(name)
		c.Header("Content-Disposition", `attachment; filename="geodome`+ext+`"`)
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) cacheStats(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "cache disabled"})
		return
	}
	st, err := s.cache.Stats()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) cacheClear(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "cache disabled"})
		return
	}
	if err := s.cache.Clear(); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	m, ok := s.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.Stats())
}

func (s *Server) struts(c *gin.Context) {
	digits := 6
	if v := c.Query("digits"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 || d > 15 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "digits: want an integer in 0..15"})
			return
		}
		digits = d
	}
	m, ok := s.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StrutsResponse{Radius: m.Radius, Frequency: m.Frequency, Struts: m.Struts(digits)})
}
