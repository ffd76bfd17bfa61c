// Package server exposes invoice generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crylonblue/invoice-api/internal/archive"
	"github.com/crylonblue/invoice-api/internal/generator"
	"github.com/crylonblue/invoice-api/internal/model"
)

// generateTimeout bounds one generation run, logo fetch included.
const generateTimeout = 30 * time.Second

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	generator *generator.Generator
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...generator.Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:    config,
		router:    router,
		generator: generator.New(archive.NewAttacher(), opts...),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoice", s.handleInvoice)
		v1.POST("/xrechnung", s.handleXRechnung)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleInvoice(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generateTimeout)
	defer cancel()

	pdf, err := s.generator.PDF(ctx, inv)
	if err != nil {
		s.renderGenerationFailure(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "rechnung-"+inv.InvoiceNumber+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) handleXRechnung(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generateTimeout)
	defer cancel()

	xml, err := s.generator.XML(ctx, inv)
	if err != nil {
		s.renderGenerationFailure(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "xrechnung-"+inv.InvoiceNumber+".xml"))
	c.Data(http.StatusOK, "application/xml", []byte(xml))
}

// bindInvoice parses and validates the request body. On failure it writes
// the error response and reports false.
func (s *Server) bindInvoice(c *gin.Context) (*model.Invoice, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
		return nil, false
	}

	var inv model.Invoice
	if err := json.Unmarshal(body, &inv); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
		return nil, false
	}

	inv.ApplyDefaults()
	if errs := inv.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ValidationResponse{
			Error:   "Validation failed",
			Details: errs,
		})
		return nil, false
	}

	return &inv, true
}

// renderGenerationFailure maps internal faults to an opaque 500; stage
// details stay out of the response.
func (s *Server) renderGenerationFailure(c *gin.Context, err error) {
	var genErr *model.GenerationError
	if errors.As(err, &genErr) && s.config.Debug {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal server error",
			Details: genErr.Stage,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
