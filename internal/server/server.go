package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	money "github.com/rezonia/invoice-finalizer/internal/decimal"
	"github.com/rezonia/invoice-finalizer/internal/finalizer"
	"github.com/rezonia/invoice-finalizer/internal/logger"
	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/store"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	RateLimit      float64 // requests per second per client on /api/v1, 0 disables
	RateBurst      int
	Debug          bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	finalizer *finalizer.Finalizer
	repo      store.Repository
	log       *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger, slog.Default() otherwise
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates a new API server
func NewServer(config *Config, fin *finalizer.Finalizer, repo store.Repository, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    config,
		router:    gin.New(),
		finalizer: fin,
		repo:      repo,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.log))
	s.router.Use(corsMiddleware(config.AllowedOrigins))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	if s.config.RateLimit > 0 {
		v1.Use(newClientRateLimiter(s.config.RateLimit, s.config.RateBurst).middleware())
	}
	{
		// Invoice endpoints
		v1.POST("/invoices/finalize", s.handleFinalize)
		v1.GET("/invoices", s.handleListInvoices)
		v1.GET("/invoices/:number", s.handleGetInvoice)

		// QR payload endpoints
		v1.POST("/qr/encode", s.handleEncodeQR)
		v1.POST("/qr/decode", s.handleDecodeQR)
	}
}

// Run starts the HTTP server and shuts it down when ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
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

func (s *Server) handleFinalize(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	var draft finalizer.Draft
	if err := json.Unmarshal(body, &draft); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid draft", Details: err.Error()})
		return
	}

	ctx := c.Request.Context()

	inv, err := s.finalizer.Finalize(draft)
	if err != nil {
		s.log.WarnContext(ctx, "finalize rejected", "error", err)
		status, code := codecStatus(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	ctx = logger.WithInvoiceNumber(ctx, inv.Number)

	if err := s.repo.Save(ctx, inv); err != nil {
		if errors.Is(err, store.ErrDuplicateNumber) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Details: inv.Number})
			return
		}
		s.log.ErrorContext(ctx, "failed to save invoice", "error", err)
		s.internalError(c, "failed to save invoice")
		return
	}

	s.log.InfoContext(ctx, "invoice finalized", "gross_total", money.FormatAmount(inv.Totals.Gross()))

	c.JSON(http.StatusCreated, s.invoiceResponse(ctx, inv))
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	number := c.Param("number")

	inv, err := s.repo.GetByNumber(ctx, number)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found", Details: number})
		return
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load invoice", "number", number, "error", err)
		s.internalError(c, "failed to load invoice")
		return
	}

	c.JSON(http.StatusOK, s.invoiceResponse(logger.WithInvoiceNumber(ctx, inv.Number), inv))
}

func (s *Server) handleListInvoices(c *gin.Context) {
	params := store.ListParams{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}.Normalize()

	invoices, err := s.repo.List(c.Request.Context(), params)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "failed to list invoices", "error", err)
		s.internalError(c, "failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, InvoiceListResponse{
		Invoices: invoices,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
}

func (s *Server) handleEncodeQR(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	payload := tlv.Payload{
		SellerName: req.SellerName,
		TaxID:      req.TaxID,
		Timestamp:  req.Timestamp,
		Total:      req.Total,
		Tax:        req.Tax,
	}

	encoded, err := tlv.Encode(payload)
	if err != nil {
		status, code := codecStatus(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	fields := make([]QRField, 0, 5)
	for _, f := range payload.Fields() {
		fields = append(fields, QRField{Tag: int(f.Tag), Name: f.Tag.String(), Value: f.Value})
	}

	c.JSON(http.StatusOK, QRResponse{QRCode: encoded, Fields: fields})
}

func (s *Server) handleDecodeQR(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	fields, err := tlv.Decode(req.QRCode)
	if err != nil {
		status, code := codecStatus(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.JSON(http.StatusOK, QRResponse{QRCode: req.QRCode, Fields: toQRFields(fields)})
}

// invoiceResponse attaches decoded QR fields; an unreadable payload becomes a warning
func (s *Server) invoiceResponse(ctx context.Context, inv *model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		Invoice: inv,
		Gross:   money.FormatAmount(inv.Totals.Gross()),
	}

	fields, err := s.finalizer.ReadQR(inv)
	if err != nil {
		s.log.WarnContext(ctx, "stored QR payload unreadable", "error", err)
		resp.Warnings = append(resp.Warnings, "QR payload could not be decoded: "+err.Error())
		return resp
	}

	resp.QRFields = toQRFields(fields)
	return resp
}

// Helper functions

// internalError responds 500 with the request ID so the failure can be found in the logs
func (s *Server) internalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     msg,
		RequestID: logger.RequestIDFromCtx(c.Request.Context()),
	})
}

func codecStatus(err error) (int, string) {
	var codecErr *tlv.CodecError
	if errors.As(err, &codecErr) {
		return http.StatusUnprocessableEntity, codecErr.Code
	}
	return http.StatusInternalServerError, ""
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
