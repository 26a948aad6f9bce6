package ingress

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopspring/decimal"

	"github.com/iaros/repricer-engine/internal/config"
	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/metrics"
	"github.com/iaros/repricer-engine/internal/normalizer"
	"github.com/iaros/repricer-engine/internal/store"
)

// Server is the webhook/manual/admin HTTP surface of C8, built on gin the
// way order_service/main.go assembles its router.
type Server struct {
	cfg      *config.Config
	pipeline *Pipeline
	store    store.Store
	upgrader websocket.Upgrader
	started  time.Time
}

func NewServer(cfg *config.Config, pipeline *Pipeline, s store.Store) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		store:    s,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		started:  time.Now(),
	}
}

func (s *Server) HTTPServer() *http.Server {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.corsMiddleware())
	router.Use(s.loggingMiddleware())

	router.GET("/health", s.handleHealth)
	router.GET("/stats", s.handleStats)
	router.GET("/stats/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/stats/stream", s.handleStatsStream)

	pricing := router.Group("/pricing")
	if s.cfg.RequireAuth {
		pricing.Use(s.authMiddleware())
	}
	{
		pricing.POST("/manual", s.handleManualReprice)
		pricing.POST("/reset", s.handleReset)
		pricing.DELETE("/calculated/:seller_id/:sku", s.handleClearCalculated)
		pricing.POST("/seller/:seller_id/pause", s.handleSellerPause)
		pricing.POST("/seller/:seller_id/resume", s.handleSellerResume)
	}

	walmart := router.Group("/walmart")
	{
		walmart.POST("/webhook", s.handleWalmartWebhook)
	}

	return &http.Server{
		Addr:         s.cfg.WebhookBindAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Global().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// authMiddleware verifies a bearer JWT against the configured public key,
// the supplemented manual-endpoint protection SPEC_FULL.md's DOMAIN STACK
// table assigns to golang-jwt/jwt/v5.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 8 || header[:7] != "Bearer " {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed", "message": "missing bearer token"})
			return
		}
		token := header[7:]
		_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(s.cfg.JWTPublicKeyPEM)); err == nil {
				return key, nil
			}
			// Falls back to treating the configured value as an HMAC secret,
			// for dev/test environments that don't carry a real RSA key pair.
			return []byte(s.cfg.JWTPublicKeyPEM), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed", "message": "invalid token"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "repricer-engine",
	})
}

func (s *Server) handleStats(c *gin.Context) {
	snapshot := metrics.StatsSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"total_processed":            snapshot.TotalProcessed,
		"successful":                 snapshot.Successful,
		"failed":                     snapshot.Failed,
		"average_processing_time_ms": snapshot.AverageProcessingTimeMS,
		"last_reset":                 snapshot.LastReset,
	})
}

// handleStatsStream pushes a periodic stats snapshot over a websocket, the
// live-dashboard enrichment SPEC_FULL.md assigns to gorilla/websocket.
func (s *Server) handleStatsStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			snapshot := gin.H{"timestamp": time.Now().UTC(), "uptime": time.Since(s.started).String()}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}

// handleWalmartWebhook accepts a Walmart offer-change payload and processes
// it synchronously, returning 202 once persisted or skipped, per spec.md §6.
func (s *Server) handleWalmartWebhook(c *gin.Context) {
	var payload normalizer.WalmartWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("invalid walmart payload", err)))
		return
	}
	if err := payload.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.(*rerrors.RepricerError)))
		return
	}

	oc := normalizer.ParseWalmartWebhook(payload)
	result := s.pipeline.Process(c.Request.Context(), oc)
	logging.Global().LogIngress("walmart_webhook", outcomeLabel(result.Outcome))
	c.JSON(http.StatusAccepted, resultBody(result))
}

// handleManualReprice lets an operator force a single product to a specific
// price outside of the automatic Strategy Engine, per spec.md §4.8/§6: the
// operator supplies new_price directly, it is validated against the
// product's [min_price, max_price], and on success it is written straight
// through the Persister rather than re-entering eligibility/strategy.
func (s *Server) handleManualReprice(c *gin.Context) {
	var req struct {
		ASIN     string   `json:"asin" binding:"required"`
		SellerID string   `json:"seller_id" binding:"required"`
		SKU      string   `json:"sku" binding:"required"`
		NewPrice *float64 `json:"new_price"`
		Reason   string   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("invalid manual reprice request", err)))
		return
	}
	if req.NewPrice == nil || *req.NewPrice <= 0 {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("Invalid new_price", nil)))
		return
	}

	product, err := s.store.GetProduct(c.Request.Context(), req.ASIN, req.SellerID, req.SKU)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Product not found"})
		return
	}

	newPrice := decimal.NewFromFloat(*req.NewPrice)
	if product.MinPrice != nil && newPrice.LessThan(*product.MinPrice) {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("Price below minimum price", nil)))
		return
	}
	if product.MaxPrice != nil && newPrice.GreaterThan(*product.MaxPrice) {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("Price above maximum price", nil)))
		return
	}

	oldPrice := product.ListedPrice
	cp, err := s.pipeline.Persister.Save(c.Request.Context(), product, "ManualOverride", product.StrategyID, newPrice, decimal.Zero, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(rerrors.Transient("failed to persist manual price", err)))
		return
	}
	s.pipeline.Events.Publish(cp)

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"new_price":  cp.NewPrice,
		"old_price":  oldPrice,
		"updated_at": cp.CalculatedAt,
		"reason":     req.Reason,
	})
}

// handleReset writes a product's default_price as its new listed price,
// per spec.md §6's price-reset endpoint; it bypasses the change-only
// contract the way C9's sweep does, since a reset is an explicit override.
func (s *Server) handleReset(c *gin.Context) {
	var req struct {
		ASIN     string `json:"asin" binding:"required"`
		SellerID string `json:"seller_id" binding:"required"`
		SKU      string `json:"sku" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(rerrors.Malformed("invalid reset request", err)))
		return
	}

	product, err := s.store.GetProduct(c.Request.Context(), req.ASIN, req.SellerID, req.SKU)
	if err != nil || product == nil || product.DefaultPrice == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Product not found"})
		return
	}

	cp, err := s.pipeline.Persister.Save(c.Request.Context(), product, "ManualReset", product.StrategyID, *product.DefaultPrice, *product.DefaultPrice, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(rerrors.Transient("failed to persist reset price", err)))
		return
	}
	s.pipeline.Events.Publish(cp)

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"new_price": cp.NewPrice,
		"reset_at":  cp.CalculatedAt,
		"reason":    req.Reason,
	})
}

// handleClearCalculated drops a stale calculated price before its TTL,
// SPEC_FULL.md's Supplemented Feature #4.
func (s *Server) handleClearCalculated(c *gin.Context) {
	sellerID := c.Param("seller_id")
	sku := c.Param("sku")
	if err := s.store.ClearCalculatedPrice(c.Request.Context(), sellerID, sku); err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(rerrors.Transient("failed to clear calculated price", err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// handleSellerPause/handleSellerResume are the bulk admin endpoints of
// SPEC_FULL.md's Supplemented Feature #3, pausing every product under a
// seller at once rather than one ASIN at a time.
func (s *Server) handleSellerPause(c *gin.Context) {
	s.bulkPause(c, true)
}

func (s *Server) handleSellerResume(c *gin.Context) {
	s.bulkPause(c, false)
}

func (s *Server) bulkPause(c *gin.Context, paused bool) {
	sellerID := c.Param("seller_id")
	keys, err := s.store.ProductsForSeller(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(rerrors.Transient("failed to enumerate seller products", err)))
		return
	}
	var failures int
	for _, k := range keys {
		if err := s.store.SetPaused(c.Request.Context(), sellerID, k.ASIN, paused); err != nil {
			failures++
		}
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(keys) - failures, "failed": failures})
}

func resultBody(r Result) gin.H {
	if r.Tiers != nil {
		tiers := gin.H{}
		for tier, tr := range r.Tiers {
			tiers[tier] = resultBody(tr)
		}
		return gin.H{"status": outcomeLabel(r.Outcome), "tiers": tiers}
	}
	if r.Outcome.IsErrored() {
		return errorBody(r.Outcome.Err)
	}
	if r.Outcome.IsSkipped() {
		return gin.H{"status": "skipped", "reason": r.Outcome.Reason}
	}
	body := gin.H{"status": "priced"}
	if r.Price != nil {
		body["new_price"] = r.Price.NewPrice.String()
		body["old_price"] = r.Price.OldPrice.String()
		body["strategy_used"] = r.Price.StrategyUsed
	}
	return body
}

func errorBody(err *rerrors.RepricerError) gin.H {
	return gin.H{
		"error":      string(err.Kind),
		"message":    err.Reason,
		"request_id": err.ID,
		"timestamp":  err.Timestamp,
	}
}

func outcomeLabel(o rerrors.Outcome) string {
	switch {
	case o.IsErrored():
		return "errored"
	case o.IsSkipped():
		return "skipped:" + o.Reason
	default:
		return "priced"
	}
}
