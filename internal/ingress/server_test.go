package ingress

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/config"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	cfg := config.Default()
	cfg.WebhookBindAddr = ":0"
	pipeline := NewPipeline(s)
	return NewServer(cfg, pipeline, s), s
}

func TestHandleHealth_ReturnsOK(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.HTTPServer().Handler
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleHealth_ReturnsServiceName(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.HTTPServer().Handler
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "repricer-engine", body["service"])
}

func TestHandleStats_ReturnsProcessingCounters(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.HTTPServer().Handler
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "total_processed")
	assert.Contains(t, body, "successful")
	assert.Contains(t, body, "failed")
	assert.Contains(t, body, "average_processing_time_ms")
	assert.Contains(t, body, "last_reset")
}

func TestHandleWalmartWebhook_MissingFieldsReturns400(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.HTTPServer().Handler
	req := httptest.NewRequest(http.MethodPost, "/walmart/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWalmartWebhook_ValidPayloadProcessesAndReturns202(t *testing.T) {
	srv, s := newTestServer(t)
	strat := &model.Strategy{ID: "strat-1", SellerID: "S1", CompeteWith: model.CompeteLowestPrice, MinPriceRule: model.RuleDoNothing, MaxPriceRule: model.RuleDoNothing, Enabled: true}
	s.PutStrategy(strat)
	s.PutProduct(&model.Product{ASIN: "I1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20), Quantity: 3, Status: model.StatusActive, StrategyID: strat.ID})

	payload := map[string]interface{}{
		"itemId":   "I1",
		"sellerId": "S1",
		"offers": []map[string]interface{}{
			{"sellerId": "RIVAL", "price": 17.5},
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/walmart/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandleManualReprice_NotFoundProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]interface{}{"asin": "UNKNOWN", "seller_id": "S1", "sku": "SKU1", "new_price": 19.99})
	req := httptest.NewRequest(http.MethodPost, "/pricing/manual", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleManualReprice_InvalidNewPriceReturns400(t *testing.T) {
	srv, s := newTestServer(t)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20)})

	body, _ := json.Marshal(map[string]interface{}{"asin": "A1", "seller_id": "S1", "sku": "SKU1"})
	req := httptest.NewRequest(http.MethodPost, "/pricing/manual", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Invalid new_price", out["message"])
}

func TestHandleManualReprice_BelowMinimumReturns400(t *testing.T) {
	srv, s := newTestServer(t)
	min := decimal.NewFromInt(15)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20), MinPrice: &min})

	body, _ := json.Marshal(map[string]interface{}{"asin": "A1", "seller_id": "S1", "sku": "SKU1", "new_price": 10.00})
	req := httptest.NewRequest(http.MethodPost, "/pricing/manual", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Price below minimum price", out["message"])
}

func TestHandleManualReprice_WritesCalculatedPriceDirectly(t *testing.T) {
	srv, s := newTestServer(t)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20)})

	body, _ := json.Marshal(map[string]interface{}{"asin": "A1", "seller_id": "S1", "sku": "SKU1", "new_price": 18.50, "reason": "operator override"})
	req := httptest.NewRequest(http.MethodPost, "/pricing/manual", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "success", out["status"])

	cp := s.GetCalculatedPrice("S1", "SKU1")
	require.NotNil(t, cp)
	assert.True(t, cp.NewPrice.Equal(decimal.NewFromFloat(18.50)))
}

func TestHandleReset_PersistsDefaultPrice(t *testing.T) {
	srv, s := newTestServer(t)
	def := decimal.NewFromInt(25)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20), DefaultPrice: &def})

	body, _ := json.Marshal(map[string]string{"asin": "A1", "seller_id": "S1", "sku": "SKU1"})
	req := httptest.NewRequest(http.MethodPost, "/pricing/reset", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "success", out["status"])

	cp := s.GetCalculatedPrice("S1", "SKU1")
	require.NotNil(t, cp)
	assert.True(t, cp.NewPrice.Equal(def))
}

func TestHandleReset_NotFoundProductReturns404(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"asin": "UNKNOWN", "seller_id": "S1", "sku": "SKU1"})
	req := httptest.NewRequest(http.MethodPost, "/pricing/reset", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClearCalculated_Returns200(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodDelete, "/pricing/calculated/S1/SKU1", nil)
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBulkPause_PausesAllSellerProducts(t *testing.T) {
	srv, s := newTestServer(t)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1"})
	s.PutProduct(&model.Product{ASIN: "A2", SKU: "SKU2", SellerID: "S1"})

	req := httptest.NewRequest(http.MethodPost, "/pricing/seller/S1/pause", nil)
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	paused, err := s.IsPaused(context.Background(), "S1", "A1")
	require.NoError(t, err)
	assert.True(t, paused)
}

func TestAuthMiddleware_RejectsMissingBearer(t *testing.T) {
	s := store.NewMemoryStore()
	cfg := config.Default()
	cfg.RequireAuth = true
	cfg.JWTPublicKeyPEM = "test-secret"
	srv := NewServer(cfg, NewPipeline(s), s)

	body, _ := json.Marshal(map[string]string{"asin": "A1", "seller_id": "S1"})
	req := httptest.NewRequest(http.MethodPost, "/pricing/manual", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
