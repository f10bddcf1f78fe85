package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/piivault/piivault/internal/config"
	"github.com/piivault/piivault/internal/core"
	"github.com/piivault/piivault/internal/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.WebSocket.Enabled = false
	cfg.Processing.Seed = 42

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	s, err := New(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(func() { s.anonymizer.Close() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// TestHandleAnonymize tests the anonymize endpoint
func TestHandleAnonymize(t *testing.T) {
	s := newTestServer(t)

	t.Run("RoundTrip", func(t *testing.T) {
		text := "Contact alice@corp.com about the invoice."
		rec := doJSON(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{Text: text})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp anonymizeResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if strings.Contains(resp.AnonymizedText, "alice@corp.com") {
			t.Errorf("Original value leaked: %q", resp.AnonymizedText)
		}
		if resp.EntitiesMap.Len() == 0 {
			t.Fatal("Expected at least one detected entity")
		}

		// Feed the response straight back into deanonymize
		deanonRec := doJSON(t, s, http.MethodPost, "/v1/deanonymize", deanonymizeRequest{
			Text:        resp.AnonymizedText,
			EntitiesMap: resp.EntitiesMap,
		})
		if deanonRec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", deanonRec.Code)
		}
		var deanonResp deanonymizeResponse
		if err := json.NewDecoder(deanonRec.Body).Decode(&deanonResp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if deanonResp.Text != text {
			t.Errorf("Round trip failed:\n  original: %q\n  restored: %q", text, deanonResp.Text)
		}
	})

	t.Run("EmptyTextRejected", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("InvalidJSONRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/anonymize", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("UnsupportedLanguageRejected", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{
			Text:     "some text",
			Language: "fr",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for invalid language config, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

// TestHandleAnalyze tests detection without anonymization
func TestHandleAnalyze(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze", analyzeRequest{
		Text: "Mail alice@corp.com now",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Matches []core.EntityMatch `json:"matches"`
		Count   int                `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count == 0 || len(resp.Matches) == 0 {
		t.Error("Expected the email to be detected")
	}
}

// TestHandleEntities tests entity type listing
func TestHandleEntities(t *testing.T) {
	s := newTestServer(t)

	t.Run("DefaultLanguage", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/entities", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "EMAIL_ADDRESS") {
			t.Error("Expected EMAIL_ADDRESS in the entity list")
		}
	})

	t.Run("German", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/entities?language=de", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "DE_TAX_ID") {
			t.Error("Expected DE_TAX_ID in the German entity list")
		}
	})

	t.Run("UnsupportedLanguage", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/v1/entities?language=fr", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

// TestHealthAndInfo tests the operational endpoints
func TestHealthAndInfo(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/info", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /info, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "piivault") {
		t.Errorf("Unexpected info body: %s", rec.Body.String())
	}
}

// TestRateLimiting tests the per-client limiter
func TestRateLimiting(t *testing.T) {
	cl := newClientLimiter(1, 2)

	if !cl.allow("10.0.0.1") || !cl.allow("10.0.0.1") {
		t.Fatal("Burst requests should be allowed")
	}
	if cl.allow("10.0.0.1") {
		t.Error("Request beyond burst should be rejected")
	}
	if !cl.allow("10.0.0.2") {
		t.Error("A different client has its own bucket")
	}
}

// TestGetClientIP tests client IP extraction precedence
func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"

	if got := getClientIP(req); got != "192.0.2.10" {
		t.Errorf("Expected RemoteAddr host, got %q", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := getClientIP(req); got != "198.51.100.7" {
		t.Errorf("Expected X-Real-IP, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := getClientIP(req); got != "203.0.113.9" {
		t.Errorf("Expected X-Forwarded-For to win, got %q", got)
	}
}

// TestHandleAudit tests the audit endpoint when no store is configured
func TestHandleAudit(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/audit", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 with auditing disabled, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not enabled") {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}
