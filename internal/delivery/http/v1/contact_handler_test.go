package v1_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShowContactForm(t *testing.T) {
	router := newTestRouter(t, testConfig())

	token := fetchCSRFToken(t, router)
	require.Len(t, strings.Split(token, ":"), 4)
}

func TestSubmitContactSuccess(t *testing.T) {
	router := newTestRouter(t, testConfig(), succeedingChannel("webhook"))

	token := fetchCSRFToken(t, router)
	rec := postContactForm(router, validContactForm(token))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Message sent successfully")
}

func TestSubmitContactPartialSuccessStillOK(t *testing.T) {
	router := newTestRouter(t, testConfig(), succeedingChannel("webhook"), failingChannel("email"))

	token := fetchCSRFToken(t, router)
	rec := postContactForm(router, validContactForm(token))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Message sent successfully")
}

func TestSubmitContactAllChannelsFailed(t *testing.T) {
	router := newTestRouter(t, testConfig(), failingChannel("webhook"), failingChannel("email"))

	token := fetchCSRFToken(t, router)
	rec := postContactForm(router, validContactForm(token))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "could not be delivered")
}

func TestSubmitContactNoChannelsAccepted(t *testing.T) {
	router := newTestRouter(t, testConfig())

	token := fetchCSRFToken(t, router)
	rec := postContactForm(router, validContactForm(token))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Message sent successfully")
}

func TestSubmitContactUnsupportedContentType(t *testing.T) {
	router := newTestRouter(t, testConfig(), succeedingChannel("webhook"))

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.Contains(t, rec.Body.String(), "Unsupported content type.")
}

func TestSubmitContactInvalidCSRF(t *testing.T) {
	router := newTestRouter(t, testConfig(), succeedingChannel("webhook"))

	form := validContactForm("not-a-real-token")
	rec := postContactForm(router, form)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid or expired security token")
}

func TestSubmitContactValidationErrors(t *testing.T) {
	router := newTestRouter(t, testConfig(), succeedingChannel("webhook"))

	token := fetchCSRFToken(t, router)
	form := validContactForm(token)
	form.Set("email", "not-an-email")
	form.Set("message", "short")
	rec := postContactForm(router, form)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "valid email address")
	require.Contains(t, body, "at least 10 characters")
	// Submitted values are echoed back so the visitor can correct them.
	require.Contains(t, body, "Ada Lovelace")
}

func TestSubmitContactRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.ContactRateLimitPerMinute = 2
	router := newTestRouter(t, cfg, succeedingChannel("webhook"))

	token := fetchCSRFToken(t, router)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = postContactForm(router, validContactForm(token))
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
}
