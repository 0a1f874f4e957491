package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery-agent/internal/http/handlers"
	"service-delivery-agent/internal/http/router"
	"service-delivery-agent/internal/logx"
)

func newTestRouter() http.Handler {
	return router.New(router.Deps{
		Logger:   logx.Nop(),
		Base:     handlers.New(logx.Nop()),
		Orders:   &handlers.OrderHandler{},
		Agents:   &handlers.AgentHandler{},
		Messages: &handlers.MessageHandler{},
		Events:   &handlers.EventsHandler{},
	})
}

func TestRouter_Ping(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_Healthcheck(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodHead, "/healthcheck", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRouter_UnknownRouteIsJSON404(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"error":"route not found"}`, rr.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}
