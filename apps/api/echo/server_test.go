package echoapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestServerHome(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httpTest{method: http.MethodGet, path: "/"})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Welcome to Fusion Loom API!" {
		t.Errorf("body = %q", got)
	}
}

func TestServerMetrics(t *testing.T) {
	app := newTestApp(t)

	// drive one request through the counter middleware first
	app.do(httpTest{method: http.MethodGet, path: "/"})

	rec := app.do(httpTest{method: http.MethodGet, path: "/metrics"})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("metrics output missing http_requests_total")
	}
}

func TestServerTrailingSlash(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httpTest{
		method: http.MethodPost, path: "/v1/init-session/",
		body: []byte(`{"operator_id":"op-404","service_passcode":"x"}`),
	})
	if rec.Code == http.StatusNotFound && strings.Contains(rec.Body.String(), "Not Found") {
		t.Errorf("trailing slash not stripped: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServerUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/nope"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d; want 404", rec.Code)
	}
}
