package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
)

func TestClient_signsRequests(t *testing.T) {
	secret := "super-secret"
	boolPtr := func(b bool) *bool { return &b }

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("reading body failed: %v", err)
		}

		assert.Equal(t, "PRN-001", r.Header.Get(headerDeviceID))
		sig := r.Header.Get(headerDeviceSignature)
		assert.True(t, device.VerifySignature(body, sig, secret), "signature must verify against the raw body")

		var hb device.Heartbeat
		if err := json.Unmarshal(body, &hb); err != nil {
			t.Fatalf("decoding body failed: %v", err)
		}
		assert.Equal(t, "PRN-001", hb.DeviceID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HeartbeatResponse{Success: true, DeviceID: hb.DeviceID})
	}))
	defer srv.Close()

	c := New(srv.URL, "PRN-001", secret)
	resp, err := c.SendHeartbeat(device.Heartbeat{IsOnline: boolPtr(true)})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "PRN-001", resp.DeviceID)
}

func TestClient_duplicateEventMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PrintEventResponse{
			Success: true,
			EventID: "ev-1",
			Message: "Event already processed",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "PRN-001", "secret")
	resp, err := c.SendPrintEvent(device.NewPrintEvent{PrintJobID: "job-1", Type: device.EventStart})
	assert.NoError(t, err)
	assert.Equal(t, "Event already processed", resp.Message)
}

func TestClient_nonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "PRN-001", "wrong")
	_, err := c.SendPrintEvent(device.NewPrintEvent{PrintJobID: "job-1", Type: device.EventStart})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
