// Package client is the Go SDK devices embed to talk to the Fusion Loom API.
// Requests are signed with the device's shared secret.
package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
)

const (
	headerDeviceID        = "x-device-id"
	headerDeviceSignature = "x-device-signature"
)

type (
	// HeartbeatResponse mirrors the device-heartbeat success payload.
	HeartbeatResponse struct {
		Success   bool   `json:"success"`
		Timestamp string `json:"timestamp"`
		DeviceID  string `json:"device_id"`
	}

	// PrintEventResponse mirrors the device-print-events success payload. Message is
	// set when the server short-circuited on a replayed idempotency key.
	PrintEventResponse struct {
		Success   bool   `json:"success"`
		EventID   string `json:"event_id"`
		Timestamp string `json:"timestamp"`
		Message   string `json:"message"`
	}

	Client struct {
		baseURL   string
		deviceID  string
		secretKey string
		rc        *resty.Client
	}
)

func New(baseURL, deviceID, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		deviceID:  deviceID,
		secretKey: secretKey,
		rc:        resty.New(),
	}
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding request body")
	}

	resp, err := c.rc.R().
		SetHeader("Content-Type", "application/json").
		SetHeader(headerDeviceID, c.deviceID).
		SetHeader(headerDeviceSignature, device.Sign(body, c.secretKey)).
		SetBody(body).
		Post(c.baseURL + path)
	if err != nil {
		return errors.Wrapf(err, "calling %s", path)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode(), resp.Body())
	}
	return json.Unmarshal(resp.Body(), out)
}

// SendHeartbeat posts the device's sparse status.
func (c *Client) SendHeartbeat(hb device.Heartbeat) (HeartbeatResponse, error) {
	hb.DeviceID = c.deviceID
	var out HeartbeatResponse
	err := c.post("/v1/device-heartbeat", hb, &out)
	return out, err
}

// SendPrintEvent posts a print lifecycle event.
func (c *Client) SendPrintEvent(ev device.NewPrintEvent) (PrintEventResponse, error) {
	var out PrintEventResponse
	err := c.post("/v1/device-print-events", ev, &out)
	return out, err
}
