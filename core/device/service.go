package device

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

var (
	// ErrNotFound means the device identifier matched no registered device.
	ErrNotFound = errors.New("device not registered")
	// ErrEventNotFound is returned by repositories when no event matches a key.
	ErrEventNotFound = errors.New("print event not found")
	// ErrInvalidEventType means the submitted type is not a known lifecycle type.
	ErrInvalidEventType = errors.New("invalid print event type")
)

type (
	Repository interface {
		GetDeviceByDeviceID(ctx context.Context, deviceID string) (Device, error)
		CreateDevice(ctx context.Context, dev Device) (Device, error)
		UpdateDevice(ctx context.Context, dev Device) (Device, error)
		CreateLocationSample(ctx context.Context, sample LocationSample) error
		GetPrintEventByKey(ctx context.Context, key string) (PrintEvent, error)
		CreatePrintEvent(ctx context.Context, ev PrintEvent) (PrintEvent, error)
	}

	// Reconciler applies a reported printed-garment count to the order item it
	// belongs to. Implemented by the order service; failures here are best-effort.
	Reconciler interface {
		ApplyPrintedCount(ctx context.Context, orderItemID, garmentType string, count int) error
	}

	Service struct {
		repo       Repository
		reconciler Reconciler
		logger     core.Logger
	}
)

func NewService(repo Repository, reconciler Reconciler, logger core.Logger) *Service {
	return &Service{repo: repo, reconciler: reconciler, logger: logger}
}

// GetByDeviceID resolves a device identifier to its full record (secret included).
func (svc *Service) GetByDeviceID(ctx context.Context, deviceID string) (Device, error) {
	return svc.repo.GetDeviceByDeviceID(ctx, core.CleanString(deviceID))
}

// Register provisions a new device with a generated secret key.
func (svc *Service) Register(ctx context.Context, deviceID, model string) (Device, error) {
	now := time.Now().UTC()
	dev := Device{
		DeviceID:   core.CleanString(deviceID),
		SecretKey:  uuid.NewString(),
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if model != "" {
		dev.Model = null.StringFrom(model)
	}
	return svc.repo.CreateDevice(ctx, dev)
}

// Heartbeat merges a sparse heartbeat into the device's stored status. Absent fields
// leave stored values untouched; last_seen_at is always stamped. A location reading,
// when present, is appended best-effort.
func (svc *Service) Heartbeat(ctx context.Context, dev Device, hb Heartbeat) (Device, error) {
	now := time.Now().UTC()

	dev.IsOnline = *hb.IsOnline
	if hb.IsPrinting.Valid {
		dev.IsPrinting = hb.IsPrinting.Bool
	}
	if hb.FirmwareVersion.Valid {
		dev.FirmwareVersion = hb.FirmwareVersion
	}
	if hb.Model.Valid {
		dev.Model = hb.Model
	}
	if hb.UpTime.Valid {
		dev.UpTime = hb.UpTime
	}
	if hb.SessionsHeld.Valid {
		dev.SessionsHeld = hb.SessionsHeld
	}
	if hb.ActiveSession.Valid {
		dev.ActiveSession = hb.ActiveSession
	}
	dev.LastSeenAt = now
	dev.UpdatedAt = now

	dev, err := svc.repo.UpdateDevice(ctx, dev)
	if err != nil {
		return Device{}, errors.Wrap(err, "updating device status")
	}

	if hb.Location != nil {
		sample := LocationSample{
			MachineID: dev.ID,
			Lat:       hb.Location.Lat,
			Lng:       hb.Location.Lng,
			Provider:  hb.Location.Provider,
			CreatedAt: now,
		}
		if sample.Provider == "" {
			sample.Provider = "device"
		}
		if err := svc.repo.CreateLocationSample(ctx, sample); err != nil {
			svc.logger.Warn("saving location sample failed", err,
				map[string]interface{}{"device_id": dev.DeviceID})
		}
	}
	return dev, nil
}

// SynthesizeKey derives a deterministic idempotency key for submissions that carry
// none. Deliberately excludes time so that a retried request maps to the same key;
// devices re-printing the same job must send explicit keys.
func SynthesizeKey(deviceID, printJobID, eventType string) string {
	sum := sha256.Sum256([]byte(deviceID + "|" + printJobID + "|" + eventType))
	return hex.EncodeToString(sum[:])
}

// RecordPrintEvent runs the idempotency gate, stores the event, applies the machine
// state transition and triggers order reconciliation for COMPLETE events.
func (svc *Service) RecordPrintEvent(ctx context.Context, dev Device, in NewPrintEvent) (EventReceipt, error) {
	if !ValidEventType(in.Type) {
		return EventReceipt{}, core.NewValidationError(ErrInvalidEventType,
			core.FieldError{Field: "type", Error: ErrInvalidEventType.Error()})
	}

	key := core.CleanString(in.IdempotencyKey)
	if key == "" {
		key = SynthesizeKey(dev.DeviceID, in.PrintJobID, in.Type)
	}

	// idempotency gate: a replayed key returns the original event, mutating nothing
	if existing, err := svc.repo.GetPrintEventByKey(ctx, key); err == nil {
		return EventReceipt{Event: existing, Duplicate: true}, nil
	} else if errors.Cause(err) != ErrEventNotFound {
		return EventReceipt{}, errors.Wrap(err, "checking idempotency key")
	}

	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return EventReceipt{}, errors.Wrap(err, "encoding event payload")
	}

	now := time.Now().UTC()
	ev := PrintEvent{
		ID:             uuid.NewString(),
		DeviceID:       dev.ID,
		PrintJobID:     in.PrintJobID,
		Type:           in.Type,
		Payload:        payload,
		IdempotencyKey: key,
		CreatedAt:      now,
	}
	ev, err = svc.repo.CreatePrintEvent(ctx, ev)
	if err != nil {
		return EventReceipt{}, errors.Wrap(err, "storing print event")
	}

	// machine state, last-write-wins; PROGRESS leaves it alone. The event is already
	// stored, so a failure here is logged and the submission still succeeds.
	if in.Type != EventProgress {
		switch {
		case in.Type == EventStart:
			dev.IsPrinting = true
			dev.ActiveSession = null.StringFrom(in.PrintJobID)
		case terminalEventType(in.Type):
			dev.IsPrinting = false
			dev.ActiveSession = null.String{}
		}
		dev.LastSeenAt = now
		dev.UpdatedAt = now
		if _, err := svc.repo.UpdateDevice(ctx, dev); err != nil {
			svc.logger.Warn("updating machine state failed", err,
				map[string]interface{}{"device_id": dev.DeviceID, "event_id": ev.ID})
		}
	}

	if in.Type == EventComplete && in.Payload.OrderItemID != "" &&
		in.Payload.GarmentType != "" && in.Payload.Count > 0 {
		if err := svc.reconciler.ApplyPrintedCount(
			ctx, in.Payload.OrderItemID, in.Payload.GarmentType, in.Payload.Count,
		); err != nil {
			svc.logger.Warn("reconciling order item failed", err,
				map[string]interface{}{"order_item_id": in.Payload.OrderItemID, "event_id": ev.ID})
		}
	}

	return EventReceipt{Event: ev}, nil
}
