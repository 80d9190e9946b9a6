package device

import (
	"github.com/go-playground/validator/v10"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

func (hb *Heartbeat) Validate(validate *validator.Validate) error {
	hb.DeviceID = core.CleanString(hb.DeviceID)
	return validate.Struct(hb)
}

func (ev *NewPrintEvent) Validate(validate *validator.Validate) error {
	ev.PrintJobID = core.CleanString(ev.PrintJobID)
	ev.Type = core.CleanString(ev.Type)
	ev.IdempotencyKey = core.CleanString(ev.IdempotencyKey)
	if err := validate.Struct(ev); err != nil {
		return err
	}
	if !ValidEventType(ev.Type) {
		return core.NewValidationError(ErrInvalidEventType,
			core.FieldError{Field: "type", Error: ErrInvalidEventType.Error()})
	}
	return nil
}
