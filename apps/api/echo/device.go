package echoapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/device"
)

const (
	headerDeviceID        = "x-device-id"
	headerDeviceSignature = "x-device-signature"
)

type deviceApi struct {
	svc        *device.Service
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

func registerDeviceAPI(g *echo.Group, opts *Options) {
	api := deviceApi{
		svc:        opts.DeviceSvc,
		logger:     opts.Logger,
		validate:   opts.Validate,
		translator: opts.Translator,
	}

	g.POST("/device-heartbeat", api.heartbeat)
	g.POST("/device-print-events", api.printEvents)
}

// authenticate resolves the calling device from the x-device-id header and checks the
// body signature when one is sent. A missing signature is allowed through with a
// warning; a present-but-wrong one is rejected.
func (api *deviceApi) authenticate(ctx echo.Context) (device.Device, []byte, error) {
	deviceID := ctx.Request().Header.Get(headerDeviceID)
	if deviceID == "" {
		return device.Device{}, nil, core.NewValidationError(nil,
			core.FieldError{Field: headerDeviceID, Error: "this header is required"})
	}

	dev, err := api.svc.GetByDeviceID(ctx.Request().Context(), deviceID)
	if err != nil {
		return device.Device{}, nil, err
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return device.Device{}, nil, errors.Wrap(err, "reading request body")
	}

	if sig := ctx.Request().Header.Get(headerDeviceSignature); sig != "" {
		if !device.VerifySignature(body, sig, dev.SecretKey) {
			return device.Device{}, nil, errSignatureInvalid
		}
	} else {
		api.logger.Warn("unsigned device request accepted",
			map[string]interface{}{"device_id": dev.DeviceID, "path": ctx.Path()})
	}
	return dev, body, nil
}

func (api *deviceApi) heartbeat(ctx echo.Context) error {
	dev, body, err := api.authenticate(ctx)
	if err != nil {
		return err
	}

	var data device.Heartbeat
	if err := json.Unmarshal(body, &data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dev, err = api.svc.Heartbeat(ctx.Request().Context(), dev, data)
	if err != nil {
		return errors.Wrap(err, "applying heartbeat")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"device_id": dev.DeviceID,
	})
}

func (api *deviceApi) printEvents(ctx echo.Context) error {
	dev, body, err := api.authenticate(ctx)
	if err != nil {
		return err
	}

	var data device.NewPrintEvent
	if err := json.Unmarshal(body, &data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	receipt, err := api.svc.RecordPrintEvent(ctx.Request().Context(), dev, data)
	if err != nil {
		return errors.Wrap(err, "recording print event")
	}

	if receipt.Duplicate {
		return ctx.JSON(http.StatusOK, echo.Map{
			"success":  true,
			"message":  "Event already processed",
			"event_id": receipt.Event.ID,
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"event_id":  receipt.Event.ID,
		"timestamp": receipt.Event.CreatedAt.Format(time.RFC3339),
	})
}
