package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/referral"
)

type referralApi struct {
	svc      *referral.Service
	validate *validator.Validate
}

func registerReferralAPI(g *echo.Group, opts *Options) {
	api := referralApi{
		svc:      opts.ReferralSvc,
		validate: opts.Validate,
	}

	g.POST("/notify-agent-code-used", api.notifyCodeUsed)
	g.POST("/notify-first-order", api.notifyFirstOrder)
	g.POST("/send-agent-email", api.sendAgentEmail)
}

func (api *referralApi) notifyCodeUsed(ctx echo.Context) error {
	var data referral.CodeUsedEvent
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.NotifyCodeUsed(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if res.Skipped {
		return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": res.Reason})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"notification_id": res.NotificationID,
	})
}

func (api *referralApi) notifyFirstOrder(ctx echo.Context) error {
	var data referral.FirstOrderEvent
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.NotifyFirstOrder(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if res.Skipped {
		return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": res.Reason})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"notification_id": res.NotificationID,
		"commission":      res.Commission,
	})
}

func (api *referralApi) sendAgentEmail(ctx echo.Context) error {
	var data referral.AgentEmail
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.SendAgentEmail(ctx.Request().Context(), data)
	if err != nil {
		return err // unknown type / send failure surface as a 500
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"emailResponse": echo.Map{
			"to":      data.AgentEmail,
			"subject": msg.Subject,
		},
	})
}
