package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

type staffApi struct {
	svc      *staff.Service
	validate *validator.Validate
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := staffApi{
		svc:      opts.StaffSvc,
		validate: opts.Validate,
	}

	g.POST("/create-staff", api.create, jwt, adminMiddleware())
}

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case staff.ErrEmailExists, staff.ErrStaffIDExists:
			return core.NewValidationError(errors.Cause(err))
		}
		return errors.Wrap(err, "creating staff")
	}

	return ctx.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"userId":  st.UserID,
		"staffId": st.StaffID,
	})
}
