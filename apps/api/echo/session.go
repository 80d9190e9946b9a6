package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/session"
)

type sessionApi struct {
	svc        *session.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerSessionAPI(g *echo.Group, opts *Options) {
	api := sessionApi{
		svc:        opts.SessionSvc,
		validate:   opts.Validate,
		translator: opts.Translator,
	}

	g.POST("/init-session", api.initSession)
	g.POST("/refresh-student-data", api.refreshStudentData)
	g.POST("/update-class-status", api.updateClassStatus)
	g.POST("/update-session-status", api.updateSessionStatus)
	g.POST("/update-student-status", api.updateStudentStatus)
}

type (
	initSessionRequest struct {
		OperatorID      string `json:"operator_id" validate:"required"`
		ServicePasscode string `json:"service_passcode" validate:"required"`
	}

	idRequest struct {
		ID string `json:"id" validate:"required"`
	}

	updateSessionRequest struct {
		ID string `json:"id" validate:"required"`
		session.UpdateSession
	}

	updateClassRequest struct {
		ID string `json:"id" validate:"required"`
		session.UpdateClass
	}

	updateStudentRequest struct {
		ID string `json:"id" validate:"required"`
		session.UpdateStudent
	}
)

// bindStrict decodes the request body rejecting unknown JSON keys; stray fields must
// not silently merge into an update.
func bindStrict(ctx echo.Context, dst interface{}) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid JSON body"))
	}
	return nil
}

func (api *sessionApi) initSession(ctx echo.Context) error {
	var data initSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	res, err := api.svc.Init(ctx.Request().Context(), data.OperatorID, data.ServicePasscode)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message":  "Session initialised",
		"operator": res.Operator,
		"session":  res.Session,
		"school":   res.School,
		"classes":  res.Classes,
	})
}

func (api *sessionApi) refreshStudentData(ctx echo.Context) error {
	var data idRequest
	if err := ctx.Bind(&data); err != nil {
		return core.NewValidationError(errors.New("invalid JSON body"))
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	st, err := api.svc.GetStudent(ctx.Request().Context(), data.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Student data refreshed",
		"student": st,
	})
}

func (api *sessionApi) updateClassStatus(ctx echo.Context) error {
	var data updateClassRequest
	if err := bindStrict(ctx, &data); err != nil {
		return err
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	cls, err := api.svc.UpdateClass(ctx.Request().Context(), data.ID, data.UpdateClass)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Class updated",
		"class":   cls,
	})
}

func (api *sessionApi) updateSessionStatus(ctx echo.Context) error {
	var data updateSessionRequest
	if err := bindStrict(ctx, &data); err != nil {
		return err
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	sess, err := api.svc.UpdateSession(ctx.Request().Context(), data.ID, data.UpdateSession)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Session updated",
		"session": sess,
	})
}

func (api *sessionApi) updateStudentStatus(ctx echo.Context) error {
	var data updateStudentRequest
	if err := bindStrict(ctx, &data); err != nil {
		return err
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	st, err := api.svc.UpdateStudent(ctx.Request().Context(), data.ID, data.UpdateStudent)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Student updated",
		"student": st,
	})
}
