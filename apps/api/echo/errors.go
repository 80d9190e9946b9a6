package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/referral"
	"github.com/Apollox9/fusion-loom-sub002/core/session"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errSignatureInvalid = echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	errHttpForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// notFoundErrs are domain sentinels that map to a 404 with their own message.
var notFoundErrs = []error{
	device.ErrNotFound,
	session.ErrOperatorNotFound,
	session.ErrSessionNotFound,
	session.ErrSchoolNotFound,
	session.ErrClassNotFound,
	session.ErrStudentNotFound,
	order.ErrItemNotFound,
	order.ErrOrderNotFound,
	staff.ErrNotFound,
	referral.ErrCodeNotFound,
	referral.ErrAgentNotFound,
	referral.ErrSchoolNotFound,
}

func isNotFound(err error) bool {
	for _, nf := range notFoundErrs {
		if err == nf {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if isNotFound(cause) {
				code = http.StatusNotFound
				message = cause.Error()
				break
			}

			// internal endpoints: the fault's message goes out as-is
			code = http.StatusInternalServerError
			message = err.Error()
			logger.Error(http.StatusText(code), err)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
