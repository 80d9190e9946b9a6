package staff

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

var errInvalidRole = errors.New("invalid role")

func (ns *NewStaff) Validate(validate *validator.Validate) error {
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.FullName = core.CleanString(ns.FullName)
	ns.PhoneNumber = core.CleanString(ns.PhoneNumber)
	ns.Role = core.CleanString(ns.Role)
	ns.StaffID = core.CleanString(ns.StaffID)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if !ValidRole(ns.Role) {
		return core.NewValidationError(errInvalidRole,
			core.FieldError{Field: "role", Error: errInvalidRole.Error()})
	}
	return nil
}
