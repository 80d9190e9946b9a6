package referral

import (
	"github.com/go-playground/validator/v10"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

func (ev *CodeUsedEvent) Validate(validate *validator.Validate) error {
	ev.Code = core.CleanString(ev.Code)
	ev.SchoolID = core.CleanString(ev.SchoolID)
	return validate.Struct(ev)
}

func (ev *FirstOrderEvent) Validate(validate *validator.Validate) error {
	ev.OrderID = core.CleanString(ev.OrderID)
	ev.SchoolID = core.CleanString(ev.SchoolID)
	return validate.Struct(ev)
}

func (ae *AgentEmail) Validate(validate *validator.Validate) error {
	ae.Type = core.CleanString(ae.Type)
	ae.AgentName = core.CleanString(ae.AgentName)
	ae.AgentEmail = core.CleanString(ae.AgentEmail, true /* lower */)
	ae.SchoolName = core.CleanString(ae.SchoolName)
	return validate.Struct(ae)
}
