package referral

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/notification"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

var (
	ErrCodeNotFound   = errors.New("referral code not found")
	ErrAgentNotFound  = errors.New("agent not found")
	ErrSchoolNotFound = errors.New("school not found")
	ErrUnknownType    = errors.New("unknown email type")
)

const (
	subjectCodeUsed   = "Your referral code was used"
	subjectFirstOrder = "First order commission earned"
)

type (
	Repository interface {
		GetCodeByCode(ctx context.Context, code string) (Code, error)
		GetCodeByID(ctx context.Context, id string) (Code, error)
		GetAgentByID(ctx context.Context, id string) (Agent, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
	}

	// StaffDirectory resolves agent staff accounts to contact details.
	StaffDirectory interface {
		GetByUserID(ctx context.Context, userID string) (staff.Staff, error)
	}

	// FirstOrderChecker answers whether an order is chronologically a school's first.
	FirstOrderChecker interface {
		FirstOrder(ctx context.Context, schoolID, orderID string) (bool, error)
		GetOrder(ctx context.Context, id string) (order.Order, error)
	}

	// Enqueuer is the notification outbox.
	Enqueuer interface {
		Enqueue(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service struct {
		repo    Repository
		staff   StaffDirectory
		orders  FirstOrderChecker
		outbox  Enqueuer
		mailSvc core.EmailService
		conf    *core.Config
		logger  core.Logger
	}
)

func NewService(
	repo Repository,
	staffDir StaffDirectory,
	orders FirstOrderChecker,
	outbox Enqueuer,
	mailSvc core.EmailService,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		repo:    repo,
		staff:   staffDir,
		orders:  orders,
		outbox:  outbox,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

// NotifyCodeUsed queues the "code used" email for the agent behind the redeemed code.
func (svc *Service) NotifyCodeUsed(ctx context.Context, ev CodeUsedEvent) (NotifyResult, error) {
	code, err := svc.repo.GetCodeByCode(ctx, core.CleanString(ev.Code))
	if err != nil {
		return NotifyResult{}, err
	}
	agent, st, err := svc.resolveAgent(ctx, code.AgentID)
	if err != nil {
		return NotifyResult{}, err
	}
	school, err := svc.repo.GetSchoolByID(ctx, core.CleanString(ev.SchoolID))
	if err != nil {
		return NotifyResult{}, err
	}

	n, err := svc.outbox.Enqueue(ctx, notification.NewNotification{
		Template:       notification.TemplateCodeUsed,
		RecipientName:  st.FullName,
		RecipientEmail: st.Email,
		Subject:        subjectCodeUsed,
		Context: map[string]interface{}{
			"AgentName":  st.FullName,
			"Code":       code.Code,
			"SchoolName": school.Name,
		},
	})
	if err != nil {
		return NotifyResult{}, errors.Wrap(err, "queueing code_used notification")
	}

	svc.logger.Info("code_used notification queued", map[string]interface{}{
		"agent_id": agent.ID, "school_id": school.ID, "notification_id": n.ID,
	})
	return NotifyResult{NotificationID: n.ID}, nil
}

// NotifyFirstOrder checks whether the triggering order is the school's first and, if
// so, queues the commission email to the agent the school signed up under. A school
// with no referral attribution is a benign no-op.
func (svc *Service) NotifyFirstOrder(ctx context.Context, ev FirstOrderEvent) (NotifyResult, error) {
	first, err := svc.orders.FirstOrder(ctx, core.CleanString(ev.SchoolID), core.CleanString(ev.OrderID))
	if err != nil {
		return NotifyResult{}, errors.Wrap(err, "checking first order")
	}
	if !first {
		return NotifyResult{Skipped: true, Reason: "Not first order, skipped"}, nil
	}

	school, err := svc.repo.GetSchoolByID(ctx, core.CleanString(ev.SchoolID))
	if err != nil {
		return NotifyResult{}, err
	}
	if !school.SignupCodeID.Valid {
		return NotifyResult{Skipped: true, Reason: "No referral found, skipped"}, nil
	}

	code, err := svc.repo.GetCodeByID(ctx, school.SignupCodeID.String)
	if err != nil {
		// attribution points nowhere; benign no-op per the notification contract
		svc.logger.Warn("school signup code unresolvable", err,
			map[string]interface{}{"school_id": school.ID})
		return NotifyResult{Skipped: true, Reason: "No referral found, skipped"}, nil
	}
	_, st, err := svc.resolveAgent(ctx, code.AgentID)
	if err != nil {
		svc.logger.Warn("referral agent unresolvable", err,
			map[string]interface{}{"school_id": school.ID, "code_id": code.ID})
		return NotifyResult{Skipped: true, Reason: "No referral found, skipped"}, nil
	}

	ord, err := svc.orders.GetOrder(ctx, core.CleanString(ev.OrderID))
	if err != nil {
		return NotifyResult{}, errors.Wrap(err, "fetching order")
	}

	commission := Commission(ord.Amount, svc.conf.CommissionRate, code.CreditWorthFactor)

	n, err := svc.outbox.Enqueue(ctx, notification.NewNotification{
		Template:       notification.TemplateFirstOrder,
		RecipientName:  st.FullName,
		RecipientEmail: st.Email,
		Subject:        subjectFirstOrder,
		Context: map[string]interface{}{
			"AgentName":         st.FullName,
			"SchoolName":        school.Name,
			"OrderAmount":       formatAmount(ord.Amount),
			"CreditWorthFactor": fmt.Sprintf("%g", code.CreditWorthFactor),
			"Commission":        formatAmount(commission),
		},
	})
	if err != nil {
		return NotifyResult{}, errors.Wrap(err, "queueing first_order notification")
	}

	return NotifyResult{NotificationID: n.ID, Commission: commission}, nil
}

// SendAgentEmail composes and sends a templated agent email synchronously. Unknown
// types are an error.
func (svc *Service) SendAgentEmail(ctx context.Context, in AgentEmail) (*core.EmailMessage, error) {
	var msg *core.EmailMessage
	switch in.Type {
	case notification.TemplateCodeUsed:
		msg = &core.EmailMessage{
			To:           []mail.Address{{Name: in.AgentName, Address: in.AgentEmail}},
			Subject:      subjectCodeUsed,
			TemplateName: notification.TemplateCodeUsed,
			TemplateData: map[string]interface{}{
				"AgentName":  in.AgentName,
				"Code":       in.Code,
				"SchoolName": in.SchoolName,
			},
		}
	case notification.TemplateFirstOrder:
		commission := in.Commission
		if commission == 0 {
			commission = Commission(in.OrderAmount, svc.conf.CommissionRate, in.CreditWorthFactor)
		}
		msg = &core.EmailMessage{
			To:           []mail.Address{{Name: in.AgentName, Address: in.AgentEmail}},
			Subject:      subjectFirstOrder,
			TemplateName: notification.TemplateFirstOrder,
			TemplateData: map[string]interface{}{
				"AgentName":         in.AgentName,
				"SchoolName":        in.SchoolName,
				"OrderAmount":       formatAmount(in.OrderAmount),
				"CreditWorthFactor": fmt.Sprintf("%g", in.CreditWorthFactor),
				"Commission":        formatAmount(commission),
			},
		}
	default:
		return nil, errors.Wrapf(ErrUnknownType, "%q", in.Type)
	}

	if err := svc.mailSvc.Send(msg); err != nil {
		return nil, errors.Wrap(err, "sending agent email")
	}
	return msg, nil
}

func (svc *Service) resolveAgent(ctx context.Context, agentID string) (Agent, staff.Staff, error) {
	agent, err := svc.repo.GetAgentByID(ctx, agentID)
	if err != nil {
		return Agent{}, staff.Staff{}, err
	}
	st, err := svc.staff.GetByUserID(ctx, agent.StaffUserID)
	if err != nil {
		return Agent{}, staff.Staff{}, errors.Wrap(err, "resolving agent staff account")
	}
	return agent, st, nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("TZS %.2f", v)
}
