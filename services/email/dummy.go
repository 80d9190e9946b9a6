package emailsvc

import (
	"sync"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

// DummyService records sent messages for inspection in tests.
type DummyService struct {
	mu   sync.Mutex
	conf *core.Config

	SentMessages []*core.EmailMessage
	// SendErr, when set, is returned by Send without recording the message.
	SendErr error
}

var _ core.EmailService = (*DummyService)(nil)

func NewDummyService(conf *core.Config) *DummyService {
	return &DummyService{conf: conf}
}

func (svc *DummyService) Send(msg *core.EmailMessage) error {
	if svc.SendErr != nil {
		return svc.SendErr
	}
	if err := msg.Render(svc.conf); err != nil {
		return err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.SentMessages = append(svc.SentMessages, msg)
	return nil
}

func (svc *DummyService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		_ = svc.Send(msg)
	}
}

func (svc *DummyService) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.SentMessages = nil
}
