package emailsvc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

type consoleService struct {
	out    io.Writer
	conf   *core.Config
	logger core.Logger
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService writes rendered messages to stdout instead of delivering
// them. Meant for local development.
func NewConsoleService(conf *core.Config, logger core.Logger) *consoleService {
	return &consoleService{out: os.Stdout, conf: conf, logger: logger}
}

func (svc *consoleService) Send(msg *core.EmailMessage) error {
	if err := msg.Render(svc.conf); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("\n---------- EMAIL ----------\n")
	sb.WriteString("To: ")
	for i, to := range msg.To {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(to.String())
	}
	sb.WriteString("\nSubject: " + msg.Subject + "\n\n")
	if msg.TextContent != "" {
		sb.WriteString(msg.TextContent + "\n")
	} else {
		sb.WriteString(msg.HTMLContent + "\n")
	}
	if msg.HasAttachments() {
		sb.WriteString(fmt.Sprintf("(%d attachment(s))\n", len(msg.Attachments)))
	}
	sb.WriteString("---------------------------\n")

	_, err := io.WriteString(svc.out, sb.String())
	return err
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if err := svc.Send(msg); err != nil {
			svc.logger.Error("printing email failed", err)
		}
	}
}
