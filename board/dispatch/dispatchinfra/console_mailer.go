package dispatchinfra

import (
	"context"

	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// ConsoleMailer logs mail instead of sending it. Default for local
// development and tests.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

var _ dispatch.Mailer = (*ConsoleMailer)(nil)

func (m *ConsoleMailer) Send(_ context.Context, to kernel.Email, subject, body string) error {
	logx.Infof("mail to=%s subject=%q body=%q", to, subject, body)
	return nil
}
