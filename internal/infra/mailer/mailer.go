package mailer

import (
	"fmt"

	"github.com/talkative-se/powerbag-backend/internal/config"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	// Template names a known HTML template; Vars are substituted into it.
	Template string
	Vars     map[string]string
}

type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	replyTo string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password),
		from:    cfg.Mail.From,
		replyTo: cfg.Mail.ReplyTo,
	}
}

func (m *Mailer) Send(msg Message) error {
	body, err := renderTemplate(msg.Template, msg.Vars)
	if err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Reply-To", m.replyTo)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", body)

	return m.dialer.DialAndSend(gm)
}

const signinCodeTemplate = `<p>Your Powerbag login code is <strong>%s</strong>.</p>
<p>Or follow this link to sign in directly: <a href="%s">%s</a></p>`

func renderTemplate(name string, vars map[string]string) (string, error) {
	switch name {
	case "powerbag_signin_code":
		link := vars["MAGICLINK"]
		return fmt.Sprintf(signinCodeTemplate, vars["CODE"], link, link), nil
	default:
		return "", fmt.Errorf("unknown mail template %q", name)
	}
}
