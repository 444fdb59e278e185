package usecase

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/shandysiswandi/otcgate/internal/notification/entity"
)

type brand struct {
	AppName      string
	SupportEmail string
}

type messageData struct {
	AppName      string
	SupportEmail string
	Lead         string
	Code         string
	Minutes      int
	Year         string
}

type wording struct {
	Subject string
	Lead    string
}

var wordings = map[entity.Purpose]wording{
	entity.PurposeSignup:      {Subject: "Your sign-up code", Lead: "Use this code to finish signing up"},
	entity.PurposePhoneUpdate: {Subject: "Confirm your new phone number", Lead: "Use this code to confirm your new phone number"},
	entity.PurposeEmailVerify: {Subject: "Verify your email address", Lead: "Use this code to verify your email address"},
	entity.PurposeEmailUpdate: {Subject: "Confirm your new email address", Lead: "Use this code to confirm your new email address"},
}

const smsTemplate = `{{.AppName}}: {{.Lead}}: {{.Code}}. It expires in {{.Minutes}} min. Do not share it.`

const emailTextTemplate = `{{.Lead}}:

    {{.Code}}

The code expires in {{.Minutes}} minutes. If you did not ask for it, ignore this message.
{{if .SupportEmail}}
Questions? Contact {{.SupportEmail}}.
{{end}}
{{.AppName}} {{.Year}}
`

const emailHTMLTemplate = `<!doctype html>
<html>
<body style="font-family:sans-serif">
<p>{{.Lead}}:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.Minutes}} minutes. If you did not ask for it, ignore this message.</p>
{{if .SupportEmail}}<p>Questions? Contact <a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a>.</p>{{end}}
<p style="color:#888">&copy; {{.Year}} {{.AppName}}</p>
</body>
</html>
`

type templates struct {
	sms       *template.Template
	emailText *template.Template
	emailHTML *htmltemplate.Template
}

func mustTemplates() *templates {
	return &templates{
		sms:       template.Must(template.New("sms").Option("missingkey=zero").Parse(smsTemplate)),
		emailText: template.Must(template.New("email_text").Option("missingkey=zero").Parse(emailTextTemplate)),
		emailHTML: htmltemplate.Must(htmltemplate.New("email_html").Option("missingkey=zero").Parse(emailHTMLTemplate)),
	}
}

// render builds the message for d. The remaining minutes are rounded up so a
// code is never advertised as shorter-lived than it is.
func (t *templates) render(d entity.CodeDelivery, b brand, now time.Time) (entity.Rendered, error) {
	w := wordings[d.Purpose]

	minutes := int((d.ExpiresAt.Sub(now) + time.Minute - 1) / time.Minute)
	minutes = max(minutes, 1)

	data := messageData{
		AppName:      b.AppName,
		SupportEmail: b.SupportEmail,
		Lead:         w.Lead,
		Code:         d.Code,
		Minutes:      minutes,
		Year:         now.Format("2006"),
	}

	var buf bytes.Buffer
	if d.Channel == entity.ChannelSMS {
		if err := t.sms.Execute(&buf, data); err != nil {
			return entity.Rendered{}, err
		}
		return entity.Rendered{Text: buf.String()}, nil
	}

	if err := t.emailText.Execute(&buf, data); err != nil {
		return entity.Rendered{}, err
	}
	text := buf.String()

	buf.Reset()
	if err := t.emailHTML.Execute(&buf, data); err != nil {
		return entity.Rendered{}, err
	}

	return entity.Rendered{Subject: w.Subject, Text: text, HTML: buf.String()}, nil
}
