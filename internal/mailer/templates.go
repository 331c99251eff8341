package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/adilnd/portfolio-api/internal/model"
)

// Template builders return ready-to-send Emails. Content is server-rendered
// HTML interpolated from entity fields, escaped via html/template.

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>Confirme ton inscription</h2>
<p>Bonjour {{.FullName}},</p>
<p>Merci pour ton inscription à <strong>{{.FormationTitle}}</strong>.</p>
<p>Clique sur le lien ci-dessous pour confirmer ton adresse email.
Ce lien expire dans 24 heures.</p>
<p><a href="{{.VerifyURL}}">Confirmer mon inscription</a></p>
`))

// Confirmation builds the registration-confirmation email with the
// verification link.
func Confirmation(reg *model.Registration, formationTitle, verifyURL string) (Email, error) {
	var b strings.Builder
	err := confirmationTmpl.Execute(&b, map[string]string{
		"FullName":       reg.FullName,
		"FormationTitle": formationTitle,
		"VerifyURL":      verifyURL,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render confirmation email: %w", err)
	}
	return Email{
		To:      reg.Email,
		Subject: "Confirme ton inscription — " + formationTitle,
		HTML:    b.String(),
	}, nil
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h2>Inscription confirmée</h2>
<p>Bonjour {{.FullName}},</p>
<p>Ton inscription à <strong>{{.FormationTitle}}</strong> est confirmée.
À très bientôt !</p>
`))

// Welcome builds the post-verification welcome email.
func Welcome(reg *model.Registration, formationTitle string) (Email, error) {
	var b strings.Builder
	err := welcomeTmpl.Execute(&b, map[string]string{
		"FullName":       reg.FullName,
		"FormationTitle": formationTitle,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render welcome email: %w", err)
	}
	return Email{
		To:      reg.Email,
		Subject: "Bienvenue — " + formationTitle,
		HTML:    b.String(),
	}, nil
}

var adminRegistrationTmpl = template.Must(template.New("adminReg").Parse(`
<h2>Nouvelle inscription</h2>
<p><strong>{{.FullName}}</strong> ({{.Email}}) s'est inscrit à
<strong>{{.FormationTitle}}</strong>.</p>
{{if .Phone}}<p>Téléphone : {{.Phone}}</p>{{end}}
{{if .Message}}<p>Message : {{.Message}}</p>{{end}}
`))

// AdminRegistrationNotice builds the admin notification for a new
// registration.
func AdminRegistrationNotice(adminEmail string, reg *model.Registration, formationTitle string) (Email, error) {
	var b strings.Builder
	err := adminRegistrationTmpl.Execute(&b, map[string]string{
		"FullName":       reg.FullName,
		"Email":          reg.Email,
		"Phone":          reg.Phone,
		"Message":        reg.Message,
		"FormationTitle": formationTitle,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render admin registration notice: %w", err)
	}
	return Email{
		To:      adminEmail,
		Subject: "Nouvelle inscription — " + formationTitle,
		HTML:    b.String(),
	}, nil
}

var paymentReceiptTmpl = template.Must(template.New("receipt").Parse(`
<h2>Paiement reçu</h2>
<p>Bonjour {{.FullName}},</p>
<p>Nous avons bien reçu ton paiement pour
<strong>{{.FormationTitle}}</strong>.</p>
{{if .Reference}}<p>Référence : {{.Reference}}</p>{{end}}
`))

// PaymentReceipt builds the payment-received email.
func PaymentReceipt(reg *model.Registration, formationTitle string) (Email, error) {
	var b strings.Builder
	err := paymentReceiptTmpl.Execute(&b, map[string]string{
		"FullName":       reg.FullName,
		"FormationTitle": formationTitle,
		"Reference":      reg.PaymentReference,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render payment receipt: %w", err)
	}
	return Email{
		To:      reg.Email,
		Subject: "Paiement reçu — " + formationTitle,
		HTML:    b.String(),
	}, nil
}

var noticeTmpl = template.Must(template.New("notice").Parse(`
<p>Bonjour {{.FullName}},</p>
<p>{{.Body}}</p>
`))

// Notice builds a custom admin notice to a registrant.
func Notice(reg *model.Registration, subject, body string) (Email, error) {
	var b strings.Builder
	err := noticeTmpl.Execute(&b, map[string]string{
		"FullName": reg.FullName,
		"Body":     body,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render notice email: %w", err)
	}
	return Email{To: reg.Email, Subject: subject, HTML: b.String()}, nil
}

var contactNotifyTmpl = template.Must(template.New("contactNotify").Parse(`
<h2>Nouveau message</h2>
<p><strong>{{.FullName}}</strong> ({{.Email}}) — {{.MessageType}}</p>
{{if .Subject}}<p>Sujet : {{.Subject}}</p>{{end}}
{{if .ProjectType}}<p>Type de projet : {{.ProjectType}}</p>{{end}}
{{if .BudgetRange}}<p>Budget : {{.BudgetRange}}</p>{{end}}
<blockquote>{{.Body}}</blockquote>
`))

// ContactNotify builds the admin notification for an inbound message.
func ContactNotify(adminEmail string, m *model.Message) (Email, error) {
	var b strings.Builder
	err := contactNotifyTmpl.Execute(&b, map[string]string{
		"FullName":    m.FullName,
		"Email":       m.Email,
		"MessageType": m.MessageType,
		"Subject":     m.Subject,
		"ProjectType": m.ProjectType,
		"BudgetRange": m.BudgetRange,
		"Body":        m.Body,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render contact notification: %w", err)
	}
	return Email{
		To:      adminEmail,
		Subject: "Nouveau message de " + m.FullName,
		HTML:    b.String(),
	}, nil
}

var autoReplyTmpl = template.Must(template.New("autoReply").Parse(`
<p>Bonjour {{.FullName}},</p>
<p>Merci pour ton message, je te réponds au plus vite.</p>
`))

// AutoReply builds the automatic acknowledgement to the sender.
func AutoReply(m *model.Message) (Email, error) {
	var b strings.Builder
	err := autoReplyTmpl.Execute(&b, map[string]string{"FullName": m.FullName})
	if err != nil {
		return Email{}, fmt.Errorf("render auto-reply: %w", err)
	}
	return Email{
		To:      m.Email,
		Subject: "Message bien reçu",
		HTML:    b.String(),
	}, nil
}

var replyTmpl = template.Must(template.New("reply").Parse(`
<p>Bonjour {{.FullName}},</p>
<p>{{.Reply}}</p>
<hr>
<p>Ton message d'origine :</p>
<blockquote>{{.Original}}</blockquote>
`))

// Reply builds the admin reply email, quoting the original message.
func Reply(m *model.Message, reply string) (Email, error) {
	var b strings.Builder
	err := replyTmpl.Execute(&b, map[string]string{
		"FullName": m.FullName,
		"Reply":    reply,
		"Original": m.Body,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render reply email: %w", err)
	}
	subject := "Re: " + m.Subject
	if m.Subject == "" {
		subject = "Re: ton message"
	}
	return Email{To: m.Email, Subject: subject, HTML: b.String()}, nil
}
