// Package templates renders the HTML bodies of outgoing emails.
package templates

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

var parsed = template.Must(template.ParseFS(files, "*.html"))

// VerificationData fills the email verification body.
type VerificationData struct {
	AppName   string
	LogoURL   string
	Name      string
	Code      string
	ExpiresIn string
}

// PasswordResetData fills the password reset body.
type PasswordResetData struct {
	AppName   string
	LogoURL   string
	Name      string
	Link      string
	ExpiresIn string
}

func RenderVerification(data VerificationData) (string, error) {
	return render("verification.html", data)
}

func RenderPasswordReset(data PasswordResetData) (string, error) {
	return render("password_reset.html", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
