package mailer

import (
	_ "embed"
	"html/template"
	"strings"
)

//go:embed templates/forget_password.html
var forgetPasswordHTML string

var forgetPasswordTmpl = template.Must(template.New("forget_password").Parse(forgetPasswordHTML))

// RenderResetEmail renders the password-reset email body.
func RenderResetEmail(name, resetLink string) (string, error) {
	var b strings.Builder
	err := forgetPasswordTmpl.Execute(&b, struct {
		Name      string
		ResetLink string
	}{Name: name, ResetLink: resetLink})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
