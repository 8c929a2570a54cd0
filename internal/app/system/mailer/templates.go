// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// MagicLinkEmailData holds data for the sign-in email.
type MagicLinkEmailData struct {
	SiteName  string
	Name      string // may be empty on first request
	MagicLink string
	ExpiresIn string // e.g. "15 minutes"
}

// BuildMagicLinkEmail creates the sign-in email with both HTML and text bodies.
// The caller sets To.
func BuildMagicLinkEmail(data MagicLinkEmailData) (Email, error) {
	html, err := renderHTML(magicLinkTemplate, data)
	if err != nil {
		return Email{}, err
	}
	return Email{
		Subject:  fmt.Sprintf("Your %s sign-in link", data.SiteName),
		TextBody: magicLinkText(data),
		HTMLBody: html,
	}, nil
}

func magicLinkText(data MagicLinkEmailData) string {
	var buf bytes.Buffer
	if data.Name != "" {
		fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	}
	fmt.Fprintf(&buf, "Use this link to sign in to %s:\n", data.SiteName)
	buf.WriteString(data.MagicLink + "\n\n")
	fmt.Fprintf(&buf, "The link works once and expires in %s.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not ask to sign in, you can ignore this email.\n")
	return buf.String()
}

var magicLinkTemplate = template.Must(template.New("magiclink").Parse(magicLinkHTML))

func renderHTML(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// FormatExpiry renders d for humans: "15 minutes", "1 hour", "90 seconds".
func FormatExpiry(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

const magicLinkHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Sign in</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{if .Name}}Hi {{.Name}}, click{{else}}Click{{end}} the button below to sign in to the placement portal.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.MagicLink}}" style="display: inline-block; padding: 14px 32px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Sign In
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                The link works once and expires in {{.ExpiresIn}}.
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you did not ask to sign in, you can ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
