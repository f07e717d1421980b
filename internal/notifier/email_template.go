package notifier

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/models"
)

var emailTemplate = template.Must(template.New("alert").Parse(`<div style="font-family: -apple-system, system-ui, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #16213e;">{{.Emoji}} {{.Title}}</h2>
    <p style="color: #666; font-size: 14px;">
        Service: <strong>{{.ServiceName}}</strong> &middot;
        Severity: <strong>{{.Severity}}</strong> &middot;
        {{.SectionsChanged}} section(s) changed
    </p>
    <div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
        <p style="margin: 0; line-height: 1.6;">{{.Summary}}</p>
    </div>
    <p>
        <a href="{{.URL}}" style="background: #4361ee; color: white; padding: 10px 20px; border-radius: 6px; text-decoration: none; display: inline-block;">View Full Diff &rarr;</a>
    </p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
    <p style="color: #999; font-size: 12px;">
        You're receiving this because you subscribed to {{.ServiceName}} policy alerts on ToS Monitor.
    </p>
</div>
`))

type emailView struct {
	Emoji           string
	Title           string
	ServiceName     string
	Severity        string
	SectionsChanged int
	Summary         string
	URL             string
}

// EmailSubject is "<emoji> <service>: <title>".
func EmailSubject(service models.Service, change models.Change) string {
	return change.Severity.Emoji() + " " + service.Name + ": " + change.Title
}

// RenderEmailBody renders the HTML alert for change.
func RenderEmailBody(service models.Service, change models.Change, appURL string) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailView{
		Emoji:           change.Severity.Emoji(),
		Title:           change.Title,
		ServiceName:     service.Name,
		Severity:        strings.ToUpper(string(change.Severity)),
		SectionsChanged: change.SectionsChanged,
		Summary:         change.Summary,
		URL:             models.ChangeURL(appURL, change.ID),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
