package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
)

const (
	defaultTitle   = "Policy change detected"
	defaultSummary = "A change was detected in the policy document."
	maxTitleRunes  = 500
)

// rawClassification is the model's reply before validation.
type rawClassification struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Severity *string `json:"severity"`
}

// Fallback is used whenever no provider answer is available.
func Fallback(serviceName string) Classification {
	return Classification{
		Title:    fmt.Sprintf("%s policy updated", serviceName),
		Summary:  fmt.Sprintf("A change was detected in %s's policy. Review the diff for details.", serviceName),
		Severity: models.SeverityMinor,
	}
}

// parseReply extracts the outermost JSON object from text and normalizes it.
func parseReply(text string) (Classification, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Classification{}, common.NewError("no JSON object in model reply")
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Classification{}, common.WrapError(err, "failed to decode model reply")
	}
	return normalize(raw), nil
}

func normalize(raw rawClassification) Classification {
	out := Classification{
		Title:    defaultTitle,
		Summary:  defaultSummary,
		Severity: models.SeverityMinor,
	}
	if raw.Title != nil {
		out.Title = truncateRunes(*raw.Title, maxTitleRunes)
	}
	if raw.Summary != nil {
		out.Summary = *raw.Summary
	}
	if raw.Severity != nil {
		out.Severity, _ = models.ParseSeverity(*raw.Severity)
	}
	return out
}
