package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

const maxExcerpt = 280

// Composer renders notification text. BaseURL is the dashboard origin used for links.
type Composer struct {
	BaseURL string
}

func (c Composer) link(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return path
	}
	return base + path
}

// Alert builds the detractor alert for a practice.
func (c Composer) Alert(p survey.Practice, s survey.Survey, resp feedback.Response, alert feedback.Alert) Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "A respondent to %q gave a score of %d/10.\n", s.Title, resp.Score)
	if resp.FreeText != nil && *resp.FreeText != "" {
		fmt.Fprintf(&b, "\nThey wrote:\n%s\n", excerpt(*resp.FreeText))
	}
	fmt.Fprintf(&b, "\nReview and follow up: %s\n", c.link("/alerts/"+alert.ID.String()))

	return Notification{
		ID:         uuid.New(),
		Kind:       KindAlert,
		PracticeID: p.ID,
		To:         p.AlertEmail,
		Subject:    fmt.Sprintf("New detractor feedback for %s (score %d)", p.Name, resp.Score),
		Text:       b.String(),
		Data: map[string]string{
			"alert_id":    alert.ID.String(),
			"response_id": resp.ID.String(),
			"survey_id":   s.ID.String(),
		},
	}
}

// QuotaWarning builds the notice sent when a practice reaches level percent of its ceiling.
func (c Composer) QuotaWarning(p survey.Practice, level, count, ceiling int, period string) Notification {
	subject := fmt.Sprintf("%s has used %d%% of this month's survey responses", p.Name, level)
	body := fmt.Sprintf(
		"Your practice has collected %d of %d responses included in your plan for %s.\n",
		count, ceiling, period,
	)
	if level >= 100 {
		subject = fmt.Sprintf("%s has reached this month's survey response limit", p.Name)
		body += "New submissions will be declined until next month unless you upgrade.\n"
	}
	body += fmt.Sprintf("\nManage your plan: %s\n", c.link("/settings/billing"))

	return Notification{
		ID:         uuid.New(),
		Kind:       KindQuotaWarning,
		PracticeID: p.ID,
		To:         p.WarningRecipient(),
		Subject:    subject,
		Text:       body,
		Data: map[string]string{
			"level":   strconv.Itoa(level),
			"count":   strconv.Itoa(count),
			"ceiling": strconv.Itoa(ceiling),
			"period":  period,
		},
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxExcerpt {
		return s
	}
	return string(r[:maxExcerpt]) + "…"
}
