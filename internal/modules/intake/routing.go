package intake

import (
	"net/url"
	"strings"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

const googleWriteReviewURL = "https://search.google.com/local/writereview?placeid="

type RoutingDecision struct {
	Category         feedback.Category `json:"category"`
	RoutedTo         feedback.RoutedTo `json:"routedTo"`
	ReviewURL        *string           `json:"reviewUrl"`
	ShowPublicPrompt bool              `json:"showPublicPrompt"`
	AlertRequired    bool              `json:"alertRequired"`
}

// Classify maps a score to its sentiment category using fixed cutoffs.
func Classify(score int) feedback.Category {
	switch {
	case score >= 9:
		return feedback.CategoryPromoter
	case score >= 7:
		return feedback.CategoryPassive
	default:
		return feedback.CategoryDetractor
	}
}

type routeOptions struct {
	threshold int
	enabled   bool
}

type RouteOption func(*routeOptions)

// WithThreshold sets the minimum score steered to the public review destination.
func WithThreshold(threshold int) RouteOption {
	return func(o *routeOptions) { o.threshold = threshold }
}

func WithRoutingEnabled(enabled bool) RouteOption {
	return func(o *routeOptions) { o.enabled = enabled }
}

// Route decides where a respondent goes next. The routing threshold is configurable, the
// category always uses the fixed cutoffs of Classify.
func Route(score int, destination string, opts ...RouteOption) RoutingDecision {
	o := routeOptions{threshold: survey.DefaultReviewThreshold, enabled: true}
	for _, opt := range opts {
		opt(&o)
	}

	category := Classify(score)
	destination = strings.TrimSpace(destination)

	switch {
	case score >= o.threshold && destination != "" && o.enabled:
		u := ReviewURL(destination)
		return RoutingDecision{
			Category:         category,
			RoutedTo:         feedback.RoutedPublicReview,
			ReviewURL:        &u,
			ShowPublicPrompt: true,
		}
	case category == feedback.CategoryDetractor:
		return RoutingDecision{
			Category:      category,
			RoutedTo:      feedback.RoutedInternal,
			AlertRequired: true,
		}
	default:
		return RoutingDecision{Category: category, RoutedTo: feedback.RoutedNone}
	}
}

// ReviewURL turns a destination into a link. Full http(s) URLs pass through; anything else
// is treated as a Google place id.
func ReviewURL(destination string) string {
	d := strings.TrimSpace(destination)
	lower := strings.ToLower(d)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return d
	}
	return googleWriteReviewURL + url.QueryEscape(d)
}

// EmployeeOverride keeps staff feedback internal: no public prompt and no alert.
func EmployeeOverride(d RoutingDecision) RoutingDecision {
	return RoutingDecision{Category: d.Category, RoutedTo: feedback.RoutedNone}
}
