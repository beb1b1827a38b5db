package intake

import (
	"fmt"
	"testing"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
)

func TestClassify(t *testing.T) {
	want := map[int]feedback.Category{
		0: feedback.CategoryDetractor, 1: feedback.CategoryDetractor, 2: feedback.CategoryDetractor,
		3: feedback.CategoryDetractor, 4: feedback.CategoryDetractor, 5: feedback.CategoryDetractor,
		6: feedback.CategoryDetractor, 7: feedback.CategoryPassive, 8: feedback.CategoryPassive,
		9: feedback.CategoryPromoter, 10: feedback.CategoryPromoter,
	}
	for score := 0; score <= 10; score++ {
		if got := Classify(score); got != want[score] {
			t.Fatalf("Classify(%d): want %s got %s", score, want[score], got)
		}
	}
}

func TestRoute_CrossProduct(t *testing.T) {
	for _, score := range []int{0, 6, 7, 8, 9, 10} {
		for _, dest := range []string{"", "ChIJplace"} {
			for _, threshold := range []int{9, 8} {
				for _, enabled := range []bool{true, false} {
					name := fmt.Sprintf("score=%d dest=%q threshold=%d enabled=%v", score, dest, threshold, enabled)
					t.Run(name, func(t *testing.T) {
						d := Route(score, dest, WithThreshold(threshold), WithRoutingEnabled(enabled))

						if d.Category != Classify(score) {
							t.Fatalf("category: want %s got %s", Classify(score), d.Category)
						}
						if d.AlertRequired != (d.Category == feedback.CategoryDetractor) {
							t.Fatalf("alertRequired must mirror detractor: %+v", d)
						}

						public := score >= threshold && dest != "" && enabled
						switch {
						case public:
							if d.RoutedTo != feedback.RoutedPublicReview || !d.ShowPublicPrompt || d.ReviewURL == nil {
								t.Fatalf("expected public review: %+v", d)
							}
						case d.Category == feedback.CategoryDetractor:
							if d.RoutedTo != feedback.RoutedInternal || d.ShowPublicPrompt || d.ReviewURL != nil {
								t.Fatalf("expected internal: %+v", d)
							}
						default:
							if d.RoutedTo != feedback.RoutedNone || d.ShowPublicPrompt || d.ReviewURL != nil {
								t.Fatalf("expected none: %+v", d)
							}
						}
					})
				}
			}
		}
	}
}

func TestRoute_Examples(t *testing.T) {
	d := Route(10, "X")
	if d.Category != feedback.CategoryPromoter || d.RoutedTo != feedback.RoutedPublicReview || !d.ShowPublicPrompt {
		t.Fatalf("score 10 with destination: %+v", d)
	}
	d = Route(10, "")
	if d.Category != feedback.CategoryPromoter || d.RoutedTo != feedback.RoutedNone || d.ShowPublicPrompt {
		t.Fatalf("score 10 without destination: %+v", d)
	}
	if d = Route(8, "X", WithThreshold(8)); d.RoutedTo != feedback.RoutedPublicReview {
		t.Fatalf("score 8 threshold 8: %+v", d)
	}
	if d.Category != feedback.CategoryPassive {
		t.Fatalf("category must keep fixed cutoffs: %s", d.Category)
	}
	if d = Route(8, "X", WithThreshold(9)); d.RoutedTo == feedback.RoutedPublicReview {
		t.Fatalf("score 8 threshold 9: %+v", d)
	}
	for _, dest := range []string{"", "X"} {
		d = Route(6, dest)
		if d.Category != feedback.CategoryDetractor || d.RoutedTo != feedback.RoutedInternal || !d.AlertRequired {
			t.Fatalf("score 6 dest=%q: %+v", dest, d)
		}
	}
}

func TestRoute_LowThresholdPromotesDetractor(t *testing.T) {
	d := Route(5, "X", WithThreshold(5))
	if d.RoutedTo != feedback.RoutedPublicReview || d.AlertRequired || d.Category != feedback.CategoryDetractor {
		t.Fatalf("unexpected: %+v", d)
	}
}

func TestReviewURL(t *testing.T) {
	tests := map[string]string{
		"https://g.page/r/abc/review": "https://g.page/r/abc/review",
		"HTTP://example.test/review":  "HTTP://example.test/review",
		"ChIJN1t_tDeuEmsRUsoyG83frY4": "https://search.google.com/local/writereview?placeid=ChIJN1t_tDeuEmsRUsoyG83frY4",
		" place id&x ":                "https://search.google.com/local/writereview?placeid=place+id%26x",
	}
	for in, want := range tests {
		if got := ReviewURL(in); got != want {
			t.Fatalf("ReviewURL(%q): want %q got %q", in, want, got)
		}
	}
}

func TestEmployeeOverride(t *testing.T) {
	for _, d := range []RoutingDecision{Route(10, "X"), Route(2, "")} {
		o := EmployeeOverride(d)
		if o.Category != d.Category || o.RoutedTo != feedback.RoutedNone || o.AlertRequired || o.ShowPublicPrompt || o.ReviewURL != nil {
			t.Fatalf("unexpected override: %+v", o)
		}
	}
}
