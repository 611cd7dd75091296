package domain_test

import (
	"testing"

	"github.com/ioozy/scamwatch/internal/domain"
)

func TestClampStage(t *testing.T) {
	testCases := []struct {
		name string
		in   int
		want domain.Stage
	}{
		{name: "below range", in: -3, want: domain.StageDiscovery},
		{name: "lower bound", in: 0, want: domain.StageDiscovery},
		{name: "in range", in: 3, want: domain.StageCrisisStory},
		{name: "upper bound", in: 5, want: domain.StageAftermath},
		{name: "above range", in: 11, want: domain.StageAftermath},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.ClampStage(tc.in); got != tc.want {
				t.Errorf("ClampStage(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := domain.ParseCategory("payment"); !ok || c != domain.CategoryPayment {
		t.Errorf("ParseCategory(payment) = %q, %v", c, ok)
	}
	if _, ok := domain.ParseCategory("pig_butchering"); ok {
		t.Error("ParseCategory accepted a label outside the closed set")
	}
	// The no-signal marker is a result marker, not a parseable tactic.
	if _, ok := domain.ParseCategory(string(domain.LabelNoSignal)); ok {
		t.Error("ParseCategory accepted the no-signal marker")
	}
}

func TestNormalizeLabels(t *testing.T) {
	got := domain.NormalizeLabels(nil)
	if len(got) != 1 || got[0] != domain.LabelNoSignal {
		t.Errorf("NormalizeLabels(nil) = %v, want [%s]", got, domain.LabelNoSignal)
	}

	in := []domain.Category{domain.CategoryCrisis}
	got = domain.NormalizeLabels(in)
	if len(got) != 1 || got[0] != domain.CategoryCrisis {
		t.Errorf("NormalizeLabels(%v) = %v", in, got)
	}
}

func TestShouldWarn(t *testing.T) {
	testCases := []struct {
		name   string
		result *domain.ClassificationResult
		want   bool
	}{
		{
			name: "stage three warns",
			result: &domain.ClassificationResult{
				Stage:  domain.StageCrisisStory,
				Labels: []domain.Category{domain.CategoryCrisis},
			},
			want: true,
		},
		{
			name: "payment label warns at low stage",
			result: &domain.ClassificationResult{
				Stage:  domain.StageDiscovery,
				Labels: []domain.Category{domain.CategoryPayment},
			},
			want: true,
		},
		{
			name: "low stage without payment does not warn",
			result: &domain.ClassificationResult{
				Stage:  domain.StageTestingTrust,
				Labels: []domain.Category{domain.CategoryAuthority},
			},
			want: false,
		},
		{
			name: "no-signal never warns",
			result: &domain.ClassificationResult{
				Stage:  domain.StageDiscovery,
				Labels: []domain.Category{domain.LabelNoSignal},
			},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.ShouldWarn(tc.result); got != tc.want {
				t.Errorf("ShouldWarn() = %v, want %v", got, tc.want)
			}
		})
	}
}
