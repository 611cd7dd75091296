package stage_test

import (
	"testing"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/stage"
)

func TestInfer_Cascade(t *testing.T) {
	testCases := []struct {
		name   string
		counts stage.Counts
		want   domain.Stage
	}{
		{
			name:   "payment dominates everything",
			counts: stage.Counts{domain.CategoryPayment: 1, domain.CategoryCrisis: 1, domain.CategoryUrgency: 3, domain.CategoryAuthority: 2},
			want:   domain.StagePaymentCoaching,
		},
		{
			name:   "double crisis without payment is still stage four",
			counts: stage.Counts{domain.CategoryCrisis: 2},
			want:   domain.StagePaymentCoaching,
		},
		{
			name:   "crisis plus urgency",
			counts: stage.Counts{domain.CategoryCrisis: 1, domain.CategoryUrgency: 1},
			want:   domain.StageCrisisStory,
		},
		{
			name:   "crisis alone is not a crisis story",
			counts: stage.Counts{domain.CategoryCrisis: 1},
			want:   domain.StageDiscovery,
		},
		{
			name:   "authority with similarity",
			counts: stage.Counts{domain.CategoryAuthority: 1, domain.CategorySimilarity: 1},
			want:   domain.StageTestingTrust,
		},
		{
			name:   "authority with urgency",
			counts: stage.Counts{domain.CategoryAuthority: 2, domain.CategoryUrgency: 1},
			want:   domain.StageTestingTrust,
		},
		{
			name:   "authority alone",
			counts: stage.Counts{domain.CategoryAuthority: 3},
			want:   domain.StageDiscovery,
		},
		{
			name:   "grooming intensity threshold",
			counts: stage.Counts{domain.CategorySimilarity: 1, domain.CategoryRomance: 2},
			want:   domain.StageGrooming,
		},
		{
			name:   "grooming below threshold",
			counts: stage.Counts{domain.CategorySimilarity: 1, domain.CategoryRomance: 1},
			want:   domain.StageDiscovery,
		},
		{
			name:   "empty counts",
			counts: stage.Counts{},
			want:   domain.StageDiscovery,
		},
		{
			name:   "nil counts",
			counts: nil,
			want:   domain.StageDiscovery,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stage.Infer(tc.counts); got != tc.want {
				t.Errorf("Infer(%v) = %d, want %d", tc.counts, got, tc.want)
			}
		})
	}
}

// Payment must win regardless of any other combination sharing its counts.
func TestInfer_PaymentPriorityProperty(t *testing.T) {
	others := []stage.Counts{
		{domain.CategoryCrisis: 1, domain.CategoryUrgency: 5},
		{domain.CategoryAuthority: 4, domain.CategorySimilarity: 4},
		{domain.CategorySimilarity: 9, domain.CategoryRomance: 9},
		{},
	}

	for _, c := range others {
		c[domain.CategoryPayment] = 1
		if got := stage.Infer(c); got != domain.StagePaymentCoaching {
			t.Errorf("Infer(%v) = %d, want %d", c, got, domain.StagePaymentCoaching)
		}
	}
}
