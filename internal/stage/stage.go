// Package stage maps per-category hit counts to a scam progression stage.
package stage

import "github.com/ioozy/scamwatch/internal/domain"

// Counts maps each tactic category to its distinct hit count for one
// message.
type Counts map[domain.Category]int

// branch is one guarded step of the inference cascade.
type branch struct {
	stage domain.Stage
	when  func(Counts) bool
}

// cascade is evaluated top to bottom, first match wins. The ordering is
// load-bearing: the payment/severe-crisis branch is a superset-priority
// check relative to the branches below it and must stay first.
var cascade = []branch{
	{
		// Payment coaching: any payment signal, or a crisis story told
		// through more than one distinct token.
		stage: domain.StagePaymentCoaching,
		when: func(c Counts) bool {
			return c[domain.CategoryPayment] > 0 || c[domain.CategoryCrisis] > 1
		},
	},
	{
		// Crisis story pushed with urgency.
		stage: domain.StageCrisisStory,
		when: func(c Counts) bool {
			return c[domain.CategoryCrisis] > 0 && c[domain.CategoryUrgency] > 0
		},
	},
	{
		// Authority combined with similarity or urgency: trust testing.
		stage: domain.StageTestingTrust,
		when: func(c Counts) bool {
			return c[domain.CategoryAuthority] > 0 &&
				(c[domain.CategorySimilarity] > 0 || c[domain.CategoryUrgency] > 0)
		},
	},
	{
		// High-frequency grooming.
		stage: domain.StageGrooming,
		when: func(c Counts) bool {
			return c[domain.CategorySimilarity]+c[domain.CategoryRomance] >= 3
		},
	},
}

// Infer returns the stage for the given hit counts. Total: every input
// falls through to discovery when no branch fires.
func Infer(c Counts) domain.Stage {
	for _, b := range cascade {
		if b.when(c) {
			return b.stage
		}
	}
	return domain.StageDiscovery
}
