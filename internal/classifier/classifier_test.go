package classifier_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/ioozy/scamwatch/internal/classifier"
	"github.com/ioozy/scamwatch/internal/conversation"
	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/llm"
	"github.com/ioozy/scamwatch/internal/rules"
)

// stubGateway observes fallback invocations and replays a fixed result.
type stubGateway struct {
	mu     sync.Mutex
	result *llm.Result
	calls  int
}

func (s *stubGateway) Classify(_ context.Context, _ string) *llm.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.result == nil {
		return llm.SafeDefault()
	}
	return s.result
}

func (s *stubGateway) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newClassifier(t *testing.T, gw classifier.FallbackGateway) *classifier.Classifier {
	t.Helper()
	engine, err := rules.NewEngine(rules.DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	store := conversation.NewStore(nil)
	return classifier.New(nil, engine, gw, store, classifier.Config{Version: "test"})
}

func TestClassify_TwoDistinctCategoriesStaysLocal(t *testing.T) {
	gw := &stubGateway{}
	c := newClassifier(t, gw)

	result := c.Classify(context.Background(), "u1", "這是銀行帳號 000-123-456，現在轉過去就能解凍")

	if gw.Calls() != 0 {
		t.Errorf("fallback invoked %d times for locally sufficient signal", gw.Calls())
	}
	if result.Origin != domain.OriginRuleBased {
		t.Errorf("origin = %s, want rule_based", result.Origin)
	}
	if result.Stage != domain.StagePaymentCoaching {
		t.Errorf("stage = %d, want 4", result.Stage)
	}
	want := []domain.Category{domain.CategoryCrisis, domain.CategoryPayment}
	if !reflect.DeepEqual(result.Labels, want) {
		t.Errorf("labels = %v, want %v", result.Labels, want)
	}
}

func TestClassify_SingleCategoryInvokesFallback(t *testing.T) {
	gw := &stubGateway{result: &llm.Result{
		Stage:  domain.StageCrisisStory,
		Labels: []domain.Category{domain.CategoryUrgency, domain.CategoryCrisis},
	}}
	c := newClassifier(t, gw)

	// Repeated urgency keywords: several hits, one category, weak evidence.
	result := c.Classify(context.Background(), "u1", "urgent! reply immediately, asap")

	if gw.Calls() != 1 {
		t.Fatalf("fallback calls = %d, want 1", gw.Calls())
	}
	if result.Origin != domain.OriginFallback {
		t.Errorf("origin = %s, want fallback", result.Origin)
	}
	if result.Stage != domain.StageCrisisStory {
		t.Errorf("stage = %d, want 3 (adopted verbatim)", result.Stage)
	}
}

func TestClassify_NoMatchesInvokesFallback(t *testing.T) {
	gw := &stubGateway{}
	c := newClassifier(t, gw)

	c.Classify(context.Background(), "u1", "今天天氣真好")

	if gw.Calls() != 1 {
		t.Errorf("fallback calls = %d, want 1", gw.Calls())
	}
}

func TestClassify_FallbackFailureYieldsNoSignal(t *testing.T) {
	// A gateway that degraded to the safe default (its contract on failure).
	gw := &stubGateway{result: llm.SafeDefault()}
	c := newClassifier(t, gw)

	result := c.Classify(context.Background(), "u1", "hello there")

	if result.Stage < domain.MinStage || result.Stage > domain.MaxStage {
		t.Errorf("stage %d out of range", result.Stage)
	}
	if !result.NoSignal() {
		t.Errorf("labels = %v, want the no-signal marker", result.Labels)
	}
	if domain.ShouldWarn(result) {
		t.Error("no-signal result must not trigger the warning policy")
	}
}

func TestClassify_MedicalUrgencyScenario(t *testing.T) {
	gw := &stubGateway{}
	c := newClassifier(t, gw)

	result := c.Classify(context.Background(), "u1", "我急需 5000 付媽媽醫藥費")

	// Crisis and payment phrasing both present: local, stage 4.
	if gw.Calls() != 0 {
		t.Errorf("fallback invoked %d times", gw.Calls())
	}
	if result.Stage != domain.StagePaymentCoaching {
		t.Errorf("stage = %d, want 4", result.Stage)
	}
	if !domain.ShouldWarn(result) {
		t.Error("payment-stage result must warn")
	}
}

func TestClassify_CommitsResultAndHistoryTogether(t *testing.T) {
	gw := &stubGateway{}
	c := newClassifier(t, gw)
	ctx := context.Background()

	first := c.Classify(ctx, "u1", "sweetheart my love, miss you")
	second := c.Classify(ctx, "u1", "wire 5000 dollars now, urgent")

	last, ok := c.LastResult("u1")
	if !ok {
		t.Fatal("no last result stored")
	}
	if last != second {
		t.Errorf("last result = %+v, want the second message's result", last)
	}
	if first == second {
		t.Error("results must be distinct immutable values")
	}

	want := []string{"sweetheart my love, miss you", "wire 5000 dollars now, urgent"}
	if got := c.History("u1"); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
}

func TestClassify_CancelledContextCommitsNothing(t *testing.T) {
	gw := &stubGateway{result: &llm.Result{Stage: domain.StagePaymentCoaching}}
	c := newClassifier(t, gw)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.Classify(ctx, "u1", "hello")

	if result == nil {
		t.Fatal("caller must still receive a well-formed result")
	}
	if _, ok := c.LastResult("u1"); ok {
		t.Error("cancelled request committed a last result")
	}
	if len(c.History("u1")) != 0 {
		t.Error("cancelled request appended history")
	}
}

// auditRecorder captures audit rows and can be told to fail.
type auditRecorder struct {
	mu      sync.Mutex
	results []*domain.ClassificationResult
	err     error
}

func (a *auditRecorder) Record(_ context.Context, r *domain.ClassificationResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.results = append(a.results, r)
	return nil
}

func TestClassify_AuditFailureDoesNotFailClassification(t *testing.T) {
	engine, err := rules.NewEngine(rules.DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	audit := &auditRecorder{err: errors.New("disk full")}
	c := classifier.New(nil, engine, &stubGateway{}, conversation.NewStore(nil), classifier.Config{
		Version: "test",
		Audit:   audit,
	})

	result := c.Classify(context.Background(), "u1", "這是銀行帳號 000-123-456，現在轉過去就能解凍")
	if result == nil || result.Stage != domain.StagePaymentCoaching {
		t.Errorf("classification degraded by audit failure: %+v", result)
	}
}
