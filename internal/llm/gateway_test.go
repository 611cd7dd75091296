package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/llm"
)

func TestGateway_Classify_ValidResult(t *testing.T) {
	stub := &llm.StubClient{
		Result: &llm.RawResult{Stage: 3, Labels: []string{"urgency", "crisis"}},
	}
	gw := llm.NewGateway(stub, llm.GatewayConfig{}, nil, nil)

	got := gw.Classify(context.Background(), "我急需付媽媽醫藥費")

	if got.Stage != domain.StageCrisisStory {
		t.Errorf("stage = %d, want %d", got.Stage, domain.StageCrisisStory)
	}
	want := []domain.Category{domain.CategoryUrgency, domain.CategoryCrisis}
	if len(got.Labels) != len(want) {
		t.Fatalf("labels = %v, want %v", got.Labels, want)
	}
	for i, c := range want {
		if got.Labels[i] != c {
			t.Errorf("labels[%d] = %s, want %s", i, got.Labels[i], c)
		}
	}
}

func TestGateway_Classify_ClampsOutOfRangeStage(t *testing.T) {
	testCases := []struct {
		name string
		in   int
		want domain.Stage
	}{
		{name: "above range", in: 9, want: domain.StageAftermath},
		{name: "below range", in: -2, want: domain.StageDiscovery},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &llm.StubClient{Result: &llm.RawResult{Stage: tc.in, Labels: []string{"payment"}}}
			gw := llm.NewGateway(stub, llm.GatewayConfig{}, nil, nil)

			if got := gw.Classify(context.Background(), "x"); got.Stage != tc.want {
				t.Errorf("stage = %d, want %d", got.Stage, tc.want)
			}
		})
	}
}

func TestGateway_Classify_DropsUnknownLabels(t *testing.T) {
	stub := &llm.StubClient{
		Result: &llm.RawResult{Stage: 2, Labels: []string{"authority", "hypnosis", "authority"}},
	}
	gw := llm.NewGateway(stub, llm.GatewayConfig{}, nil, nil)

	got := gw.Classify(context.Background(), "x")
	if len(got.Labels) != 1 || got.Labels[0] != domain.CategoryAuthority {
		t.Errorf("labels = %v, want [authority]", got.Labels)
	}
}

func TestGateway_Classify_ErrorYieldsSafeDefault(t *testing.T) {
	stub := &llm.StubClient{Err: errors.New("boom")}
	gw := llm.NewGateway(stub, llm.GatewayConfig{}, nil, nil)

	got := gw.Classify(context.Background(), "x")

	if got.Stage != domain.StageDiscovery {
		t.Errorf("stage = %d, want safe default 0", got.Stage)
	}
	if len(got.Labels) != 0 {
		t.Errorf("labels = %v, want empty", got.Labels)
	}
}

func TestGateway_Classify_TimeoutYieldsSafeDefault(t *testing.T) {
	gw := llm.NewGateway(slowClient{}, llm.GatewayConfig{Timeout: 10 * time.Millisecond}, nil, nil)

	got := gw.Classify(context.Background(), "x")
	if got.Stage != domain.StageDiscovery || len(got.Labels) != 0 {
		t.Errorf("got %+v, want safe default", got)
	}
}

func TestGateway_Classify_RateLimitYieldsSafeDefault(t *testing.T) {
	stub := &llm.StubClient{Result: &llm.RawResult{Stage: 4, Labels: []string{"payment"}}}
	gw := llm.NewGateway(stub, llm.GatewayConfig{RPS: 1, Burst: 1}, nil, nil)

	// First call consumes the only token; the second degrades.
	first := gw.Classify(context.Background(), "x")
	if first.Stage != domain.StagePaymentCoaching {
		t.Fatalf("first call stage = %d, want 4", first.Stage)
	}

	second := gw.Classify(context.Background(), "x")
	if second.Stage != domain.StageDiscovery || len(second.Labels) != 0 {
		t.Errorf("rate-limited call got %+v, want safe default", second)
	}
	if stub.Calls() != 1 {
		t.Errorf("client calls = %d, want 1 (second call never reached it)", stub.Calls())
	}
}

// slowClient blocks until its context is cancelled.
type slowClient struct{}

func (slowClient) Classify(ctx context.Context, _ string) (*llm.RawResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
