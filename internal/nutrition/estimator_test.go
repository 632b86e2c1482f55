package nutrition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/extract"
	"github.com/realakshayk/good-eats/internal/metrics"
)

func newRuleOnlyEstimator() *Estimator {
	return newTestEstimator(nil)
}

func newTestEstimator(chat extract.ChatClient) *Estimator {
	e := NewEstimator(chat, internal.NewNopLogger(), metrics.NewRegistry(), time.Second)
	e.backoff = func() retry.Backoff { return retry.WithMaxRetries(3, retry.NewConstant(time.Millisecond)) }
	return e
}

func TestRuleEstimateUsesTemplateMidpoint(t *testing.T) {
	e := newRuleOnlyEstimator()
	est := e.Estimate(context.Background(), "Classic Burger", "beef patty with cheese")

	tpl := templates["burger"]
	assert.Equal(t, int(mid(tpl.Calories)), est.Calories)
	assert.Equal(t, mid(tpl.Protein), est.Protein)
	assert.Equal(t, internal.ConfidenceMedium, est.Confidence)
	assert.Equal(t, internal.OriginRule, est.Origin)
}

func TestRuleEstimateSpecificBeforeGeneric(t *testing.T) {
	e := newRuleOnlyEstimator()
	// "burrito bowl" matches both templates; the more specific one wins.
	est := e.Estimate(context.Background(), "Burrito Bowl", "")
	tpl := templates["burrito"]
	assert.Equal(t, int(mid(tpl.Calories)), est.Calories)
}

func TestManualDefaultWhenNothingMatches(t *testing.T) {
	e := newRuleOnlyEstimator()
	est := e.Estimate(context.Background(), "Mystery Item", "chef's surprise")
	assert.Equal(t, 400, est.Calories)
	assert.Equal(t, 20.0, est.Protein)
	assert.Equal(t, 40.0, est.Carbs)
	assert.Equal(t, 10.0, est.Fat)
	assert.Equal(t, internal.ConfidenceLow, est.Confidence)
	assert.Equal(t, internal.OriginManual, est.Origin)
}

type scriptedChat struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedChat) Complete(ctx context.Context, system string, shots []extract.Shot, user string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[len(s.replies)-1]
	if s.calls <= len(s.replies) {
		reply = s.replies[s.calls-1]
	}
	return reply, nil
}

func TestLLMEstimateParsed(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"calories": 520, "protein": 38, "carbs": 30, "fat": 22, "fiber": 4, "sugar": null, "sodium": 600}`,
	}}
	e := newTestEstimator(chat)
	est := e.Estimate(context.Background(), "Grilled Chicken Bowl", "chicken with quinoa")

	assert.Equal(t, 520, est.Calories)
	assert.Equal(t, 38.0, est.Protein)
	assert.Equal(t, internal.ConfidenceHigh, est.Confidence)
	assert.Equal(t, internal.OriginGPT, est.Origin)
	assert.NotNil(t, est.Fiber)
	assert.Nil(t, est.Sugar)
}

func TestLLMFailureFallsBackToRules(t *testing.T) {
	chat := &scriptedChat{err: errors.New("model overloaded")}
	e := newTestEstimator(chat)
	est := e.Estimate(context.Background(), "Classic Burger", "beef patty")

	assert.Equal(t, internal.OriginRule, est.Origin)
	assert.Equal(t, 4, chat.calls) // initial attempt plus three retries
}

func TestLLMMissingMacrosRetriesThenFallsBack(t *testing.T) {
	chat := &scriptedChat{replies: []string{`{"calories": 500}`}}
	e := newTestEstimator(chat)
	est := e.Estimate(context.Background(), "Mystery Item", "")

	assert.Equal(t, internal.OriginManual, est.Origin)
	assert.Equal(t, internal.ConfidenceLow, est.Confidence)
}
