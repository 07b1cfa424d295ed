package enhance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/site-analyzer/internal/llm"
)

// fakeClient is an llm.Client that returns canned output.
type fakeClient struct {
	response string
	err      error
	panicMsg string
	block    bool

	prompt string
	tier   llm.ModelTier
	calls  int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.prompt = prompt
	f.tier = tier
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

const original = "We make widgets."

func TestEnhance_Success(t *testing.T) {
	client := &fakeClient{response: "  Acme crafts premium widgets for every workshop.  "}

	got := New(client).Enhance(context.Background(), original, "Acme")

	assert.True(t, got.WasEnhanced)
	assert.Equal(t, "Acme crafts premium widgets for every workshop.", got.Text)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, llm.TierStandard, client.tier)
}

func TestEnhance_BackendFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := &fakeClient{err: errors.New("quota exceeded")}

	got := New(client, WithLogger(zap.New(core))).Enhance(context.Background(), original, "Acme")

	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
	assert.EqualError(t, got.Err, "quota exceeded")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "description enhancement failed, keeping original", entry.Message)
	assert.Contains(t, entry.ContextMap()["error"], "quota exceeded")
}

func TestEnhance_EmptyResponseFallsBack(t *testing.T) {
	got := New(&fakeClient{response: "   \n"}).Enhance(context.Background(), original, "Acme")

	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
}

func TestEnhance_UnchangedResponse(t *testing.T) {
	got := New(&fakeClient{response: original + "\n"}).Enhance(context.Background(), original, "Acme")

	assert.NoError(t, got.Err)
	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
}

func TestEnhance_PanicFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := &fakeClient{panicMsg: "malformed response"}

	var got = New(client, WithLogger(zap.New(core))).Enhance(context.Background(), original, "Acme")

	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
	assert.Equal(t, 1, logs.Len())
}

func TestEnhance_NilClient(t *testing.T) {
	got := New(nil).Enhance(context.Background(), original, "Acme")

	assert.ErrorIs(t, got.Err, errNoClient)
	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
}

func TestEnhance_TimeoutFallsBack(t *testing.T) {
	client := &fakeClient{block: true}

	start := time.Now()
	got := New(client, WithTimeout(20*time.Millisecond)).Enhance(context.Background(), original, "Acme")

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, got.WasEnhanced)
	assert.Equal(t, original, got.Text)
}

func TestEnhance_PromptReferencesBrandAndText(t *testing.T) {
	client := &fakeClient{response: "Rewritten."}

	New(client).Enhance(context.Background(), original, "Acme")

	assert.Contains(t, client.prompt, "for Acme.")
	assert.Contains(t, client.prompt, original)
	assert.Contains(t, client.prompt, "one version only")
}

func TestBuildPrompt_AbsentBrand(t *testing.T) {
	prompt, err := BuildPrompt(original, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "for this website.")
	assert.NotContains(t, prompt, "{{.")
}

func TestWithTier(t *testing.T) {
	client := &fakeClient{response: "Rewritten."}

	New(client, WithTier(llm.TierLite)).Enhance(context.Background(), original, "Acme")

	assert.Equal(t, llm.TierLite, client.tier)
}
