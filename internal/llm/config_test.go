package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTemperature, config.Temperature)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "gemini-custom")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-custom", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, config.Temperature, newConfig.Temperature)
}

func TestWithModel_EmptyKeepsTier(t *testing.T) {
	newConfig := DefaultConfig().WithModel(TierStandard, "")
	assert.Equal(t, "gemini-2.5-flash", newConfig.GetModel(TierStandard))
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		name string
		want ModelTier
	}{
		{"lite", TierLite},
		{"Standard", TierStandard},
		{" advanced ", TierAdvanced},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseTier("ultra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model tier "ultra"`)
}
