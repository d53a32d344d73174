package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestNew_ShouldGenerateFromSampleSource(t *testing.T) {
	// Given
	ctx := testContext(t)
	a, err := New(ctx, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	// When
	result, err := a.Generator.Generate(ctx, "quarterly", domain.ReportOptions{})

	// Then
	require.NoError(t, err)
	assert.Contains(t, result.Document, `data-section="executiveSummary"`)
	assert.Equal(t, "Quarterly Business Review", result.Metadata.ReportName)
	assert.Equal(t, 1, a.Processor.CacheSize())
}

func TestNew_ShouldApplyEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "environments.ini")
	require.NoError(t, os.WriteFile(envPath, []byte("[staging]\nclient_name = Staging Co\nperformance.enable_caching = false\n"), 0o600))

	ctx := testContext(t)
	a, err := New(ctx, Options{EnvironmentsPath: envPath, Environment: "staging"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	settings := a.Resolver.Settings()
	assert.Equal(t, "Staging Co", settings.ClientName)
	assert.False(t, settings.Performance.EnableCaching)
}

func TestNew_Errors(t *testing.T) {
	ctx := testContext(t)

	t.Run("environment without file", func(t *testing.T) {
		_, err := New(ctx, Options{Environment: "production"})
		assert.EqualError(t, err, `environment "production" requires an environments file`)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := New(ctx, Options{Source: "oracle"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `source "oracle" is not registered`)
	})

	t.Run("missing settings file", func(t *testing.T) {
		_, err := New(ctx, Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Error(t, err)
	})
}
