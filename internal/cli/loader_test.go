package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanCUE = `
package plan

provider: {
	name:    "order-service"
	version: "1.4.2"
}
pacts: [{
	consumer: "web-app"
	interactions: [{
		description: "an order created event"
		payload: {order_id: "o-1", total: 2500}
		metadata: {"content-type": "application/json"}
	}]
}]
`

func writePlanDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
	return dir
}

func TestLoadPlanValid(t *testing.T) {
	dir := writePlanDir(t, map[string]string{"plan.cue": validPlanCUE})

	result, err := LoadPlan(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FileCount)
	assert.Equal(t, "order-service", result.Plan.Provider)
	assert.Equal(t, "1.4.2", result.Plan.ProviderVersion)
	require.Len(t, result.Plan.Pacts, 1)
	assert.Equal(t, "web-app", result.Plan.Pacts[0].Consumer)
}

func TestLoadPlanNotFound(t *testing.T) {
	_, err := LoadPlan("/nonexistent/directory/path")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadPlanNotADirectory(t *testing.T) {
	dir := writePlanDir(t, map[string]string{"plan.cue": validPlanCUE})

	_, err := LoadPlan(filepath.Join(dir, "plan.cue"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Message, "not a directory")
}

func TestLoadPlanEmptyDirectory(t *testing.T) {
	_, err := LoadPlan(t.TempDir())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadPlanMissingProvider(t *testing.T) {
	dir := writePlanDir(t, map[string]string{"plan.cue": `
package plan

pacts: [{
	consumer: "web-app"
	interactions: [{
		description: "an order created event"
		payload: {order_id: "o-1"}
	}]
}]
`})

	_, err := LoadPlan(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodePlanProvider, loadErr.Code)
}

func TestLoadPlanMalformedCUE(t *testing.T) {
	dir := writePlanDir(t, map[string]string{"plan.cue": `
package plan

provider: { name: "order-service"
`})

	_, err := LoadPlan(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, []string{ErrCodeLoadFailed, ErrCodeBuildFailed}, loadErr.Code)
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package plan"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.cue"), []byte("package plan"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("docs"), 0644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in ./plan"}
	assert.Equal(t, "E003: no CUE files found in ./plan", err.Error())
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field    string
		expected string
	}{
		{"provider", ErrCodePlanProvider},
		{"provider.name", ErrCodePlanProvider},
		{"pacts", ErrCodePlanPacts},
		{"pact.consumer", ErrCodePlanPacts},
		{"interactions", ErrCodePlanInteractions},
		{"interaction.description", ErrCodePlanInteractions},
		{"kind", ErrCodePlanKind},
		{"payload", ErrCodePlanPayload},
		{"response", ErrCodePlanExchange},
		{"response.status", ErrCodePlanExchange},
		{"request.method", ErrCodePlanExchange},
		{"broker", ErrCodePlanBroker},
		{"unknown", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapFieldToErrorCode(tt.field))
		})
	}
}
