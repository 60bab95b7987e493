package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefinition(t *testing.T) {
	if err := validateDefinition(testChart); err != nil {
		t.Errorf("Expected valid definition, got %v", err)
	}
}

func TestValidateDefinitionMissingDoc(t *testing.T) {
	if err := validateDefinition(`{"target_id":null,"root_id":"p1"}`); err == nil {
		t.Error("Expected validation failure for definition without doc")
	}
}

func TestValidateDefinitionEmptyRoots(t *testing.T) {
	if err := validateDefinition(`{"doc":{"roots":[]}}`); err == nil {
		t.Error("Expected validation failure for empty roots")
	}
}

func TestValidateDefinitionInvalidJSON(t *testing.T) {
	err := validateDefinition("{not json")
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeTestChart(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"doc":{}}`), 0644))

	out, err := execute(t, "validate", good, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, good)

	out, err = execute(t, "validate", good, bad, "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 definitions failed")
	assert.Contains(t, out, bad)
}
