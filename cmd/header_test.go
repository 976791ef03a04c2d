package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-gptinfo/pkg/app"
)

func TestHeaderCommand(t *testing.T) {
	stdout, _, err := execute(t, "header", sampleImage(t), "-q")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signature        : EFI PART")
	assert.Contains(t, stdout, "Entry Array LBA  : 2")
	assert.Contains(t, stdout, "Entry Count      : 128")

	stdout, _, err = execute(t, "header", sampleImage(t), "-o", "yaml", "-q")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entry_size: 128")
}

func TestHeaderCommandRequiresPath(t *testing.T) {
	_, _, err := execute(t, "header")
	assert.Equal(t, app.ErrCodeUsage, app.ErrorCode(err))
}

func TestTypesCommand(t *testing.T) {
	stdout, _, err := execute(t, "types")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GUID")
	assert.Contains(t, stdout, espGUID+"  EFI System Partition")

	_, _, err = execute(t, "types", "extra")
	assert.Error(t, err)
}
