package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/logging"
)

func TestOpenCreatesLogsDirAndFile(t *testing.T) {
	base := t.TempDir()

	sink, err := logging.Open(base)
	require.NoError(t, err)
	defer sink.Close()

	_, err = os.Stat(filepath.Join(base, "logs", "engine.log"))
	assert.NoError(t, err)
}

func TestForTagsEntriesWithStrandAndWritesToFile(t *testing.T) {
	base := t.TempDir()

	sink, err := logging.Open(base)
	require.NoError(t, err)
	defer sink.Close()

	entry := sink.For("logic")
	assert.Equal(t, "logic", entry.Data["strand"])

	entry.Info("tick complete")

	contents, err := os.ReadFile(filepath.Join(base, "logs", "engine.log"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "tick complete")
	assert.Contains(t, string(contents), "strand=logic")
}
