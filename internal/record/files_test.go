package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWrite(t *testing.T) {
	t.Run("Success - response written as JSON file", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewFileSink(dir)
		require.NoError(t, err)
		defer s.Stop()

		err = s.write(model.WebhookResponse{
			Status:  model.StatusSuccess,
			Summary: &model.WebhookSummary{PRNumber: 42, Repository: "octo/repo"},
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "webhook_pr42_"))
		assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

		data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"octo/repo"`)
	})

	t.Run("Success - missing directory is created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "responses")
		s, err := NewFileSink(dir)
		require.NoError(t, err)
		defer s.Stop()

		err = s.write(model.WebhookResponse{Status: model.StatusIgnored})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "webhook_pr0_"))
	})
}
