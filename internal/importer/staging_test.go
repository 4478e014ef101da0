// gestion-multi-profs/internal/importer/staging_test.go
package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *StagingStore {
	t.Helper()
	store, err := NewStagingStore(t.TempDir(), NewMemoryMetaStore())
	require.NoError(t, err)
	return store
}

func stagePreview(t *testing.T, store *StagingStore, ownerID uint) *PreviewMeta {
	t.Helper()
	token, path, err := store.Stage(ownerID, strings.NewReader("workbook-bytes"), "notes.xlsx")
	require.NoError(t, err)

	meta := &PreviewMeta{
		Token:      token,
		Path:       path,
		Trimester:  1,
		SubjectID:  7,
		SchoolYear: "2025/2026",
		SheetName:  "3AS1",
	}
	require.NoError(t, store.Bind(ownerID, meta))
	return meta
}

func TestStageAndGet(t *testing.T) {
	store := newTestStore(t)
	meta := stagePreview(t, store, 1)

	got := store.Get(1, meta.Token)
	require.NotNil(t, got)
	assert.Equal(t, meta.Path, got.Path)
	assert.Equal(t, uint(7), got.SubjectID)
	assert.NotZero(t, got.CreatedAt)
}

func TestGetFailsClosed(t *testing.T) {
	store := newTestStore(t)
	meta := stagePreview(t, store, 1)

	// Wrong token.
	assert.Nil(t, store.Get(1, "deadbeef"))
	// Empty token.
	assert.Nil(t, store.Get(1, ""))
	// Another owner's token.
	assert.Nil(t, store.Get(2, meta.Token))
	// Staged file vanished from disk.
	require.NoError(t, os.Remove(meta.Path))
	assert.Nil(t, store.Get(1, meta.Token))
}

func TestDiscardRemovesFileAndMeta(t *testing.T) {
	store := newTestStore(t)
	meta := stagePreview(t, store, 1)

	store.Discard(1, meta)

	assert.Nil(t, store.Get(1, meta.Token))
	_, err := os.Stat(meta.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestStageReplacesPriorPreview(t *testing.T) {
	store := newTestStore(t)
	first := stagePreview(t, store, 1)
	second := stagePreview(t, store, 1)

	assert.Nil(t, store.Get(1, first.Token))
	_, err := os.Stat(first.Path)
	assert.True(t, os.IsNotExist(err))
	assert.NotNil(t, store.Get(1, second.Token))
}

func TestStageNormalizesExtension(t *testing.T) {
	store := newTestStore(t)
	_, path, err := store.Stage(1, strings.NewReader("x"), "../../etc/passwd.php")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))
	assert.Equal(t, store.Dir, filepath.Dir(path))
}

func TestSweepReapsOldFiles(t *testing.T) {
	store := newTestStore(t)
	meta := stagePreview(t, store, 1)

	old := time.Now().Add(-2 * PreviewTTL)
	require.NoError(t, os.Chtimes(meta.Path, old, old))

	store.Sweep(PreviewTTL)

	assert.Nil(t, store.Get(1, meta.Token))
	_, err := os.Stat(meta.Path)
	assert.True(t, os.IsNotExist(err))
}
