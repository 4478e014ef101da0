// gestion-multi-profs/internal/importer/staging.go
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PreviewTTL is how long an unconsumed staged file survives before the
// sweep reaps it.
const PreviewTTL = 24 * time.Hour

// PreviewMeta binds a staged upload to the import parameters confirmed on
// the mapping screen. It lives in the MetaStore between the preview and
// the apply/cancel step.
type PreviewMeta struct {
	Token      string `json:"token"`
	Path       string `json:"path"`
	Trimester  int    `json:"trimester"`
	SubjectID  uint   `json:"subjectId"`
	SchoolYear string `json:"schoolYear"`
	SheetName  string `json:"sheetName"`
	CreatedAt  int64  `json:"createdAt"`
}

// MetaStore persists at most one PreviewMeta per owner. Starting a new
// upload replaces (and the staging store discards) any prior unconsumed
// preview for that owner.
type MetaStore interface {
	Put(ownerID uint, meta *PreviewMeta) error
	Get(ownerID uint) (*PreviewMeta, error)
	Delete(ownerID uint) error
}

// RedisMetaStore keeps preview metadata in Redis with the preview TTL, so
// stale entries vanish even if the apply step never runs.
type RedisMetaStore struct {
	RDB *redis.Client
	Ctx context.Context
}

func metaKey(ownerID uint) string {
	return fmt.Sprintf("import:preview:%d", ownerID)
}

func (s *RedisMetaStore) Put(ownerID uint, meta *PreviewMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.RDB.Set(s.Ctx, metaKey(ownerID), payload, PreviewTTL).Err()
}

func (s *RedisMetaStore) Get(ownerID uint) (*PreviewMeta, error) {
	payload, err := s.RDB.Get(s.Ctx, metaKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta PreviewMeta
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *RedisMetaStore) Delete(ownerID uint) error {
	return s.RDB.Del(s.Ctx, metaKey(ownerID)).Err()
}

// MemoryMetaStore is the fallback when Redis is not configured, and the
// store used by tests. Previews are per-owner and single-file, so a plain
// mutex-guarded map is enough.
type MemoryMetaStore struct {
	mu sync.Mutex
	m  map[uint]*PreviewMeta
}

func NewMemoryMetaStore() *MemoryMetaStore {
	return &MemoryMetaStore{m: make(map[uint]*PreviewMeta)}
}

func (s *MemoryMetaStore) Put(ownerID uint, meta *PreviewMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *meta
	s.m[ownerID] = &copied
	return nil
}

func (s *MemoryMetaStore) Get(ownerID uint) (*PreviewMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.m[ownerID]
	if !ok {
		return nil, nil
	}
	copied := *meta
	return &copied, nil
}

func (s *MemoryMetaStore) Delete(ownerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, ownerID)
	return nil
}

// StagingStore persists uploaded files to a scratch directory keyed by a
// one-time token, with metadata bound to the owning session through a
// MetaStore. Lifecycle per token: Created -> Consumed (apply) | Discarded
// (cancel) | Expired (sweep).
type StagingStore struct {
	Dir  string
	Meta MetaStore
}

// NewStagingStore creates the scratch directory if needed.
func NewStagingStore(dir string, meta MetaStore) (*StagingStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	return &StagingStore{Dir: dir, Meta: meta}, nil
}

// Stage writes an uploaded spreadsheet to the scratch directory and
// returns its one-time token and path. Any prior unconsumed preview for
// the owner is silently discarded first, and files past the TTL are
// swept on every new upload.
func (s *StagingStore) Stage(ownerID uint, src io.Reader, filename string) (token, path string, err error) {
	if prev, err := s.Meta.Get(ownerID); err == nil && prev != nil {
		s.Discard(ownerID, prev)
	}
	s.Sweep(PreviewTTL)

	token = strings.ReplaceAll(uuid.New().String(), "-", "")
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xls", ".xlsm":
	default:
		ext = ".xlsx"
	}
	path = filepath.Join(s.Dir, token+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("stage upload: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("stage upload: %w", err)
	}
	return token, path, nil
}

// Bind records the preview metadata once the staged file has been parsed
// and a sheet selected.
func (s *StagingStore) Bind(ownerID uint, meta *PreviewMeta) error {
	if meta.CreatedAt == 0 {
		meta.CreatedAt = time.Now().Unix()
	}
	return s.Meta.Put(ownerID, meta)
}

// Get looks up the owner's staged preview by token. It fails closed: a
// token mismatch, missing metadata or a staged file that no longer exists
// on disk all read as "not found", and the caller restarts the upload.
func (s *StagingStore) Get(ownerID uint, token string) *PreviewMeta {
	meta, err := s.Meta.Get(ownerID)
	if err != nil || meta == nil {
		return nil
	}
	if token == "" || meta.Token != token {
		return nil
	}
	if meta.Path == "" {
		return nil
	}
	if _, err := os.Stat(meta.Path); err != nil {
		return nil
	}
	return meta
}

// Discard removes the staged file and its metadata. It backs both the
// explicit cancel operation and the consume step after a successful
// apply, and is safe to call at any time before apply.
func (s *StagingStore) Discard(ownerID uint, meta *PreviewMeta) {
	if meta != nil && meta.Path != "" {
		if err := os.Remove(meta.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove staged import file", "path", meta.Path, "error", err)
		}
	}
	if err := s.Meta.Delete(ownerID); err != nil {
		slog.Warn("failed to clear preview metadata", "owner_id", ownerID, "error", err)
	}
}

// Sweep deletes staged files older than maxAge, independent of token
// validity. Already-committed rows are never touched; only unconsumed
// scratch files are reaped.
func (s *StagingStore) Sweep(maxAge time.Duration) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.Dir, entry.Name()))
		}
	}
}
