package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/research-guide-api/internal/models"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

// DefaultStorageKey is the key the draft lives under unless configured.
const DefaultStorageKey = "research-guide-v1"

// DefaultRestoredDuration is how long the restored indicator stays on.
const DefaultRestoredDuration = 3 * time.Second

// DraftStore persists raw draft payloads under a key.
type DraftStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

// PersistenceConfig tunes draft persistence.
type PersistenceConfig struct {
	Key              string
	RestoredDuration time.Duration
}

// PersistenceService restores the form from a DraftStore on start and writes
// it back after every mutation.
type PersistenceService struct {
	form   *FormStore
	cfg    PersistenceConfig
	logger *zap.Logger

	mu       sync.Mutex
	restored bool
	gen      uint64
	timer    *time.Timer
	stop     func() bool
}

// NewPersistenceService constructs a PersistenceService.
func NewPersistenceService(form *FormStore, cfg PersistenceConfig, logger *zap.Logger) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Key == "" {
		cfg.Key = DefaultStorageKey
	}
	if cfg.RestoredDuration <= 0 {
		cfg.RestoredDuration = DefaultRestoredDuration
	}
	return &PersistenceService{form: form, cfg: cfg, logger: logger}
}

// Key returns the storage key in use.
func (s *PersistenceService) Key() string {
	return s.cfg.Key
}

// Restore loads the saved draft into the form. A missing draft keeps the
// defaults silently; an unreadable or undecodable one is logged and also
// keeps the defaults. Restore never fails.
//
// On success the restored indicator is raised and lowered again after the
// configured duration, or earlier when ctx is done or Close is called.
func (s *PersistenceService) Restore(ctx context.Context, store DraftStore) bool {
	payload, err := store.Load(ctx, s.cfg.Key)
	if err != nil {
		if !appErrors.Is(err, appErrors.ErrDraftNotFound) {
			s.logger.Warn("load draft", zap.String("key", s.cfg.Key), zap.Error(err))
		}
		return false
	}

	state, err := DecodeFormState(payload)
	if err != nil {
		s.logger.Warn("discard unreadable draft", zap.String("key", s.cfg.Key), zap.Error(err))
		return false
	}

	s.form.ReplaceAll(state)
	s.markRestored(ctx)
	return true
}

// Attach writes the whole state to store after every mutation, in mutation
// order. Write failures are logged and otherwise ignored.
func (s *PersistenceService) Attach(ctx context.Context, store DraftStore) {
	s.form.OnChange(func(state models.FormState) {
		payload, err := EncodeFormState(state)
		if err != nil {
			s.logger.Error("encode draft", zap.Error(err))
			return
		}
		if err := store.Save(context.WithoutCancel(ctx), s.cfg.Key, payload); err != nil {
			s.logger.Warn("save draft", zap.String("key", s.cfg.Key), zap.Error(err))
		}
	})
}

// Restored reports whether the ephemeral restored indicator is raised.
func (s *PersistenceService) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// Close cancels a pending indicator clear and lowers the indicator.
func (s *PersistenceService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.restored = false
}

func (s *PersistenceService) markRestored(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.restored = true
	s.gen++

	gen := s.gen
	s.timer = time.AfterFunc(s.cfg.RestoredDuration, func() { s.clearRestored(gen) })
	s.stop = context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.cancelLocked()
		}
	})
}

func (s *PersistenceService) clearRestored(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.timer == nil {
		return
	}
	s.restored = false
	s.cancelLocked()
}

// cancelLocked stops the pending clear. The indicator value is left as is.
func (s *PersistenceService) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// EncodeFormState serializes the full state using the persisted layout.
func EncodeFormState(state models.FormState) ([]byte, error) {
	return json.Marshal(state)
}

// DecodeFormState parses a persisted draft. Blank and null payloads are
// rejected; fields missing from the payload keep their zero values.
func DecodeFormState(payload []byte) (models.FormState, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.FormState{}, errEmptyDraft
	}
	var state models.FormState
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return models.FormState{}, err
	}
	return state.Normalize(), nil
}

var errEmptyDraft = errors.New("draft payload is empty")
