package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfrund/folio/internal/domain"
)

var (
	// ErrTooLarge is returned for files above the configured size limit.
	ErrTooLarge = errors.New("image is too large")
	// ErrUnsupportedType is returned when the content is not a supported image.
	ErrUnsupportedType = errors.New("file is not a supported image")
	// ErrTooManyFiles is returned when a scope already holds the maximum.
	ErrTooManyFiles = errors.New("too many images selected")
)

// allowedImageTypes are the sniffed content types accepted for staging.
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// StagedFile is an image held between selection and form submission.
type StagedFile struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	StagedAt    time.Time

	path string
}

// StagerConfig configures a Stager. Zero values pick defaults.
type StagerConfig struct {
	MaxBytes int64
	MaxFiles int
	TTL      time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// Stager keeps images an admin has selected but not yet submitted. Files are
// grouped by scope (one per admin session) and expire after the TTL.
type Stager struct {
	store Store
	cfg   StagerConfig

	mu     sync.Mutex
	scopes map[string][]*StagedFile
	// pending counts Stage calls per scope that hold a slot but are still saving.
	pending map[string]int
}

// NewStager creates a Stager writing to store.
func NewStager(store Store, cfg StagerConfig) *Stager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 10
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Stager{store: store, cfg: cfg, scopes: make(map[string][]*StagedFile), pending: make(map[string]int)}
}

// MaxBytes is the per-file size limit.
func (s *Stager) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Stage validates and stores one file for scope.
func (s *Stager) Stage(ctx context.Context, scope, filename string, r io.Reader) (StagedFile, error) {
	if !s.reserve(scope) {
		return StagedFile{}, ErrTooManyFiles
	}
	committed := false
	defer func() {
		if !committed {
			s.mu.Lock()
			s.release(scope)
			s.mu.Unlock()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return StagedFile{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return StagedFile{}, ErrTooLarge
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return StagedFile{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	id := uuid.NewString()
	file := &StagedFile{
		ID:          id,
		Filename:    filepath.Base(filepath.Clean("/" + filename)),
		ContentType: mtype.String(),
		Size:        int64(len(data)),
		StagedAt:    s.cfg.Now(),
		path:        path.Join(scope, id+mtype.Extension()),
	}
	if _, err := s.store.Save(ctx, file.path, bytes.NewReader(data)); err != nil {
		return StagedFile{}, fmt.Errorf("saving %s: %w", filename, err)
	}

	s.mu.Lock()
	s.release(scope)
	s.scopes[scope] = append(s.scopes[scope], file)
	committed = true
	s.mu.Unlock()

	s.cfg.Logger.DebugContext(ctx, "Staged upload", "scope", scope, "id", id, "type", file.ContentType, "size", file.Size)
	return *file, nil
}

// reserve claims one of scope's slots while a file is being saved, so
// concurrent uploads cannot push the scope past MaxFiles.
func (s *Stager) reserve(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scopes[scope])+s.pending[scope] >= s.cfg.MaxFiles {
		return false
	}
	s.pending[scope]++
	return true
}

// release gives back a slot claimed by reserve. Callers hold s.mu.
func (s *Stager) release(scope string) {
	if s.pending[scope] <= 1 {
		delete(s.pending, scope)
		return
	}
	s.pending[scope]--
}

// List returns the files staged for scope in selection order.
func (s *Stager) List(scope string) []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make([]StagedFile, 0, len(s.scopes[scope]))
	for _, f := range s.scopes[scope] {
		files = append(files, *f)
	}
	return files
}

// Open returns the content of a staged file.
func (s *Stager) Open(ctx context.Context, scope, id string) (io.ReadCloser, error) {
	file, ok := s.find(scope, id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.store.Open(ctx, file.path)
}

// Preview returns the staged file as a data URL for an <img> thumbnail.
func (s *Stager) Preview(ctx context.Context, scope, id string) (string, error) {
	file, ok := s.find(scope, id)
	if !ok {
		return "", domain.ErrNotFound
	}
	rc, err := s.store.Open(ctx, file.path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return "data:" + file.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Remove drops one staged file.
func (s *Stager) Remove(ctx context.Context, scope, id string) error {
	s.mu.Lock()
	files := s.scopes[scope]
	var removed *StagedFile
	for i, f := range files {
		if f.ID == id {
			removed = f
			s.scopes[scope] = append(files[:i:i], files[i+1:]...)
			break
		}
	}
	if removed != nil && len(s.scopes[scope]) == 0 {
		delete(s.scopes, scope)
	}
	s.mu.Unlock()

	if removed == nil {
		return domain.ErrNotFound
	}
	return s.deleteFile(ctx, removed)
}

// Clear drops every file staged for scope, e.g. after a successful submit.
func (s *Stager) Clear(ctx context.Context, scope string) {
	s.mu.Lock()
	files := s.scopes[scope]
	delete(s.scopes, scope)
	s.mu.Unlock()

	for _, f := range files {
		_ = s.deleteFile(ctx, f)
	}
}

// Sweep drops files older than the TTL and returns how many were removed.
func (s *Stager) Sweep(ctx context.Context) int {
	cutoff := s.cfg.Now().Add(-s.cfg.TTL)
	var expired []*StagedFile

	s.mu.Lock()
	for scope, files := range s.scopes {
		kept := files[:0]
		for _, f := range files {
			if f.StagedAt.Before(cutoff) {
				expired = append(expired, f)
			} else {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			delete(s.scopes, scope)
		} else {
			s.scopes[scope] = kept
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		_ = s.deleteFile(ctx, f)
	}
	if len(expired) > 0 {
		s.cfg.Logger.InfoContext(ctx, "Swept expired uploads", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled.
func (s *Stager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *Stager) find(scope, id string) (StagedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.scopes[scope] {
		if f.ID == id {
			return *f, true
		}
	}
	return StagedFile{}, false
}

func (s *Stager) deleteFile(ctx context.Context, f *StagedFile) error {
	if err := s.store.Delete(ctx, f.path); err != nil {
		s.cfg.Logger.WarnContext(ctx, "Failed to delete staged upload", "path", f.path, "error", err)
		return err
	}
	return nil
}
