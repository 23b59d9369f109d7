package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

const draftFileExtension = ".json"

type draftFiles interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
}

// FileDraftRepository keeps each draft as a JSON file named after its key.
type FileDraftRepository struct {
	files draftFiles
}

// NewFileDraftRepository constructs the repository on top of flat file storage.
func NewFileDraftRepository(files draftFiles) *FileDraftRepository {
	return &FileDraftRepository{files: files}
}

// Load returns the stored payload or ErrDraftNotFound.
func (r *FileDraftRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := r.files.Read(key + draftFileExtension)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("read draft %s: %w", key, err)
	}
	return payload, nil
}

// Save replaces the stored payload atomically.
func (r *FileDraftRepository) Save(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.files.Save(key+draftFileExtension, payload); err != nil {
		return fmt.Errorf("write draft %s: %w", key, err)
	}
	return nil
}
