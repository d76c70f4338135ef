package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/domain"
	"trustbridge-auth/internal/storage"
)

// DefaultDirectoryKey is the record key of the serialized directory.
const DefaultDirectoryKey = "tb_users"

type accountDirectory struct {
	medium storage.Medium
	key    string
	log    logrus.FieldLogger
}

func NewAccountDirectory(medium storage.Medium, key string, log logrus.FieldLogger) DirectoryRepository {
	if key == "" {
		key = DefaultDirectoryKey
	}
	return &accountDirectory{
		medium: medium,
		key:    key,
		log:    log.WithField("component", "directory"),
	}
}

func (r *accountDirectory) Load(ctx context.Context) (*domain.Directory, error) {
	raw, err := r.medium.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewDirectory(), nil
		}
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.NewDirectory(), nil
	}

	dir := domain.NewDirectory()
	if err := json.Unmarshal(raw, dir); err != nil {
		r.log.WithError(err).Warn("stored directory is malformed, treating it as empty")
		return domain.NewDirectory(), nil
	}
	return dir, nil
}

func (r *accountDirectory) Save(ctx context.Context, dir *domain.Directory) error {
	raw, err := json.Marshal(dir)
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	if err := r.medium.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	return nil
}

func (r *accountDirectory) FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	dir, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	acc, ok := dir.FindByIdentifier(identifier)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}
