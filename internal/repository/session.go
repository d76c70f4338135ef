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

// DefaultSessionKey is the record key of the session pointer. It must differ
// from the directory key.
const DefaultSessionKey = "tb_current_user"

type sessionStore struct {
	medium storage.Medium
	key    string
	log    logrus.FieldLogger
}

func NewSessionStore(medium storage.Medium, key string, log logrus.FieldLogger) SessionRepository {
	if key == "" {
		key = DefaultSessionKey
	}
	return &sessionStore{
		medium: medium,
		key:    key,
		log:    log.WithField("component", "session"),
	}
}

func (s *sessionStore) Current(ctx context.Context) (*domain.PublicUser, error) {
	raw, err := s.medium.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var user domain.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.WithError(err).Warn("stored session is malformed, treating it as absent")
		return nil, nil
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

func (s *sessionStore) IsActive(ctx context.Context) (bool, error) {
	user, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *sessionStore) Establish(ctx context.Context, user domain.PublicUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.medium.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.medium.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
