package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/domain"
	"trustbridge-auth/internal/idgen"
	"trustbridge-auth/internal/repository"
)

const (
	minPasswordLength = 6
	maxIDAttempts     = 8
)

var (
	// whitespace covers Unicode separators and BOM, not just ASCII
	emailPattern    = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// AuthService registers accounts and authenticates callers. Both operations
// establish the session on success.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.PublicUser, error)
	Login(ctx context.Context, identifier, password string) (*domain.PublicUser, error)
}

type authService struct {
	directory repository.DirectoryRepository
	sessions  repository.SessionRepository
	ids       idgen.Generator
	passwords PasswordPolicy
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewAuthService(
	directory repository.DirectoryRepository,
	sessions repository.SessionRepository,
	ids idgen.Generator,
	passwords PasswordPolicy,
	log logrus.FieldLogger,
) AuthService {
	return &authService{
		directory: directory,
		sessions:  sessions,
		ids:       ids,
		passwords: passwords,
		log:       log.WithField("component", "auth"),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	dir, err := s.directory.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAvailable(dir, username, email); err != nil {
		return nil, err
	}

	id, err := s.allocateID(dir)
	if err != nil {
		return nil, err
	}
	sealed, err := s.passwords.Seal(password)
	if err != nil {
		return nil, err
	}

	acc := &domain.Account{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  sealed,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	dir.Put(acc)
	if err := s.directory.Save(ctx, dir); err != nil {
		return nil, err
	}

	user := acc.Public()
	if err := s.sessions.Establish(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"account_id": id, "username": username}).Info("account registered")
	return &user, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.PublicUser, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	dir, err := s.directory.Load(ctx)
	if err != nil {
		return nil, err
	}

	var found *domain.Account
	for _, acc := range dir.Accounts() {
		if strings.ToLower(acc.Username) != identifier && acc.Email != identifier {
			continue
		}
		if s.passwords.Matches(acc.Password, password) {
			found = acc
			break
		}
	}
	if found == nil {
		s.log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	user := found.Public()
	if err := s.sessions.Establish(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("account_id", user.ID).Info("logged in")
	return &user, nil
}

// validateRegistration applies the input rules in order and reports the
// first violation.
func validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return ErrFieldsRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if passwordLength(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// passwordLength counts UTF-16 code units, the unit browsers measure
// string length in.
func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}

// checkAvailable scans accounts in directory order, testing the username and
// then the email of each one, and stops at the first collision.
func checkAvailable(dir *domain.Directory, username, email string) error {
	lowered := strings.ToLower(username)
	for _, acc := range dir.Accounts() {
		if strings.ToLower(acc.Username) == lowered {
			return ErrUsernameTaken
		}
		if acc.Email == email {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *authService) allocateID(dir *domain.Directory) (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if _, exists := dir.Get(id); !exists && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxIDAttempts)
}
