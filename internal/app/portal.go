// Package app exposes the account and transaction surface used by the
// single-page front end. It resolves the active session and hands the
// account id to the services explicitly.
package app

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/domain"
	"trustbridge-auth/internal/repository"
	"trustbridge-auth/internal/service"
)

// UnavailableMessage is the message shown when the store itself failed.
const UnavailableMessage = "Something went wrong. Please try again."

// Result is the outcome of Register and Login.
type Result struct {
	OK   bool               `json:"ok"`
	User *domain.PublicUser `json:"user,omitempty"`
	Err  string             `json:"err,omitempty"`
}

// Portal runs one operation at a time. Every operation is a whole-record
// load, change and save cycle, so concurrent callers (the HTTP server) would
// otherwise lose updates or register the same username twice.
type Portal struct {
	mu       sync.Mutex
	auth     service.AuthService
	txs      service.TransactionService
	sessions repository.SessionRepository
	log      logrus.FieldLogger
}

func NewPortal(auth service.AuthService, txs service.TransactionService, sessions repository.SessionRepository, log logrus.FieldLogger) *Portal {
	return &Portal{
		auth:     auth,
		txs:      txs,
		sessions: sessions,
		log:      log.WithField("component", "portal"),
	}
}

func (p *Portal) Register(ctx context.Context, username, email, password string) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.result(p.auth.Register(ctx, username, email, password))
}

func (p *Portal) Login(ctx context.Context, identifier, password string) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.result(p.auth.Login(ctx, identifier, password))
}

func (p *Portal) result(user *domain.PublicUser, err error) Result {
	if err == nil {
		return Result{OK: true, User: user}
	}
	if msg, ok := service.UserMessage(err); ok {
		return Result{Err: msg}
	}
	p.log.WithError(err).Error("account operation failed")
	return Result{Err: UnavailableMessage}
}

func (p *Portal) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sessions.Clear(ctx)
}

func (p *Portal) IsLoggedIn(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sessions.IsActive(ctx)
}

// GetUser returns the session's public projection, or nil when logged out.
func (p *Portal) GetUser(ctx context.Context) (*domain.PublicUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sessions.Current(ctx)
}

// SaveTransaction records txID for the logged in account. Without a session
// it does nothing.
func (p *Portal) SaveTransaction(ctx context.Context, txID string, payload map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	accountID, err := p.currentID(ctx)
	if err != nil {
		return err
	}
	return p.txs.Save(ctx, accountID, txID, payload)
}

func (p *Portal) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	accountID, err := p.currentID(ctx)
	if err != nil {
		return nil, err
	}
	return p.txs.List(ctx, accountID)
}

func (p *Portal) OwnsTransaction(ctx context.Context, txID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	accountID, err := p.currentID(ctx)
	if err != nil {
		return false, err
	}
	return p.txs.Owns(ctx, accountID, txID)
}

func (p *Portal) currentID(ctx context.Context) (string, error) {
	user, err := p.sessions.Current(ctx)
	if err != nil || user == nil {
		return "", err
	}
	return user.ID, nil
}
