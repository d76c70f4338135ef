package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/domain"
	"trustbridge-auth/internal/repository"
)

// TransactionService keeps the per-account transaction references. An empty
// or unknown account id makes every operation a no-op with an empty result.
type TransactionService interface {
	// Save upserts the reference: an existing txID keeps its position, a new
	// one is appended.
	Save(ctx context.Context, accountID, txID string, payload map[string]any) error
	List(ctx context.Context, accountID string) ([]domain.Transaction, error)
	Owns(ctx context.Context, accountID, txID string) (bool, error)
}

type transactionService struct {
	directory repository.DirectoryRepository
	log       logrus.FieldLogger
}

func NewTransactionService(directory repository.DirectoryRepository, log logrus.FieldLogger) TransactionService {
	return &transactionService{
		directory: directory,
		log:       log.WithField("component", "transactions"),
	}
}

func (s *transactionService) Save(ctx context.Context, accountID, txID string, payload map[string]any) error {
	if accountID == "" {
		return nil
	}
	dir, err := s.directory.Load(ctx)
	if err != nil {
		return err
	}
	acc, ok := dir.Get(accountID)
	if !ok {
		s.log.WithField("account_id", accountID).Warn("session account is missing from directory")
		return nil
	}

	acc.UpsertTransaction(domain.NewTransaction(txID, payload))
	return s.directory.Save(ctx, dir)
}

func (s *transactionService) List(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if accountID == "" {
		return []domain.Transaction{}, nil
	}
	dir, err := s.directory.Load(ctx)
	if err != nil {
		return nil, err
	}
	acc, ok := dir.Get(accountID)
	if !ok || len(acc.Transactions) == 0 {
		return []domain.Transaction{}, nil
	}
	return acc.Transactions, nil
}

func (s *transactionService) Owns(ctx context.Context, accountID, txID string) (bool, error) {
	txs, err := s.List(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, tx := range txs {
		if tx.ID == txID {
			return true, nil
		}
	}
	return false, nil
}
