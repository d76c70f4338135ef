package app

import (
	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/idgen"
	"trustbridge-auth/internal/repository"
	"trustbridge-auth/internal/service"
	"trustbridge-auth/internal/storage"
)

// Options selects the record keys and credential handling of a Portal.
type Options struct {
	DirectoryKey  string
	SessionKey    string
	IDs           idgen.Generator
	HashPasswords bool
}

// New wires a Portal over medium.
func New(medium storage.Medium, opts Options, log logrus.FieldLogger) *Portal {
	ids := opts.IDs
	if ids == nil {
		ids = idgen.XID{}
	}

	directory := repository.NewAccountDirectory(medium, opts.DirectoryKey, log)
	sessions := repository.NewSessionStore(medium, opts.SessionKey, log)
	auth := service.NewAuthService(directory, sessions, ids, service.NewPasswordPolicy(opts.HashPasswords), log)
	txs := service.NewTransactionService(directory, log)

	return NewPortal(auth, txs, sessions, log)
}
