package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordPolicy decides how a password is kept on the account record and
// how a login attempt is compared against it.
type PasswordPolicy interface {
	Seal(password string) (string, error)
	Matches(stored, supplied string) bool
}

// PlainPasswords stores passwords verbatim and compares them exactly. It is
// the default and keeps records compatible with the browser build.
type PlainPasswords struct{}

func (PlainPasswords) Seal(password string) (string, error) {
	return password, nil
}

func (PlainPasswords) Matches(stored, supplied string) bool {
	return stored == supplied
}

// BcryptPasswords stores bcrypt hashes. Records written by PlainPasswords
// never match under this policy.
type BcryptPasswords struct {
	Cost int
}

func (p BcryptPasswords) Seal(password string) (string, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptPasswords) Matches(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// NewPasswordPolicy returns BcryptPasswords when hashed is set.
func NewPasswordPolicy(hashed bool) PasswordPolicy {
	if hashed {
		return BcryptPasswords{}
	}
	return PlainPasswords{}
}
