package domain

import (
	"encoding/json"
	"time"
)

// Account is the durable record of one registered user.
type Account struct {
	ID           string
	Username     string
	Email        string
	Password     string
	CreatedAt    time.Time
	Transactions []Transaction
}

// PublicUser is the projection of an Account that is safe to expose and to
// keep as the session pointer. It never carries the password.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the public projection of the account.
func (a *Account) Public() PublicUser {
	return PublicUser{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
}

// Transaction returns the reference stored under txID.
func (a *Account) Transaction(txID string) (Transaction, bool) {
	for _, tx := range a.Transactions {
		if tx.ID == txID {
			return tx, true
		}
	}
	return Transaction{}, false
}

// UpsertTransaction replaces the reference with the same id in place, or
// appends it when the id is new.
func (a *Account) UpsertTransaction(tx Transaction) {
	for i := range a.Transactions {
		if a.Transactions[i].ID == tx.ID {
			a.Transactions[i] = tx
			return
		}
	}
	a.Transactions = append(a.Transactions, tx)
}

// accountRecord is the stored shape of an Account. createdAt is kept in Unix
// milliseconds so records written by the browser build stay readable.
type accountRecord struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	CreatedAt    int64         `json:"createdAt"`
	Transactions []Transaction `json:"transactions"`
}

func (a Account) MarshalJSON() ([]byte, error) {
	txs := a.Transactions
	if txs == nil {
		txs = []Transaction{}
	}
	return json.Marshal(accountRecord{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Password:     a.Password,
		CreatedAt:    a.CreatedAt.UnixMilli(),
		Transactions: txs,
	})
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var rec accountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*a = Account{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		Password:     rec.Password,
		CreatedAt:    time.UnixMilli(rec.CreatedAt).UTC(),
		Transactions: rec.Transactions,
	}
	if len(a.Transactions) == 0 {
		a.Transactions = nil
	}
	return nil
}
