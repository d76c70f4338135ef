package domain

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Transaction is a caller supplied reference attached to one account. The
// payload is opaque; it is stored flat next to the id.
type Transaction struct {
	ID      string
	Payload map[string]any
}

// NewTransaction copies payload so later changes by the caller do not leak
// into the stored reference. A payload "id" field is dropped in favour of id.
func NewTransaction(id string, payload map[string]any) Transaction {
	tx := Transaction{ID: id}
	if len(payload) == 0 {
		return tx
	}
	tx.Payload = maps.Clone(payload)
	delete(tx.Payload, "id")
	if len(tx.Payload) == 0 {
		tx.Payload = nil
	}
	return tx
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(t.Payload)+1)
	for k, v := range t.Payload {
		flat[k] = v
	}
	flat["id"] = t.ID
	return json.Marshal(flat)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if flat == nil {
		return fmt.Errorf("transaction: expected object")
	}

	var id string
	switch v := flat["id"].(type) {
	case string:
		id = v
	case nil:
	default:
		// numeric ids written by older clients
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("transaction id: %w", err)
		}
		id = string(raw)
	}
	delete(flat, "id")
	if len(flat) == 0 {
		flat = nil
	}

	*t = Transaction{ID: id, Payload: flat}
	return nil
}
