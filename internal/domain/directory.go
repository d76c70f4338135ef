package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Directory maps account ids to accounts. Iteration follows insertion order,
// which is also the order keys appear in the stored object, so scans are
// deterministic for a given stored state.
type Directory struct {
	order    []string
	accounts map[string]*Account
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: map[string]*Account{}}
}

func (d *Directory) Len() int {
	return len(d.order)
}

func (d *Directory) Get(id string) (*Account, bool) {
	acc, ok := d.accounts[id]
	return acc, ok
}

// Put stores acc under acc.ID. Replacing an existing id keeps its position.
func (d *Directory) Put(acc *Account) {
	d.put(acc.ID, acc)
}

func (d *Directory) put(key string, acc *Account) {
	if d.accounts == nil {
		d.accounts = map[string]*Account{}
	}
	if _, exists := d.accounts[key]; !exists {
		d.order = append(d.order, key)
	}
	d.accounts[key] = acc
}

// Accounts returns the accounts in directory order.
func (d *Directory) Accounts() []*Account {
	out := make([]*Account, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.accounts[id])
	}
	return out
}

// FindByIdentifier returns the first account whose lower-cased username
// equals the lower-cased identifier or whose email equals identifier.
func (d *Directory) FindByIdentifier(identifier string) (*Account, bool) {
	lowered := strings.ToLower(identifier)
	for _, acc := range d.Accounts() {
		if strings.ToLower(acc.Username) == lowered || acc.Email == identifier {
			return acc, true
		}
	}
	return nil, false
}

func (d *Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.accounts[id])
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Directory) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	out := NewDirectory()
	if tok == nil {
		*d = *out
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("directory: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("directory: unexpected key %v", tok)
		}
		var acc Account
		if err := dec.Decode(&acc); err != nil {
			return fmt.Errorf("directory entry %s: %w", key, err)
		}
		if acc.ID == "" {
			acc.ID = key
		}
		out.put(key, &acc)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = *out
	return nil
}
