// Package keyring stores the daemon RPC token in the operating system's
// native keyring, with a file fallback for headless systems.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// tokenBytes is the entropy of a generated token.
const tokenBytes = 32

// Keyring keeps the token in the system keyring under AppName/KeyField.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "chexy",
		KeyField: "rpc-token",
	}
}

// newToken returns a random hex token.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (k *Keyring) SetToken() (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := keyringSet(k.AppName, k.KeyField, token); err != nil {
		return "", err
	}
	return token, nil
}

func (k *Keyring) GetToken() (string, error) {
	return keyringGet(k.AppName, k.KeyField)
}

func (k *Keyring) DeleteToken() error {
	return keyringDelete(k.AppName, k.KeyField)
}
