package keyring

import (
	"errors"
	"os"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/pkg/logger"
)

// TokenStore persists the RPC token.
type TokenStore interface {
	SetToken() (string, error)
	GetToken() (string, error)
	DeleteToken() error
}

// Tokens resolves the shared RPC token for the daemon and its clients.
type Tokens struct {
	Primary  TokenStore
	Fallback TokenStore
	log      logger.Logger
}

// NewTokens uses the system keyring with a file under configDir as fallback.
func NewTokens(configDir string, l logger.Logger) *Tokens {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Tokens{
		Primary:  NewKeyring(),
		Fallback: NewFileKeyStore(configDir),
		log:      l,
	}
}

// Get returns the token, creating one when neither store has it.
// CHEXY_RPC_SECRET overrides both stores.
func (t *Tokens) Get() (string, error) {
	if v := os.Getenv(common.RPCSecretEnv); v != "" {
		return v, nil
	}
	if token, err := t.Primary.GetToken(); err == nil && token != "" {
		return token, nil
	}
	if token, err := t.Fallback.GetToken(); err == nil {
		return token, nil
	}

	token, err := t.Primary.SetToken()
	if err == nil {
		return token, nil
	}
	t.log.Warning("keyring: system keyring unavailable, storing token in file: %v", err)
	token, ferr := t.Fallback.SetToken()
	if ferr != nil {
		return "", errors.Join(err, ferr)
	}
	return token, nil
}

// Rotate replaces the token in whichever store accepts it.
func (t *Tokens) Rotate() (string, error) {
	_ = t.Primary.DeleteToken()
	_ = t.Fallback.DeleteToken()
	return t.Get()
}
