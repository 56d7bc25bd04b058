package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/pkg/logger"
)

func TestTokens_GetCreatesOnce(t *testing.T) {
	keyring.MockInit()
	t.Setenv(common.RPCSecretEnv, "")
	tokens := NewTokens(t.TempDir(), nil)

	first, err := tokens.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := tokens.Get()
	if err != nil || second != first {
		t.Fatalf("second Get = %q, %v; want %q", second, err, first)
	}
}

func TestTokens_EnvOverride(t *testing.T) {
	keyring.MockInit()
	t.Setenv(common.RPCSecretEnv, "from-env")
	token, err := NewTokens(t.TempDir(), nil).Get()
	if err != nil || token != "from-env" {
		t.Fatalf("Get = %q, %v", token, err)
	}
}

func TestTokens_FallsBackToFile(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	defer keyring.MockInit()
	t.Setenv(common.RPCSecretEnv, "")

	dir := t.TempDir()
	l := logger.NewMockLogger()
	token, err := NewTokens(dir, l).Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(l.Warnings()) != 1 {
		t.Errorf("warnings = %v", l.Warnings())
	}
	stored, err := NewFileKeyStore(dir).GetToken()
	if err != nil || stored != token {
		t.Fatalf("file token = %q, %v; want %q", stored, err, token)
	}

	// a later client finds the file token without warning again
	l2 := logger.NewMockLogger()
	again, err := NewTokens(dir, l2).Get()
	if err != nil || again != token || len(l2.Warnings()) != 0 {
		t.Fatalf("second Get = %q, %v (warnings %v)", again, err, l2.Warnings())
	}
}

func TestTokens_Rotate(t *testing.T) {
	keyring.MockInit()
	t.Setenv(common.RPCSecretEnv, "")
	tokens := NewTokens(t.TempDir(), nil)
	first, err := tokens.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rotated, err := tokens.Rotate()
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if rotated == first {
		t.Fatal("Rotate returned the old token")
	}
}
