package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKeyStore_SetGetDelete(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewFileKeyStore(tmpDir)

	token, err := store.SetToken()
	if err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	info, err := os.Stat(filepath.Join(tmpDir, tokenFileName))
	if err != nil {
		t.Fatalf("token file not created: %v", err)
	}
	if info.Mode().Perm() != tokenFileMode {
		t.Fatalf("expected permissions %o, got %o", tokenFileMode, info.Mode().Perm())
	}

	got, err := store.GetToken()
	if err != nil || got != token {
		t.Fatalf("GetToken = %q, %v; want %q", got, err, token)
	}

	if err := store.DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, err := store.GetToken(); !os.IsNotExist(err) {
		t.Fatalf("GetToken after delete = %v, want not-exist", err)
	}
}

func TestFileKeyStore_GetToken_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, tokenFileName), []byte("  \n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewFileKeyStore(tmpDir).GetToken(); err == nil {
		t.Fatal("expected error for an empty token file")
	}
}

func TestFileKeyStore_SetToken_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func() func()
	}{
		{
			name: "mkdir",
			setup: func() func() {
				orig := fileMkdirAll
				fileMkdirAll = func(string, os.FileMode) error { return errors.New("mkdir fail") }
				return func() { fileMkdirAll = orig }
			},
		},
		{
			name: "temp file",
			setup: func() func() {
				orig := fileTempFile
				fileTempFile = func(string, string) (*os.File, error) { return nil, errors.New("temp fail") }
				return func() { fileTempFile = orig }
			},
		},
		{
			name: "rename",
			setup: func() func() {
				orig := fileRename
				fileRename = func(string, string) error { return errors.New("rename fail") }
				return func() { fileRename = orig }
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := tt.setup()
			defer restore()
			tmpDir := t.TempDir()
			if _, err := NewFileKeyStore(tmpDir).SetToken(); err == nil {
				t.Fatal("expected error")
			}
			if _, err := os.Stat(filepath.Join(tmpDir, tokenFileName)); !os.IsNotExist(err) {
				t.Errorf("token file exists after failed write: %v", err)
			}
		})
	}
}
