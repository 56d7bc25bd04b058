package keyring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFileName = "rpc.token"
	tokenFileMode = 0600
)

// FileKeyStore keeps the token in a 0600 file inside the config directory
// when no system keyring is reachable.
type FileKeyStore struct {
	configDir string
}

var (
	fileReadFile = os.ReadFile
	fileRemove   = os.Remove
	fileRename   = os.Rename
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
)

// NewFileKeyStore creates a FileKeyStore under configDir.
func NewFileKeyStore(configDir string) *FileKeyStore {
	return &FileKeyStore{
		configDir: configDir,
	}
}

func (f *FileKeyStore) tokenPath() string {
	return filepath.Join(f.configDir, tokenFileName)
}

// SetToken generates a token and writes it atomically through a temp file
// and rename.
func (f *FileKeyStore) SetToken() (string, error) {
	if err := fileMkdirAll(f.configDir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}

	tmpFile, err := fileTempFile(f.configDir, ".rpc.token.tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(token); err != nil {
		tmpFile.Close()
		fileRemove(tmpPath)
		return "", fmt.Errorf("write token: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		fileRemove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, tokenFileMode); err != nil {
		fileRemove(tmpPath)
		return "", fmt.Errorf("set permissions: %w", err)
	}
	if err := fileRename(tmpPath, f.tokenPath()); err != nil {
		fileRemove(tmpPath)
		return "", fmt.Errorf("rename token file: %w", err)
	}
	return token, nil
}

// GetToken reads the stored token. A missing file yields an error satisfying
// os.IsNotExist.
func (f *FileKeyStore) GetToken() (string, error) {
	data, err := fileReadFile(f.tokenPath())
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("empty token file %s", f.tokenPath())
	}
	return token, nil
}

// DeleteToken removes the token file.
func (f *FileKeyStore) DeleteToken() error {
	return fileRemove(f.tokenPath())
}
