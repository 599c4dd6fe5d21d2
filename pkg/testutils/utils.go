// Package testutils contains helpers shared by tests and the
// create-fixtures CLI command.
package testutils

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/getveil/veil/config"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateRandomString returns a random string of n letters.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}

// NewTestConfig returns a config suitable for tests. Nothing external is
// required: the model detector is off and the mapping store is a temp
// directory the caller controls.
func NewTestConfig(storeDir string) *config.Config {
	return &config.Config{
		Anonymizer: config.AnonymizerConfig{ModelDetector: false},
		MappingStore: config.MappingStoreConfig{
			Type:   "file",
			Secret: "test-secret-" + GenerateRandomString(8),
			File:   config.FileConfig{Path: storeDir},
		},
		Server: config.ServerConfig{Port: 8000},
		Log:    config.LogConfig{Level: "warn"},
	}
}

// FindProjectRoot walks up from the working directory to the directory
// containing go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}
		dir = parent
	}
}
