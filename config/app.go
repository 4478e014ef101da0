// gestion-multi-profs/config/app.go
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// JwtKey signs and verifies auth tokens.
	JwtKey []byte

	// ImportTmpDir is the scratch directory for staged import files.
	ImportTmpDir string
)

func Load() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)

	ImportTmpDir = os.Getenv("IMPORT_TMP_DIR")
	if ImportTmpDir == "" {
		ImportTmpDir = filepath.Join(".", "tmp_imports")
	}
}
