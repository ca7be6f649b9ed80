package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnvs loads .env from the working directory. Missing file is not an
// error in prod where config comes from real environment variables.
func LoadDotEnvs() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(".env")
}

// LoadDotEnvsInTests walks up from the test's working directory until it
// finds a go.mod, then loads the module root .env if present. Tests run with
// package-local working directories, which is why this differs from
// LoadDotEnvs.
func LoadDotEnvsInTests() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			_ = godotenv.Load(filepath.Join(dir, ".env"))
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
