package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnvs loads environment variables from the .env file at the
// repository root. The lookup walks up from the working directory so that
// binaries and tests started from package directories still find it. A
// missing file is not an error since deployments set the variables directly.
func LoadDotEnvs() error {
	if err := load(".env"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadDotEnvsInTests prefers .env.test over .env. A missing file is not an
// error here since CI provides the variables directly.
func LoadDotEnvsInTests() error {
	if err := load(".env.test"); err == nil {
		return nil
	}
	if err := load(".env"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func load(name string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return os.ErrNotExist
		}
		dir = parent
	}
}
