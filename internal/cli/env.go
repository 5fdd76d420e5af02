package cli

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from the given .env files without overriding
// ones already set. Missing files are skipped.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
