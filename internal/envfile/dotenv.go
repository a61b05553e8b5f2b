package envfile

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/subosito/gotenv"
)

// ReadDotenv returns the key/value pairs declared in a .env file without
// touching the process environment. A missing file yields an empty map;
// the check it feeds is advisory.
func ReadDotenv(path string) (map[string]string, error) {
	vars, err := gotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return vars, nil
}
