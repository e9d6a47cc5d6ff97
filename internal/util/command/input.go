package command

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// StdinPath selects stdin as input source.
const StdinPath = "-"

// ReadInput returns the content of path, or of stdin if path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == StdinPath {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}

		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	return string(b), nil
}
