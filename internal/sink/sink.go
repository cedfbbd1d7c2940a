// Package sink writes extracted code to a file or to standard output.
package sink

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/pkg/types"
)

// IOError is a failure to create or write the output file.
// A failed write may leave a partially written file behind.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Kind reports sink failures as local I/O.
func (e *IOError) Kind() types.ErrorKind { return types.KindIO }

// Sink is the terminal step of a generation.
type Sink struct {
	fs     afero.Fs
	stdout io.Writer
}

// New creates a sink that writes files on fsys and everything else to stdout.
func New(fsys afero.Fs, stdout io.Writer) *Sink {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Sink{fs: fsys, stdout: stdout}
}

// Emit writes code to path, creating or truncating the file, or to stdout
// when path is empty. Files get the code bytes exactly; stdout gets a
// trailing newline if the code lacks one. The parent directory of path must
// already exist.
func (s *Sink) Emit(code, path string) error {
	if path == "" {
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		if _, err := io.WriteString(s.stdout, code); err != nil {
			return &IOError{Path: "stdout", Err: err}
		}
		return nil
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		return &IOError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: path, Err: err}
	}

	logging.Info().Str("path", path).Int("bytes", len(code)).Msg("code written")
	return nil
}
