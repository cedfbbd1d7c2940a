package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/pkg/types"
)

// Error reports a failure to load or save the settings file.
type Error struct {
	Op   string // "read", "parse", "encode" or "write"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("settings %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Kind classifies unreadable or malformed settings as a configuration
// problem and failed writes as local I/O.
func (e *Error) Kind() types.ErrorKind {
	switch e.Op {
	case "read", "parse":
		return types.KindConfiguration
	default:
		return types.KindIO
	}
}

// Store loads and saves Settings at a fixed path.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the settings file at path on fsys.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the zero Settings.
func (s *Store) Load() (types.Settings, error) {
	var settings types.Settings

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug().Str("path", s.path).Msg("settings file not found, using defaults")
			return settings, nil
		}
		return settings, &Error{Op: "read", Path: s.path, Err: err}
	}

	md, err := toml.Decode(string(data), &settings)
	if err != nil {
		return types.Settings{}, &Error{Op: "parse", Path: s.path, Err: err}
	}
	for _, key := range md.Undecoded() {
		logging.Warn().Str("path", s.path).Str("key", key.String()).Msg("ignoring unknown settings key")
	}

	return settings, nil
}

// Save writes the whole settings record, replacing any existing file.
func (s *Store) Save(settings types.Settings) error {
	var buf bytes.Buffer
	if err := Encode(&buf, settings); err != nil {
		return &Error{Op: "encode", Path: s.path, Err: err}
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &Error{Op: "write", Path: s.path, Err: err}
	}

	// The file may hold an API key.
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0600); err != nil {
		return &Error{Op: "write", Path: s.path, Err: err}
	}

	logging.Debug().Str("path", s.path).Int("bytes", buf.Len()).Msg("settings saved")
	return nil
}

// Encode writes settings as TOML. Absent fields are omitted.
func Encode(w io.Writer, settings types.Settings) error {
	return toml.NewEncoder(w).Encode(settings)
}
