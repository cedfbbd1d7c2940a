// Package config manages the persisted coto settings.
//
// Settings are a flat record of optional string fields stored as TOML at a
// per-user location that follows the XDG Base Directory layout:
//
//  1. $COTO_CONFIG_DIR/config.toml
//  2. $XDG_CONFIG_HOME/coto/config.toml
//  3. ~/.config/coto/config.toml (%APPDATA%\coto on Windows)
//
// A missing file loads as the zero Settings and missing fields are simply
// absent. Save always writes the whole record, creating parent directories
// as needed. There is no locking: coto assumes a single user running a
// single process at a time.
//
// All file access goes through an afero.Fs so callers can substitute an
// in-memory filesystem.
//
// # Keys
//
// The Keys table names every settings field as it appears in the file
// (openai_key, default_profile, default_region, model, api, endpoint).
// LookupKey accepts dashes in place of underscores and suggests the closest
// known key when a name is misspelled.
package config
