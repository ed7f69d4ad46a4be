// Package jsonfs is the structured-file store: serialize one value to one
// JSON file at one path, with fail-fast create/read semantics.
//
// The store performs no locking of its own. Mutating callers are serialized
// downstream by the git command queue, which is the engine's single-writer
// discipline.
package jsonfs

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gitcms/internal/model"

	"github.com/goccy/go-json"
)

// DefaultIndent is used when no indentation is configured.
const DefaultIndent = "  "

// Store reads and writes JSON files with a fixed indentation.
type Store struct {
	indent string
}

func NewStore(indent string) *Store {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Store{indent: indent}
}

// Create serializes v to path with exclusive-create semantics. An occupied
// path is an already-exists error, never a silent overwrite.
func (s *Store) Create(v any, path string) error {
	data, err := s.marshal(v)
	if err != nil {
		return model.WrapError(model.KindValidation, "jsonfs.create", err, "path", path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.WrapError(model.KindAlreadyExists, "jsonfs.create", err, "path", path)
		}
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return nil
}

// Read deserializes the file at path into v.
func (s *Store) Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.WrapError(model.KindNotFound, "jsonfs.read", err, "path", path)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return model.WrapError(model.KindValidation, "jsonfs.read", err, "path", path)
	}
	return nil
}

// Update serializes v to path, overwriting unconditionally. It succeeds even
// if the path did not exist before; existence checks are the caller's call.
func (s *Store) Update(v any, path string) error {
	data, err := s.marshal(v)
	if err != nil {
		return model.WrapError(model.KindValidation, "jsonfs.update", err, "path", path)
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Store) marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", s.indent)
	if err != nil {
		return nil, err
	}
	// Files end with a newline so git diffs stay clean.
	if !strings.HasSuffix(string(data), "\n") {
		data = append(data, '\n')
	}
	return data, nil
}
