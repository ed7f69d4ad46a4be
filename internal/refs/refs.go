// Package refs lists model references by parsing directory entries. The
// filename grammar is the only index: no database or cache sits between a
// query and the files on disk.
package refs

import (
	"io/fs"
	"os"
	"strings"

	"gitcms/internal/lang"
	"gitcms/internal/model"
)

// languageScoped reports whether files of the given type carry a language
// segment in their name (id.language.ext instead of id.ext).
func languageScoped(t model.Type) bool {
	switch t {
	case model.TypeAsset, model.TypeField, model.TypeCollectionItem:
		return true
	}
	return false
}

func supportedFileExtension(ext string) bool {
	return ext == "json" || ext == "md"
}

// Parse splits a filename into a model reference. It returns false for
// anything outside the grammar: wrong segment count, non-UUID id, or an
// unsupported extension. Callers skip such entries silently so stray files
// never break listings.
func Parse(t model.Type, name string) (model.Reference, bool) {
	parts := strings.Split(name, ".")
	if languageScoped(t) {
		if len(parts) != 3 {
			return model.Reference{}, false
		}
		if !model.ValidID(parts[0]) || !lang.IsTag(parts[1]) || !supportedFileExtension(parts[2]) {
			return model.Reference{}, false
		}
		return model.Reference{ID: parts[0], Language: parts[1], Extension: parts[2]}, true
	}
	if len(parts) != 2 {
		return model.Reference{}, false
	}
	if !model.ValidID(parts[0]) || !supportedFileExtension(parts[1]) {
		return model.Reference{}, false
	}
	return model.Reference{ID: parts[0], Extension: parts[1]}, true
}

// List returns the references of every well-formed entry in dir. For types
// stored one-per-directory (collections, projects) it reads the directory
// names instead of filenames. A missing directory yields an empty list.
func List(t model.Type, dir string) ([]model.Reference, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.WrapError(model.KindValidation, "refs.list", err, "dir", dir)
	}

	var refs []model.Reference
	for _, entry := range entries {
		switch t {
		case model.TypeProject, model.TypeCollection:
			if !entry.IsDir() || !model.ValidID(entry.Name()) {
				continue
			}
			refs = append(refs, model.Reference{ID: entry.Name()})
		default:
			if entry.IsDir() || !regularFile(entry) {
				continue
			}
			ref, ok := Parse(t, entry.Name())
			if !ok {
				continue
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func regularFile(entry fs.DirEntry) bool {
	return entry.Type().IsRegular()
}
