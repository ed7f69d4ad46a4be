package refs

import (
	"os"
	"path/filepath"
	"testing"

	"gitcms/internal/model"
)

const (
	idA = "9b0e8eb4-82ff-4b9e-b295-e2e0e1ce4b7a"
	idB = "1c9d5f1a-5a50-4f7b-9c2e-3a1f0d9b8c7e"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		typ      model.Type
		filename string
		want     model.Reference
		ok       bool
	}{
		{"asset with language", model.TypeAsset, idA + ".en.json",
			model.Reference{ID: idA, Language: "en", Extension: "json"}, true},
		{"field markdown", model.TypeField, idA + ".de.md",
			model.Reference{ID: idA, Language: "de", Extension: "md"}, true},
		{"item missing language", model.TypeCollectionItem, idA + ".json",
			model.Reference{}, false},
		{"snapshot without language", model.TypeSnapshot, idA + ".json",
			model.Reference{ID: idA, Extension: "json"}, true},
		{"unsupported extension", model.TypeAsset, idA + ".en.png",
			model.Reference{}, false},
		{"invalid id", model.TypeAsset, "readme.en.json",
			model.Reference{}, false},
		{"too many segments", model.TypeAsset, idA + ".en.extra.json",
			model.Reference{}, false},
		{"invalid language", model.TypeAsset, idA + ".notalanguagetag.json",
			model.Reference{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.typ, tt.filename)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %t, want %t", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestList_files(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		idA + ".en.json",
		idB + ".de.json",
		// All of these are outside the grammar and must be skipped.
		"notes.txt",
		".hidden",
		idA + ".en.png",
		"invalid-id.en.json",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Subdirectories are never file-backed entities.
	if err := os.Mkdir(filepath.Join(dir, idB), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := List(model.TypeAsset, dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d refs, want 2: %+v", len(got), got)
	}
	for _, ref := range got {
		if ref.ID != idA && ref.ID != idB {
			t.Errorf("unexpected reference %+v", ref)
		}
	}
}

func TestList_directories(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{idA, idB, "not-a-collection"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Stray file between the collection dirs.
	if err := os.WriteFile(filepath.Join(dir, idA+".json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := List(model.TypeCollection, dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d refs, want 2: %+v", len(got), got)
	}
}

func TestList_missingDir(t *testing.T) {
	got, err := List(model.TypeAsset, filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("List() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("List() = %+v, want empty", got)
	}
}
