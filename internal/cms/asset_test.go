package cms_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitcms/internal/cms"
	"gitcms/internal/model"
)

// pngHeader is a minimal valid PNG signature plus IHDR chunk start.
var pngHeader = []byte{
	0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssetService_Create_png(t *testing.T) {
	engine, stub, resolver := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}

	source := writeTempFile(t, "upload", pngHeader)
	asset, err := engine.Assets.Create(project.ID, source, model.AssetConfig{
		Language: "en",
		Name:     "logo",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if asset.Extension != "png" {
		t.Errorf("Extension = %q, want png", asset.Extension)
	}
	if asset.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", asset.MimeType)
	}
	if asset.Size != int64(len(pngHeader)) {
		t.Errorf("Size = %d, want %d", asset.Size, len(pngHeader))
	}

	payload := resolver.AssetFile(project.ID, asset.ID, "en", "png")
	if _, err := os.Stat(payload); err != nil {
		t.Errorf("payload not copied: %v", err)
	}

	// Payload and config land in one commit.
	found := false
	for _, c := range stub.CallsMatching("add") {
		if strings.Contains(c, "assets/") && strings.Contains(c, "lfs/") {
			found = true
		}
	}
	if !found {
		t.Error("expected one add staging both config and payload")
	}
}

func TestAssetService_Create_svg(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}

	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	source := writeTempFile(t, "image", svg)
	asset, err := engine.Assets.Create(project.ID, source, model.AssetConfig{Language: "en"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if asset.Extension != "svg" {
		t.Errorf("Extension = %q, want svg", asset.Extension)
	}
	if asset.MimeType != "image/svg+xml" {
		t.Errorf("MimeType = %q, want image/svg+xml", asset.MimeType)
	}
}

func TestAssetService_Create_duplicateKeepsPayload(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}

	source := writeTempFile(t, "upload", pngHeader)
	asset, err := engine.Assets.Create(project.ID, source, model.AssetConfig{Language: "en", Name: "logo"})
	if err != nil {
		t.Fatal(err)
	}
	original, err := os.ReadFile(asset.FilePath)
	if err != nil {
		t.Fatal(err)
	}

	// A second create with the same id and language must fail without
	// touching the committed payload.
	other := append(append([]byte{}, pngHeader...), 0xff, 0xff)
	replacement := writeTempFile(t, "replacement", other)
	_, err = engine.Assets.Create(project.ID, replacement, model.AssetConfig{
		ID: asset.ID, Language: "en", Name: "logo2",
	})
	if !model.IsAlreadyExists(err) {
		t.Fatalf("Create() error = %v, want already-exists", err)
	}

	after, err := os.ReadFile(asset.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(original, after) {
		t.Errorf("payload changed on rejected create: %d bytes -> %d bytes", len(original), len(after))
	}
}

func TestAssetService_Create_unsupportedType(t *testing.T) {
	engine, _, resolver := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}

	source := writeTempFile(t, "data", []byte{0x00, 0x01, 0x02, 0x03})
	_, err = engine.Assets.Create(project.ID, source, model.AssetConfig{Language: "en"})
	if !model.IsValidation(err) {
		t.Fatalf("Create() error = %v, want validation", err)
	}

	// Nothing may have been written.
	entries, readErr := os.ReadDir(resolver.LFS(project.ID))
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if e.Name() != ".gitkeep" {
			t.Errorf("unexpected payload %q after rejected create", e.Name())
		}
	}
}

func TestAssetService_UpdateDelete(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}
	source := writeTempFile(t, "upload", pngHeader)
	asset, err := engine.Assets.Create(project.ID, source, model.AssetConfig{Language: "en", Name: "old"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("update touches metadata only", func(t *testing.T) {
		cfg := asset.AssetConfig
		cfg.Name = "new"
		cfg.Extension = "zip" // must be ignored
		updated, err := engine.Assets.Update(project.ID, cfg)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Name != "new" {
			t.Errorf("Name = %q, want new", updated.Name)
		}
		if updated.Extension != "png" {
			t.Errorf("Extension = %q, payload identity must not change", updated.Extension)
		}
	})

	t.Run("delete removes payload and config", func(t *testing.T) {
		if err := engine.Assets.Delete(project.ID, asset.ID, "en"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := os.Stat(asset.FilePath); !os.IsNotExist(err) {
			t.Error("payload still exists after delete")
		}
		if _, err := engine.Assets.Read(project.ID, asset.ID, "en"); !model.IsNotFound(err) {
			t.Errorf("Read() after delete = %v, want not-found", err)
		}
	})
}

func TestAssetService_List(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one", "two"} {
		source := writeTempFile(t, name, pngHeader)
		if _, err := engine.Assets.Create(project.ID, source, model.AssetConfig{
			Language: "en", Name: name,
		}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := engine.Assets.List(project.ID, cms.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 2 {
		t.Errorf("Total = %d, want 2", list.Total)
	}
}
