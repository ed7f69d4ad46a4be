package cms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"gitcms/internal/model"
	"gitcms/internal/refs"
)

// svgSniffLimit bounds how large a file is still inspected for SVG
// content. MIME sniffing alone cannot tell SVG from generic XML, so small
// candidates get a content check.
const svgSniffLimit = 500 * 1024

// AssetService manages binary payloads and their metadata. The payload
// lives under the LFS-tracked folder, the metadata next to the other JSON
// files; both always change in the same commit.
type AssetService struct {
	e *Engine
}

// Create validates and detects the payload's type, copies it into the
// project, writes the metadata and commits both together. Nothing is
// written when the file type is unsupported.
func (s *AssetService) Create(projectID, sourcePath string, cfg model.AssetConfig) (model.Asset, error) {
	const op = "asset.create"
	e := s.e
	if cfg.ID == "" {
		cfg.ID = e.ids.NewID()
	}
	if err := model.CheckID(op, cfg.ID); err != nil {
		return model.Asset{}, err
	}
	if err := checkLanguage(op, cfg.Language); err != nil {
		return model.Asset{}, err
	}

	extension, mimeType, err := detectFileType(sourcePath)
	if err != nil {
		return model.Asset{}, err
	}
	if !model.SupportedExtension(extension) {
		return model.Asset{}, model.NewError(model.KindValidation, op,
			"reason", "unsupported file extension", "extension", extension)
	}
	if !model.SupportedMimeType(mimeType) {
		return model.Asset{}, model.NewError(model.KindValidation, op,
			"reason", "unsupported MIME type", "mime_type", mimeType)
	}
	cfg.Extension = extension
	cfg.MimeType = mimeType

	// The exclusive config create is the gate against duplicate ids; it has
	// to happen before the payload copy, which overwrites.
	configPath := e.paths.AssetConfig(projectID, cfg.ID, cfg.Language)
	if err := e.store.Create(cfg, configPath); err != nil {
		return model.Asset{}, err
	}
	payload := e.paths.AssetFile(projectID, cfg.ID, cfg.Language, cfg.Extension)
	if err := copyFile(sourcePath, payload); err != nil {
		os.Remove(configPath)
		return model.Asset{}, fmt.Errorf("copying asset payload: %w", err)
	}

	if err := s.commit(projectID, cfg, iconCreate, "Created"); err != nil {
		return model.Asset{}, err
	}
	e.emit("asset:create", projectID, cfg)
	return s.Read(projectID, cfg.ID, cfg.Language)
}

// Read loads the metadata, derives timestamps from history and resolves
// the payload's path and size.
func (s *AssetService) Read(projectID, id, language string) (model.Asset, error) {
	const op = "asset.read"
	e := s.e
	if err := model.CheckID(op, id); err != nil {
		return model.Asset{}, err
	}
	if err := checkLanguage(op, language); err != nil {
		return model.Asset{}, err
	}
	var cfg model.AssetConfig
	if err := e.store.Read(e.paths.AssetConfig(projectID, id, language), &cfg); err != nil {
		return model.Asset{}, err
	}
	meta, err := e.meta(projectID, s.relConfig(id, language))
	if err != nil {
		return model.Asset{}, err
	}

	payload := e.paths.AssetFile(projectID, id, language, cfg.Extension)
	info, err := os.Stat(payload)
	if err != nil {
		return model.Asset{}, model.WrapError(model.KindNotFound, op, err, "path", payload)
	}
	return model.Asset{
		AssetConfig: cfg,
		Meta:        meta,
		FilePath:    payload,
		Size:        info.Size(),
	}, nil
}

// Update overwrites the metadata only; replacing the payload means
// deleting and recreating the asset.
func (s *AssetService) Update(projectID string, cfg model.AssetConfig) (model.Asset, error) {
	e := s.e
	current, err := s.Read(projectID, cfg.ID, cfg.Language)
	if err != nil {
		return model.Asset{}, err
	}
	// The payload is immutable through this path, so its identity fields are
	// too.
	cfg.Extension = current.Extension
	cfg.MimeType = current.MimeType

	if err := e.store.Update(cfg, e.paths.AssetConfig(projectID, cfg.ID, cfg.Language)); err != nil {
		return model.Asset{}, err
	}
	if err := s.commit(projectID, cfg, iconUpdate, "Updated"); err != nil {
		return model.Asset{}, err
	}
	e.emit("asset:update", projectID, cfg)
	return s.Read(projectID, cfg.ID, cfg.Language)
}

// Delete removes payload and metadata in one commit.
func (s *AssetService) Delete(projectID, id, language string) error {
	e := s.e
	asset, err := s.Read(projectID, id, language)
	if err != nil {
		return err
	}
	if err := os.Remove(asset.FilePath); err != nil {
		return fmt.Errorf("deleting asset payload: %w", err)
	}
	if err := os.Remove(e.paths.AssetConfig(projectID, id, language)); err != nil {
		return fmt.Errorf("deleting asset config: %w", err)
	}

	root := e.paths.Project(projectID)
	files := []string{
		s.relConfig(id, language),
		s.relPayload(id, language, asset.Extension),
	}
	if err := e.git.Add(root, files); err != nil {
		return err
	}
	if err := e.git.Commit(root, commitMessage(iconDelete, "Deleted", model.TypeAsset, id)); err != nil {
		return err
	}
	e.emit("asset:delete", projectID, nil)
	return nil
}

// List reads every asset of a project, skipping unreadable ones.
func (s *AssetService) List(projectID string, opts ListOptions) (PaginatedList[model.Asset], error) {
	e := s.e
	references, err := refs.List(model.TypeAsset, e.paths.Assets(projectID))
	if err != nil {
		return PaginatedList[model.Asset]{}, err
	}
	var assets []model.Asset
	for _, ref := range references {
		asset, err := s.Read(projectID, ref.ID, ref.Language)
		if err != nil {
			e.log.Error("skipping unreadable asset", "project_id", projectID, "asset_id", ref.ID, "error", err)
			continue
		}
		assets = append(assets, asset)
	}
	return paginate(assets, opts), nil
}

// Count returns the number of asset files without reading any of them.
func (s *AssetService) Count(projectID string) (int, error) {
	references, err := refs.List(model.TypeAsset, s.e.paths.Assets(projectID))
	if err != nil {
		return 0, err
	}
	return len(references), nil
}

// detectFileType sniffs the payload's extension and MIME type from its
// content, never from its current name. SVG files up to the sniff limit
// are recognized by content because they detect as plain XML otherwise.
func detectFileType(path string) (extension, mimeType string, err error) {
	const op = "asset.detect"
	info, err := os.Stat(path)
	if err != nil {
		return "", "", model.WrapError(model.KindNotFound, op, err, "path", path)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", model.WrapError(model.KindValidation, op, err, "path", path)
	}
	extension = strings.TrimPrefix(detected.Extension(), ".")
	mimeType = detected.String()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	if info.Size() <= svgSniffLimit && isSVG(path) {
		return "svg", "image/svg+xml", nil
	}
	return extension, mimeType, nil
}

// isSVG reports whether the file's first kilobyte contains an opening svg
// element, after optional XML declaration and comments.
func isSVG(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(buf[:n])), "<svg")
}

func (s *AssetService) commit(projectID string, cfg model.AssetConfig, icon, verb string) error {
	e := s.e
	root := e.paths.Project(projectID)
	files := []string{
		s.relConfig(cfg.ID, cfg.Language),
		s.relPayload(cfg.ID, cfg.Language, cfg.Extension),
	}
	if err := e.git.Add(root, files); err != nil {
		return err
	}
	return e.git.Commit(root, commitMessage(icon, verb, model.TypeAsset, cfg.ID))
}

func (s *AssetService) relConfig(id, language string) string {
	return filepath.Join("assets", fmt.Sprintf("%s.%s.json", id, language))
}

func (s *AssetService) relPayload(id, language, extension string) string {
	return filepath.Join("lfs", fmt.Sprintf("%s.%s.%s", id, language, extension))
}
