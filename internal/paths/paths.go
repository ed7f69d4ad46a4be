// Package paths maps entity coordinates to canonical locations on disk.
//
// Every function is pure: same inputs, same path, no I/O. The naming scheme
// doubles as the query index, so the reference index and the services must
// agree with it byte for byte.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitcms/internal/model"
)

// Folder names inside a project root.
const (
	AssetsFolder      = "assets"
	CollectionsFolder = "collections"
	FieldsFolder      = "fields"
	LFSFolder         = "lfs"
	LogsFolder        = "logs"
	PublicFolder      = "public"
	ThemeFolder       = "theme"
)

// ProjectFolders lists every folder created (and kept committed via
// .gitkeep) when a project is initialized.
var ProjectFolders = []string{
	AssetsFolder, CollectionsFolder, FieldsFolder, LFSFolder,
	LogsFolder, PublicFolder, ThemeFolder,
}

// Resolver computes paths below a fixed working directory.
type Resolver struct {
	workDir string
}

func NewResolver(workDir string) *Resolver {
	return &Resolver{workDir: workDir}
}

func (r *Resolver) WorkDir() string { return r.workDir }

func (r *Resolver) Tmp() string { return filepath.Join(r.workDir, "tmp") }

func (r *Resolver) Logs() string { return filepath.Join(r.workDir, "logs") }

func (r *Resolver) Projects() string { return filepath.Join(r.workDir, "projects") }

func (r *Resolver) Project(projectID string) string {
	return filepath.Join(r.Projects(), projectID)
}

func (r *Resolver) ProjectConfig(projectID string) string {
	return filepath.Join(r.Project(projectID), "project.json")
}

func (r *Resolver) ProjectLogs(projectID string) string {
	return filepath.Join(r.Project(projectID), LogsFolder)
}

func (r *Resolver) Public(projectID string) string {
	return filepath.Join(r.Project(projectID), PublicFolder)
}

func (r *Resolver) LFS(projectID string) string {
	return filepath.Join(r.Project(projectID), LFSFolder)
}

func (r *Resolver) Collections(projectID string) string {
	return filepath.Join(r.Project(projectID), CollectionsFolder)
}

func (r *Resolver) Collection(projectID, collectionID string) string {
	return filepath.Join(r.Collections(projectID), collectionID)
}

func (r *Resolver) CollectionConfig(projectID, collectionID string) string {
	return filepath.Join(r.Collection(projectID, collectionID), "collection.json")
}

// CollectionItems is the directory item files share with their collection's
// config file.
func (r *Resolver) CollectionItems(projectID, collectionID string) string {
	return r.Collection(projectID, collectionID)
}

func (r *Resolver) CollectionItemConfig(projectID, collectionID, itemID, language string) string {
	name := fmt.Sprintf("%s.%s.json", itemID, language)
	return filepath.Join(r.CollectionItems(projectID, collectionID), name)
}

func (r *Resolver) Fields(projectID string) string {
	return filepath.Join(r.Project(projectID), FieldsFolder)
}

func (r *Resolver) FieldConfig(projectID, fieldID, language string) string {
	name := fmt.Sprintf("%s.%s.json", fieldID, language)
	return filepath.Join(r.Fields(projectID), name)
}

func (r *Resolver) Assets(projectID string) string {
	return filepath.Join(r.Project(projectID), AssetsFolder)
}

func (r *Resolver) AssetConfig(projectID, assetID, language string) string {
	name := fmt.Sprintf("%s.%s.json", assetID, language)
	return filepath.Join(r.Assets(projectID), name)
}

// AssetFile is the binary payload, stored under the LFS-tracked folder.
func (r *Resolver) AssetFile(projectID, assetID, language, extension string) string {
	name := fmt.Sprintf("%s.%s.%s", assetID, language, extension)
	return filepath.Join(r.LFS(projectID), name)
}

func (r *Resolver) Theme(projectID string) string {
	return filepath.Join(r.Project(projectID), ThemeFolder)
}

// ThemeConfig is the path of the theme's own config file. Themes ship either
// a theme.json or fall back to their package.json.
func (r *Resolver) ThemeConfig(projectID string) string {
	return filepath.Join(r.Theme(projectID), "theme.json")
}

func (r *Resolver) ThemeConfigFallback(projectID string) string {
	return filepath.Join(r.Theme(projectID), "package.json")
}

// ProjectIDFromPath extracts a project id out of any path below the working
// directory, or "" when none is present. Used to route log lines to the
// owning project when only a repository path is at hand.
func ProjectIDFromPath(path string) string {
	const marker = "projects" + string(filepath.Separator)
	i := strings.Index(path, marker)
	if i < 0 {
		return ""
	}
	rest := path[i+len(marker):]
	id, _, _ := strings.Cut(rest, string(filepath.Separator))
	if model.ValidID(id) {
		return id
	}
	return ""
}
