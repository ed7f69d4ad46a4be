package cms

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"

	"gitcms/internal/git"
	"gitcms/internal/model"
	"gitcms/internal/paths"
	"gitcms/internal/refs"
)

// gitignore keeps generated and cloned content out of a project's history.
// Hidden files are excluded wholesale, except the git bookkeeping files
// that must stay committed.
const gitignore = `.*
!.gitignore
!.gitattributes
!.gitkeep
` + paths.ThemeFolder + `
` + paths.PublicFolder + `
` + paths.LogsFolder + `
`

// mainBranch holds the linear published history; stageBranch is where all
// day-to-day work lands.
const (
	mainBranch  = "main"
	stageBranch = "stage"
)

// Upgrade is one migration applied when a project written by an older
// engine version is opened. Steps run in ascending version order; each one
// sees the project config as left by its predecessor.
type Upgrade struct {
	Version *semver.Version
	Apply   func(e *Engine, project *model.ProjectConfig) error
}

// ProjectService manages the version-controlled directory trees everything
// else lives in.
type ProjectService struct {
	e *Engine
}

// Create initializes a project: directory skeleton, ignore rules, a git
// repository on main with one initial commit, then a fresh stage branch
// where subsequent work happens.
func (s *ProjectService) Create(name, description string) (model.Project, error) {
	e := s.e
	id := e.ids.NewID()
	root := e.paths.Project(id)

	if err := os.MkdirAll(root, 0755); err != nil {
		return model.Project{}, fmt.Errorf("creating project directory: %w", err)
	}
	for _, folder := range paths.ProjectFolders {
		dir := filepath.Join(root, folder)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return model.Project{}, fmt.Errorf("creating project folder %q: %w", folder, err)
		}
		// Empty folders would vanish from history without a placeholder.
		keep := filepath.Join(dir, ".gitkeep")
		if err := os.WriteFile(keep, nil, 0644); err != nil {
			return model.Project{}, fmt.Errorf("creating %q: %w", keep, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0644); err != nil {
		return model.Project{}, fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := e.git.Init(root, git.InitOptions{InitialBranch: mainBranch}); err != nil {
		return model.Project{}, err
	}

	cfg := model.ProjectConfig{
		ID:          id,
		CoreVersion: e.coreVersion,
		Name:        name,
		Description: description,
		Version:     "0.1.0",
		Status:      model.ProjectStatusTodo,
	}
	cfg.Settings.Locale.Default = e.defaultLocale
	cfg.Settings.Locale.Supported = []model.Locale{e.defaultLocale}
	if err := e.store.Create(cfg, e.paths.ProjectConfig(id)); err != nil {
		return model.Project{}, err
	}

	if err := e.git.Add(root, []string{"."}); err != nil {
		return model.Project{}, err
	}
	if err := e.git.Commit(root, iconInit+" Created this new project"); err != nil {
		return model.Project{}, err
	}
	if err := e.git.Switch(root, stageBranch, git.SwitchOptions{IsNew: true}); err != nil {
		return model.Project{}, err
	}

	e.log.Info("created project", "project_id", id, "name", name)
	e.emit("project:create", id, cfg)
	return s.Read(id)
}

// Read loads a project and derives its timestamps from history.
func (s *ProjectService) Read(id string) (model.Project, error) {
	e := s.e
	if err := model.CheckID("project.read", id); err != nil {
		return model.Project{}, err
	}
	var cfg model.ProjectConfig
	if err := e.store.Read(e.paths.ProjectConfig(id), &cfg); err != nil {
		return model.Project{}, err
	}
	meta, err := e.meta(id, "project.json")
	if err != nil {
		return model.Project{}, err
	}
	return model.Project{ProjectConfig: cfg, Meta: meta}, nil
}

// Update overwrites the project config and commits the change.
func (s *ProjectService) Update(cfg model.ProjectConfig) (model.Project, error) {
	e := s.e
	if _, err := s.Read(cfg.ID); err != nil {
		return model.Project{}, err
	}
	if err := e.store.Update(cfg, e.paths.ProjectConfig(cfg.ID)); err != nil {
		return model.Project{}, err
	}
	root := e.paths.Project(cfg.ID)
	if err := e.git.Add(root, []string{"project.json"}); err != nil {
		return model.Project{}, err
	}
	if err := e.git.Commit(root, commitMessage(iconUpdate, "Updated", model.TypeProject, cfg.ID)); err != nil {
		return model.Project{}, err
	}
	e.emit("project:update", cfg.ID, cfg)
	return s.Read(cfg.ID)
}

// Delete removes the whole project tree, history included.
func (s *ProjectService) Delete(id string) error {
	e := s.e
	if err := model.CheckID("project.delete", id); err != nil {
		return err
	}
	if _, err := s.Read(id); err != nil {
		return err
	}
	if err := os.RemoveAll(e.paths.Project(id)); err != nil {
		return fmt.Errorf("deleting project %q: %w", id, err)
	}
	e.log.Info("deleted project", "project_id", id)
	e.emit("project:delete", id, nil)
	return nil
}

// List reads every project below the working directory. Individual read
// failures are logged and skipped so one broken project never hides the
// rest.
func (s *ProjectService) List(opts ListOptions) (PaginatedList[model.Project], error) {
	e := s.e
	references, err := refs.List(model.TypeProject, e.paths.Projects())
	if err != nil {
		return PaginatedList[model.Project]{}, err
	}
	var projects []model.Project
	for _, ref := range references {
		p, err := s.Read(ref.ID)
		if err != nil {
			e.log.Error("skipping unreadable project", "project_id", ref.ID, "error", err)
			continue
		}
		projects = append(projects, p)
	}
	return paginate(projects, opts), nil
}

// Count returns the number of projects without reading any of them.
func (s *ProjectService) Count() (int, error) {
	references, err := refs.List(model.TypeProject, s.e.paths.Projects())
	if err != nil {
		return 0, err
	}
	return len(references), nil
}

// CollectionExport bundles a collection with all its items.
type CollectionExport struct {
	model.Collection
	Items []model.CollectionItem `json:"items"`
}

// ProjectExport is the whole project flattened into one document, the
// input for theme builds.
type ProjectExport struct {
	model.Project
	Collections []CollectionExport `json:"collections"`
	Assets      []model.Asset      `json:"assets"`
}

// Export flattens a project into a single document.
func (s *ProjectService) Export(id string) (ProjectExport, error) {
	e := s.e
	project, err := s.Read(id)
	if err != nil {
		return ProjectExport{}, err
	}

	collections, err := e.Collections.List(id, ListOptions{})
	if err != nil {
		return ProjectExport{}, err
	}
	exported := make([]CollectionExport, 0, len(collections.List))
	for _, c := range collections.List {
		items, err := e.Items.List(id, c.ID, ListOptions{})
		if err != nil {
			return ProjectExport{}, err
		}
		exported = append(exported, CollectionExport{Collection: c, Items: items.List})
	}

	assets, err := e.Assets.List(id, ListOptions{})
	if err != nil {
		return ProjectExport{}, err
	}

	return ProjectExport{
		Project:     project,
		Collections: exported,
		Assets:      assets.List,
	}, nil
}

// Build exports the project into the theme directory, builds and runs the
// theme's container image, and publishes the resulting dist folder into
// public/.
func (s *ProjectService) Build(ctx context.Context, id string) error {
	e := s.e
	if e.container == nil {
		return model.NewError(model.KindValidation, "project.build", "reason", "no container adapter configured")
	}
	export, err := s.Export(id)
	if err != nil {
		return err
	}

	themeDir := e.paths.Theme(id)
	if err := e.store.Update(export, filepath.Join(themeDir, "export.json")); err != nil {
		return err
	}

	tag := "gitcms/theme-" + id
	if err := e.container.Build(ctx, themeDir, tag); err != nil {
		return err
	}
	if err := e.Themes.runBuild(ctx, id, tag); err != nil {
		return err
	}

	dist := filepath.Join(themeDir, "dist")
	public := e.paths.Public(id)
	if err := os.RemoveAll(public); err != nil {
		return fmt.Errorf("clearing public folder: %w", err)
	}
	if err := copyDir(dist, public); err != nil {
		return fmt.Errorf("publishing build output: %w", err)
	}
	if err := os.WriteFile(filepath.Join(public, ".gitkeep"), nil, 0644); err != nil {
		return fmt.Errorf("restoring .gitkeep: %w", err)
	}

	e.log.Info("built project", "project_id", id, "image", tag)
	e.emit("project:build", id, nil)
	return nil
}

// Upgrade migrates a project written by an older engine version up to the
// running one. A project from a newer engine is refused. Each step is
// guarded by a snapshot that is reverted when the step fails.
func (s *ProjectService) Upgrade(id string, upgrades []Upgrade) error {
	e := s.e
	project, err := s.Read(id)
	if err != nil {
		return err
	}

	from, err := semver.NewVersion(project.CoreVersion)
	if err != nil {
		return model.WrapError(model.KindUpgrade, "project.upgrade", err, "core_version", project.CoreVersion)
	}
	to, err := semver.NewVersion(e.coreVersion)
	if err != nil {
		return model.WrapError(model.KindUpgrade, "project.upgrade", err, "engine_version", e.coreVersion)
	}

	switch {
	case from.GreaterThan(to):
		return model.NewError(model.KindUpgrade, "project.upgrade",
			"reason", "project was written by a newer engine",
			"project_version", from.String(),
			"engine_version", to.String(),
		)
	case from.Equal(to):
		return nil
	}

	pending := make([]Upgrade, 0, len(upgrades))
	for _, u := range upgrades {
		if u.Version.GreaterThan(from) && !u.Version.GreaterThan(to) {
			pending = append(pending, u)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version.LessThan(pending[j].Version)
	})

	cfg := project.ProjectConfig
	for _, u := range pending {
		snapshot, err := e.Snapshots.Create(id, "before upgrade to "+u.Version.String(), nil)
		if err != nil {
			return err
		}
		if err := u.Apply(e, &cfg); err != nil {
			if revertErr := e.Snapshots.Revert(id, snapshot.ID); revertErr != nil {
				e.log.Error("reverting failed upgrade step", "project_id", id, "error", revertErr)
			}
			return model.WrapError(model.KindUpgrade, "project.upgrade", err,
				"step_version", u.Version.String())
		}
		cfg.CoreVersion = u.Version.String()
		if err := s.persistUpgrade(id, cfg); err != nil {
			return err
		}
		if err := e.Snapshots.Delete(id, snapshot.ID); err != nil {
			e.log.Error("removing upgrade snapshot", "project_id", id, "error", err)
		}
	}

	if cfg.CoreVersion != to.String() {
		cfg.CoreVersion = to.String()
		if err := s.persistUpgrade(id, cfg); err != nil {
			return err
		}
	}

	e.log.Info("upgraded project", "project_id", id, "from", from.String(), "to", to.String())
	e.emit("project:upgrade", id, cfg)
	return nil
}

func (s *ProjectService) persistUpgrade(id string, cfg model.ProjectConfig) error {
	e := s.e
	if err := e.store.Update(cfg, e.paths.ProjectConfig(id)); err != nil {
		return err
	}
	root := e.paths.Project(id)
	if err := e.git.Add(root, []string{"project.json"}); err != nil {
		return err
	}
	return e.git.Commit(root,
		fmt.Sprintf("%s Upgraded project to %s", iconUpdate, cfg.CoreVersion))
}
