package cms

import (
	"context"
	"fmt"
	"os"

	"gitcms/internal/container"
	"gitcms/internal/git"
	"gitcms/internal/model"
)

// ThemeService manages the theme cloned into a project. The theme folder
// is ignored by the project's repository; the theme keeps its own history
// and is updated by pulling.
type ThemeService struct {
	e *Engine
}

// Use replaces the project's theme with a shallow clone of the given
// repository.
func (s *ThemeService) Use(projectID, url string) (model.ThemeConfig, error) {
	e := s.e
	if err := model.CheckID("theme.use", projectID); err != nil {
		return model.ThemeConfig{}, err
	}
	dir := e.paths.Theme(projectID)
	if err := os.RemoveAll(dir); err != nil {
		return model.ThemeConfig{}, fmt.Errorf("clearing theme directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return model.ThemeConfig{}, fmt.Errorf("creating theme directory: %w", err)
	}
	if err := e.git.Clone(url, dir, git.CloneOptions{Depth: 1, SingleBranch: true}); err != nil {
		return model.ThemeConfig{}, err
	}
	e.emit("theme:use", projectID, url)
	return s.Read(projectID)
}

// Read loads the theme's own config, falling back to its package manifest
// when no dedicated config file exists.
func (s *ThemeService) Read(projectID string) (model.ThemeConfig, error) {
	e := s.e
	var cfg model.ThemeConfig
	err := e.store.Read(e.paths.ThemeConfig(projectID), &cfg)
	if err == nil {
		return cfg, nil
	}
	if !model.IsNotFound(err) {
		return model.ThemeConfig{}, err
	}
	if err := e.store.Read(e.paths.ThemeConfigFallback(projectID), &cfg); err != nil {
		return model.ThemeConfig{}, err
	}
	return cfg, nil
}

// Update pulls the theme's repository.
func (s *ThemeService) Update(projectID string) (model.ThemeConfig, error) {
	e := s.e
	if _, err := s.Read(projectID); err != nil {
		return model.ThemeConfig{}, err
	}
	if err := e.git.Pull(e.paths.Theme(projectID)); err != nil {
		return model.ThemeConfig{}, err
	}
	e.emit("theme:update", projectID, nil)
	return s.Read(projectID)
}

// Delete empties the theme directory.
func (s *ThemeService) Delete(projectID string) error {
	e := s.e
	dir := e.paths.Theme(projectID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting theme: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("recreating theme directory: %w", err)
	}
	e.emit("theme:delete", projectID, nil)
	return nil
}

// runBuild executes the theme image's build step with the theme directory
// mounted in.
func (s *ThemeService) runBuild(ctx context.Context, projectID, image string) error {
	e := s.e
	dir := e.paths.Theme(projectID)
	_, err := e.container.Run(ctx, image, container.RunOptions{
		Remove:  true,
		WorkDir: "/build",
		Mounts:  []string{dir + ":/build"},
	}, "npm", "run", "build")
	return err
}
