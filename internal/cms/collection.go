package cms

import (
	"fmt"
	"os"
	"path/filepath"

	"gitcms/internal/model"
	"gitcms/internal/refs"
)

// CollectionService manages the user-defined content types.
type CollectionService struct {
	e *Engine
}

// Create writes a new collection directory with its config and commits it.
func (s *CollectionService) Create(projectID string, cfg model.CollectionConfig) (model.Collection, error) {
	e := s.e
	if err := model.CheckID("collection.create", projectID); err != nil {
		return model.Collection{}, err
	}
	if cfg.ID == "" {
		cfg.ID = e.ids.NewID()
	}
	if err := model.CheckID("collection.create", cfg.ID); err != nil {
		return model.Collection{}, err
	}

	dir := e.paths.Collection(projectID, cfg.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return model.Collection{}, fmt.Errorf("creating collection directory: %w", err)
	}
	if err := e.store.Create(cfg, e.paths.CollectionConfig(projectID, cfg.ID)); err != nil {
		return model.Collection{}, err
	}

	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(cfg.ID)}); err != nil {
		return model.Collection{}, err
	}
	if err := e.git.Commit(root, commitMessage(iconCreate, "Created", model.TypeCollection, cfg.ID)); err != nil {
		return model.Collection{}, err
	}
	e.emit("collection:create", projectID, cfg)
	return s.Read(projectID, cfg.ID)
}

// Read loads a collection and derives its timestamps from history.
func (s *CollectionService) Read(projectID, id string) (model.Collection, error) {
	e := s.e
	if err := model.CheckID("collection.read", id); err != nil {
		return model.Collection{}, err
	}
	var cfg model.CollectionConfig
	if err := e.store.Read(e.paths.CollectionConfig(projectID, id), &cfg); err != nil {
		return model.Collection{}, err
	}
	meta, err := e.meta(projectID, s.relConfig(id))
	if err != nil {
		return model.Collection{}, err
	}
	return model.Collection{CollectionConfig: cfg, Meta: meta}, nil
}

// Update applies a schema change. Before anything is written, the change is
// checked against every item of the collection; when the change would leave
// items violating their definitions, the pending remediation actions are
// returned and the config stays untouched. Only an empty action set lets
// the update proceed.
func (s *CollectionService) Update(projectID string, cfg model.CollectionConfig) (model.Collection, model.CollectionUpdateResult, error) {
	e := s.e
	current, err := s.Read(projectID, cfg.ID)
	if err != nil {
		return model.Collection{}, model.CollectionUpdateResult{}, err
	}

	result, err := s.analyzeUpdate(projectID, current.CollectionConfig, cfg)
	if err != nil {
		return model.Collection{}, model.CollectionUpdateResult{}, err
	}
	if !result.Empty() {
		return model.Collection{}, result, nil
	}

	if err := e.store.Update(cfg, e.paths.CollectionConfig(projectID, cfg.ID)); err != nil {
		return model.Collection{}, result, err
	}
	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(cfg.ID)}); err != nil {
		return model.Collection{}, result, err
	}
	if err := e.git.Commit(root, commitMessage(iconUpdate, "Updated", model.TypeCollection, cfg.ID)); err != nil {
		return model.Collection{}, result, err
	}
	e.emit("collection:update", projectID, cfg)
	updated, err := s.Read(projectID, cfg.ID)
	return updated, result, err
}

// analyzeUpdate compares the old and new field definitions and collects the
// actions a caller must resolve first. Two situations produce actions:
// a definition turning required, and a brand new required definition.
// Uniqueness and input changes are accepted as-is for now.
func (s *CollectionService) analyzeUpdate(projectID string, old, updated model.CollectionConfig) (model.CollectionUpdateResult, error) {
	e := s.e
	var result model.CollectionUpdateResult

	oldDefs := make(map[string]model.FieldDefinition, len(old.FieldDefinitions))
	for _, def := range old.FieldDefinitions {
		oldDefs[def.ID] = def
	}

	var items []model.CollectionItem
	needItems := false
	for _, def := range updated.FieldDefinitions {
		prev, existed := oldDefs[def.ID]
		if (existed && !prev.IsRequired && def.IsRequired) || (!existed && def.IsRequired) {
			needItems = true
		}
	}
	if needItems {
		listed, err := e.Items.List(projectID, old.ID, ListOptions{})
		if err != nil {
			return result, err
		}
		items = listed.List
	}

	for _, def := range updated.FieldDefinitions {
		prev, existed := oldDefs[def.ID]

		switch {
		case existed && !prev.IsRequired && def.IsRequired:
			for _, item := range items {
				ref := findReference(item.FieldReferences, def.ID)
				if ref == nil {
					result.Create = append(result.Create, model.UpdateAction{
						Violation:       model.ViolationFieldRequiredButUndefined,
						Item:            item,
						FieldDefinition: def,
					})
					continue
				}
				field, err := e.Fields.Read(projectID, ref.Field.ID, ref.Field.Language)
				if err != nil {
					return result, err
				}
				if field.Value == nil {
					r := *ref
					result.Update = append(result.Update, model.UpdateAction{
						Violation:       model.ViolationFieldValueRequiredButNull,
						Item:            item,
						FieldDefinition: def,
						FieldReference:  &r,
					})
				}
			}
		case !existed && def.IsRequired:
			for _, item := range items {
				result.Create = append(result.Create, model.UpdateAction{
					Violation:       model.ViolationFieldRequiredButUndefined,
					Item:            item,
					FieldDefinition: def,
				})
			}
		}
	}

	return result, nil
}

// Delete removes the collection directory with everything in it and
// commits the removal.
func (s *CollectionService) Delete(projectID, id string) error {
	e := s.e
	if _, err := s.Read(projectID, id); err != nil {
		return err
	}
	if err := os.RemoveAll(e.paths.Collection(projectID, id)); err != nil {
		return fmt.Errorf("deleting collection %q: %w", id, err)
	}
	root := e.paths.Project(projectID)
	rel := filepath.Join("collections", id)
	if err := e.git.Add(root, []string{rel}); err != nil {
		return err
	}
	if err := e.git.Commit(root, commitMessage(iconDelete, "Deleted", model.TypeCollection, id)); err != nil {
		return err
	}
	e.emit("collection:delete", projectID, nil)
	return nil
}

// List reads every collection of a project, skipping unreadable ones.
func (s *CollectionService) List(projectID string, opts ListOptions) (PaginatedList[model.Collection], error) {
	e := s.e
	references, err := refs.List(model.TypeCollection, e.paths.Collections(projectID))
	if err != nil {
		return PaginatedList[model.Collection]{}, err
	}
	var collections []model.Collection
	for _, ref := range references {
		c, err := s.Read(projectID, ref.ID)
		if err != nil {
			e.log.Error("skipping unreadable collection", "project_id", projectID, "collection_id", ref.ID, "error", err)
			continue
		}
		collections = append(collections, c)
	}
	return paginate(collections, opts), nil
}

// Count returns the number of collections without reading any of them.
func (s *CollectionService) Count(projectID string) (int, error) {
	references, err := refs.List(model.TypeCollection, s.e.paths.Collections(projectID))
	if err != nil {
		return 0, err
	}
	return len(references), nil
}

func (s *CollectionService) relConfig(id string) string {
	return filepath.Join("collections", id, "collection.json")
}

func findReference(refs []model.FieldReference, fieldDefinitionID string) *model.FieldReference {
	for i := range refs {
		if refs[i].FieldDefinitionID == fieldDefinitionID {
			return &refs[i]
		}
	}
	return nil
}
