package cms

import (
	"fmt"
	"os"
	"path/filepath"

	"gitcms/internal/model"
	"gitcms/internal/refs"
)

// FieldService manages the typed values items reference. Fields live in
// one flat folder per project; the same field id may exist once per
// language.
type FieldService struct {
	e *Engine
}

// Create writes a new field value and commits it.
func (s *FieldService) Create(projectID string, cfg model.FieldConfig) (model.Field, error) {
	e := s.e
	if cfg.ID == "" {
		cfg.ID = e.ids.NewID()
	}
	if err := model.CheckID("field.create", cfg.ID); err != nil {
		return model.Field{}, err
	}
	if err := checkLanguage("field.create", cfg.Language); err != nil {
		return model.Field{}, err
	}
	if err := checkFieldValue("field.create", cfg); err != nil {
		return model.Field{}, err
	}

	if err := e.store.Create(cfg, e.paths.FieldConfig(projectID, cfg.ID, cfg.Language)); err != nil {
		return model.Field{}, err
	}
	if err := s.commit(projectID, cfg, iconCreate, "Created"); err != nil {
		return model.Field{}, err
	}
	e.emit("field:create", projectID, cfg)
	return s.Read(projectID, cfg.ID, cfg.Language)
}

// Read loads one field value and derives its timestamps from history.
func (s *FieldService) Read(projectID, id, language string) (model.Field, error) {
	e := s.e
	if err := model.CheckID("field.read", id); err != nil {
		return model.Field{}, err
	}
	if err := checkLanguage("field.read", language); err != nil {
		return model.Field{}, err
	}
	var cfg model.FieldConfig
	if err := e.store.Read(e.paths.FieldConfig(projectID, id, language), &cfg); err != nil {
		return model.Field{}, err
	}
	meta, err := e.meta(projectID, s.relConfig(id, language))
	if err != nil {
		return model.Field{}, err
	}
	return model.Field{FieldConfig: cfg, Meta: meta}, nil
}

// ReadAll loads the fields behind the given references, in order.
func (s *FieldService) ReadAll(projectID string, references []model.FieldReference) ([]model.Field, error) {
	fields := make([]model.Field, 0, len(references))
	for _, ref := range references {
		field, err := s.Read(projectID, ref.Field.ID, ref.Field.Language)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// Update overwrites the field value and commits.
func (s *FieldService) Update(projectID string, cfg model.FieldConfig) (model.Field, error) {
	e := s.e
	if _, err := s.Read(projectID, cfg.ID, cfg.Language); err != nil {
		return model.Field{}, err
	}
	if err := checkFieldValue("field.update", cfg); err != nil {
		return model.Field{}, err
	}
	if err := e.store.Update(cfg, e.paths.FieldConfig(projectID, cfg.ID, cfg.Language)); err != nil {
		return model.Field{}, err
	}
	if err := s.commit(projectID, cfg, iconUpdate, "Updated"); err != nil {
		return model.Field{}, err
	}
	e.emit("field:update", projectID, cfg)
	return s.Read(projectID, cfg.ID, cfg.Language)
}

// Delete removes the field file and commits the removal. Items still
// referencing the field will fail validation on their next write.
func (s *FieldService) Delete(projectID, id, language string) error {
	e := s.e
	if _, err := s.Read(projectID, id, language); err != nil {
		return err
	}
	if err := os.Remove(e.paths.FieldConfig(projectID, id, language)); err != nil {
		return fmt.Errorf("deleting field %q: %w", id, err)
	}
	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(id, language)}); err != nil {
		return err
	}
	if err := e.git.Commit(root, commitMessage(iconDelete, "Deleted", model.TypeField, id)); err != nil {
		return err
	}
	e.emit("field:delete", projectID, nil)
	return nil
}

// List reads every field of a project, skipping unreadable files.
func (s *FieldService) List(projectID string, opts ListOptions) (PaginatedList[model.Field], error) {
	e := s.e
	references, err := refs.List(model.TypeField, e.paths.Fields(projectID))
	if err != nil {
		return PaginatedList[model.Field]{}, err
	}
	var fields []model.Field
	for _, ref := range references {
		field, err := s.Read(projectID, ref.ID, ref.Language)
		if err != nil {
			e.log.Error("skipping unreadable field", "project_id", projectID, "field_id", ref.ID, "error", err)
			continue
		}
		fields = append(fields, field)
	}
	return paginate(fields, opts), nil
}

// Count returns the number of field files without reading any of them.
func (s *FieldService) Count(projectID string) (int, error) {
	references, err := refs.List(model.TypeField, s.e.paths.Fields(projectID))
	if err != nil {
		return 0, err
	}
	return len(references), nil
}

// checkFieldValue rejects a value whose dynamic type does not match the
// declared field type. Nil is always acceptable; required-ness is the
// item's concern, not the field's.
func checkFieldValue(op string, cfg model.FieldConfig) error {
	if cfg.Value == nil {
		return nil
	}
	ok := false
	switch cfg.FieldType {
	case model.FieldTypeBoolean:
		_, ok = cfg.Value.(bool)
	case model.FieldTypeNumber:
		switch cfg.Value.(type) {
		case float64, int, int64:
			ok = true
		}
	case model.FieldTypeString, model.FieldTypeSlug:
		_, ok = cfg.Value.(string)
	case model.FieldTypeAsset, model.FieldTypeReference:
		switch cfg.Value.(type) {
		case model.AssetValue, map[string]any:
			ok = true
		}
	case model.FieldTypeList:
		switch cfg.Value.(type) {
		case []any, []string:
			ok = true
		}
	}
	if !ok {
		return model.NewError(model.KindValidation, op,
			"reason", "value does not match field type",
			"field_type", string(cfg.FieldType))
	}
	return nil
}

func (s *FieldService) commit(projectID string, cfg model.FieldConfig, icon, verb string) error {
	e := s.e
	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(cfg.ID, cfg.Language)}); err != nil {
		return err
	}
	return e.git.Commit(root, commitMessage(icon, verb, model.TypeField, cfg.ID))
}

func (s *FieldService) relConfig(id, language string) string {
	return filepath.Join("fields", fmt.Sprintf("%s.%s.json", id, language))
}
