package cms

import (
	"fmt"
	"os"
	"path/filepath"

	"gitcms/internal/model"
	"gitcms/internal/refs"
)

// CollectionItemService manages the records of a collection. Every write
// is validated against the collection's field definitions first; nothing
// touches disk while the item would violate its schema.
type CollectionItemService struct {
	e *Engine
}

// Create validates cfg against the collection's field definitions, writes
// the item file and commits it.
func (s *CollectionItemService) Create(projectID, collectionID string, cfg model.CollectionItemConfig) (model.CollectionItem, error) {
	e := s.e
	if err := model.CheckID("collectionItem.create", collectionID); err != nil {
		return model.CollectionItem{}, err
	}
	if cfg.ID == "" {
		cfg.ID = e.ids.NewID()
	}
	if err := model.CheckID("collectionItem.create", cfg.ID); err != nil {
		return model.CollectionItem{}, err
	}
	if err := checkLanguage("collectionItem.create", cfg.Language); err != nil {
		return model.CollectionItem{}, err
	}

	collection, err := e.Collections.Read(projectID, collectionID)
	if err != nil {
		return model.CollectionItem{}, err
	}
	if err := s.validate(projectID, collection.FieldDefinitions, cfg.FieldReferences); err != nil {
		return model.CollectionItem{}, err
	}

	path := e.paths.CollectionItemConfig(projectID, collectionID, cfg.ID, cfg.Language)
	if err := e.store.Create(cfg, path); err != nil {
		return model.CollectionItem{}, err
	}
	if err := s.commit(projectID, collectionID, cfg, iconCreate, "Created"); err != nil {
		return model.CollectionItem{}, err
	}
	e.emit("collectionItem:create", projectID, cfg)
	return s.Read(projectID, collectionID, cfg.ID, cfg.Language)
}

// Read loads one item and derives its timestamps from history.
func (s *CollectionItemService) Read(projectID, collectionID, id, language string) (model.CollectionItem, error) {
	e := s.e
	if err := model.CheckID("collectionItem.read", id); err != nil {
		return model.CollectionItem{}, err
	}
	if err := checkLanguage("collectionItem.read", language); err != nil {
		return model.CollectionItem{}, err
	}
	var cfg model.CollectionItemConfig
	path := e.paths.CollectionItemConfig(projectID, collectionID, id, language)
	if err := e.store.Read(path, &cfg); err != nil {
		return model.CollectionItem{}, err
	}
	meta, err := e.meta(projectID, s.relConfig(collectionID, id, language))
	if err != nil {
		return model.CollectionItem{}, err
	}
	return model.CollectionItem{CollectionItemConfig: cfg, Meta: meta}, nil
}

// Update revalidates and overwrites the item, then commits.
func (s *CollectionItemService) Update(projectID, collectionID string, cfg model.CollectionItemConfig) (model.CollectionItem, error) {
	e := s.e
	if _, err := s.Read(projectID, collectionID, cfg.ID, cfg.Language); err != nil {
		return model.CollectionItem{}, err
	}
	collection, err := e.Collections.Read(projectID, collectionID)
	if err != nil {
		return model.CollectionItem{}, err
	}
	if err := s.validate(projectID, collection.FieldDefinitions, cfg.FieldReferences); err != nil {
		return model.CollectionItem{}, err
	}

	path := e.paths.CollectionItemConfig(projectID, collectionID, cfg.ID, cfg.Language)
	if err := e.store.Update(cfg, path); err != nil {
		return model.CollectionItem{}, err
	}
	if err := s.commit(projectID, collectionID, cfg, iconUpdate, "Updated"); err != nil {
		return model.CollectionItem{}, err
	}
	e.emit("collectionItem:update", projectID, cfg)
	return s.Read(projectID, collectionID, cfg.ID, cfg.Language)
}

// Delete removes the item file and commits the removal.
func (s *CollectionItemService) Delete(projectID, collectionID, id, language string) error {
	e := s.e
	if _, err := s.Read(projectID, collectionID, id, language); err != nil {
		return err
	}
	path := e.paths.CollectionItemConfig(projectID, collectionID, id, language)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting collection item %q: %w", id, err)
	}
	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(collectionID, id, language)}); err != nil {
		return err
	}
	if err := e.git.Commit(root, commitMessage(iconDelete, "Deleted", model.TypeCollectionItem, id)); err != nil {
		return err
	}
	e.emit("collectionItem:delete", projectID, nil)
	return nil
}

// List reads every item of a collection, skipping unreadable files.
func (s *CollectionItemService) List(projectID, collectionID string, opts ListOptions) (PaginatedList[model.CollectionItem], error) {
	e := s.e
	references, err := refs.List(model.TypeCollectionItem, e.paths.CollectionItems(projectID, collectionID))
	if err != nil {
		return PaginatedList[model.CollectionItem]{}, err
	}
	var items []model.CollectionItem
	for _, ref := range references {
		item, err := s.Read(projectID, collectionID, ref.ID, ref.Language)
		if err != nil {
			e.log.Error("skipping unreadable collection item",
				"project_id", projectID, "collection_id", collectionID, "item_id", ref.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return paginate(items, opts), nil
}

// Count returns the number of item files without reading any of them.
func (s *CollectionItemService) Count(projectID, collectionID string) (int, error) {
	references, err := refs.List(model.TypeCollectionItem, s.e.paths.CollectionItems(projectID, collectionID))
	if err != nil {
		return 0, err
	}
	return len(references), nil
}

// validate checks the field references against every definition of the
// collection. References pointing at definitions the collection no longer
// has are tolerated; missing or mistyped required values are not.
func (s *CollectionItemService) validate(projectID string, defs []model.FieldDefinition, references []model.FieldReference) error {
	const op = "collectionItem.validate"
	e := s.e

	for _, def := range defs {
		ref := findReference(references, def.ID)
		if ref == nil {
			if def.IsRequired {
				return model.NewError(model.KindSchemaViolation, op,
					"reason", "required field definition has no reference",
					"field_definition_id", def.ID)
			}
			continue
		}

		field, err := e.Fields.Read(projectID, ref.Field.ID, ref.Field.Language)
		if err != nil {
			return err
		}
		if field.Value == nil {
			if def.IsRequired {
				return model.NewError(model.KindSchemaViolation, op,
					"reason", "required field value is null",
					"field_definition_id", def.ID, "field_id", field.ID)
			}
			continue
		}
		if field.FieldType != def.FieldType {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "field type does not match definition",
				"field_definition_id", def.ID,
				"expected", string(def.FieldType), "got", string(field.FieldType))
		}
		if err := checkValueConstraints(op, def, field); err != nil {
			return err
		}
	}
	return nil
}

// checkValueConstraints enforces the per-type bounds of a definition:
// numeric minimum/maximum and integer-only for numbers, length bounds for
// strings.
func checkValueConstraints(op string, def model.FieldDefinition, field model.Field) error {
	switch def.FieldType {
	case model.FieldTypeNumber:
		n, ok := field.Value.(float64)
		if !ok {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "number field holds a non-numeric value",
				"field_id", field.ID)
		}
		if !def.IsFloat && n != float64(int64(n)) {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "integer field holds a fractional value",
				"field_id", field.ID)
		}
		if def.Minimum != nil && n < *def.Minimum {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "value below minimum", "field_id", field.ID)
		}
		if def.Maximum != nil && n > *def.Maximum {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "value above maximum", "field_id", field.ID)
		}
	case model.FieldTypeString, model.FieldTypeSlug:
		str, ok := field.Value.(string)
		if !ok {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "string field holds a non-string value",
				"field_id", field.ID)
		}
		length := float64(len([]rune(str)))
		if def.Minimum != nil && length < *def.Minimum {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "string shorter than minimum", "field_id", field.ID)
		}
		if def.Maximum != nil && length > *def.Maximum {
			return model.NewError(model.KindSchemaViolation, op,
				"reason", "string longer than maximum", "field_id", field.ID)
		}
	}
	return nil
}

func (s *CollectionItemService) commit(projectID, collectionID string, cfg model.CollectionItemConfig, icon, verb string) error {
	e := s.e
	root := e.paths.Project(projectID)
	if err := e.git.Add(root, []string{s.relConfig(collectionID, cfg.ID, cfg.Language)}); err != nil {
		return err
	}
	return e.git.Commit(root, commitMessage(icon, verb, model.TypeCollectionItem, cfg.ID))
}

func (s *CollectionItemService) relConfig(collectionID, id, language string) string {
	return filepath.Join("collections", collectionID, fmt.Sprintf("%s.%s.json", id, language))
}
