package cms_test

import (
	"testing"

	"gitcms/internal/cms"
	"gitcms/internal/model"
)

func float(v float64) *float64 { return &v }

func TestCollectionItemService_Create_valid(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	defID := model.NewID()
	project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{{
		ID:         defID,
		FieldType:  model.FieldTypeString,
		IsRequired: true,
		Minimum:    float(2),
		Maximum:    float(10),
	}})

	ref := createField(t, engine, project.ID, defID, model.FieldTypeString, "hello")
	item, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
		Language:        "en",
		FieldReferences: []model.FieldReference{ref},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !model.ValidID(item.ID) {
		t.Errorf("ID = %q, not valid", item.ID)
	}

	got, err := engine.Items.Read(project.ID, collection.ID, item.ID, "en")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.FieldReferences) != 1 {
		t.Errorf("FieldReferences = %d, want 1", len(got.FieldReferences))
	}
}

func TestCollectionItemService_Create_schemaViolations(t *testing.T) {
	defID := model.NewID()

	tests := []struct {
		name  string
		def   model.FieldDefinition
		setup func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference
	}{
		{
			name: "required reference missing",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeString, IsRequired: true},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return nil
			},
		},
		{
			name: "required value is null",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeString, IsRequired: true},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeString, nil)}
			},
		},
		{
			name: "type mismatch",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeString},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeBoolean, true)}
			},
		},
		{
			name: "number below minimum",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeNumber, IsFloat: true, Minimum: float(10)},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeNumber, 5.0)}
			},
		},
		{
			name: "number above maximum",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeNumber, IsFloat: true, Maximum: float(10)},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeNumber, 11.0)}
			},
		},
		{
			name: "fractional value in integer field",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeNumber, IsFloat: false},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeNumber, 1.5)}
			},
		},
		{
			name: "string shorter than minimum",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeString, Minimum: float(5)},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeString, "hi")}
			},
		},
		{
			name: "string longer than maximum",
			def:  model.FieldDefinition{ID: defID, FieldType: model.FieldTypeString, Maximum: float(3)},
			setup: func(t *testing.T, engine *cms.Engine, projectID string) []model.FieldReference {
				return []model.FieldReference{createField(t, engine, projectID, defID, model.FieldTypeString, "too long")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t)
			project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{tt.def})

			refs := tt.setup(t, engine, project.ID)
			_, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
				Language:        "en",
				FieldReferences: refs,
			})
			if !model.IsKind(err, model.KindSchemaViolation) {
				t.Errorf("Create() error = %v, want schema violation", err)
			}

			// Nothing may exist on disk after a failed validation.
			count, countErr := engine.Items.Count(project.ID, collection.ID)
			if countErr != nil {
				t.Fatal(countErr)
			}
			if count != 0 {
				t.Errorf("item count = %d after failed create, want 0", count)
			}
		})
	}
}

func TestCollectionItemService_Create_toleratesUnusedReferences(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, collection := createProjectWithCollection(t, engine, nil)

	// A reference pointing at a definition the collection does not have.
	stray := createField(t, engine, project.ID, model.NewID(), model.FieldTypeString, "x")
	if _, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
		Language:        "en",
		FieldReferences: []model.FieldReference{stray},
	}); err != nil {
		t.Errorf("Create() error = %v, unused references should be tolerated", err)
	}
}

func TestCollectionItemService_Create_invalidLanguage(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, collection := createProjectWithCollection(t, engine, nil)

	_, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
		Language: "klingon",
	})
	if !model.IsValidation(err) {
		t.Errorf("Create() error = %v, want validation", err)
	}
}

func TestCollectionItemService_UpdateDelete(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	defID := model.NewID()
	project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{{
		ID:        defID,
		FieldType: model.FieldTypeString,
	}})

	ref := createField(t, engine, project.ID, defID, model.FieldTypeString, "v1")
	item, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
		Language:        "en",
		FieldReferences: []model.FieldReference{ref},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("update revalidates and writes", func(t *testing.T) {
		cfg := item.CollectionItemConfig
		cfg.FieldReferences = nil
		if _, err := engine.Items.Update(project.ID, collection.ID, cfg); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := engine.Items.Read(project.ID, collection.ID, item.ID, "en")
		if err != nil {
			t.Fatal(err)
		}
		if len(got.FieldReferences) != 0 {
			t.Errorf("FieldReferences = %d, want 0", len(got.FieldReferences))
		}
	})

	t.Run("delete removes the file", func(t *testing.T) {
		if err := engine.Items.Delete(project.ID, collection.ID, item.ID, "en"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := engine.Items.Read(project.ID, collection.ID, item.ID, "en"); !model.IsNotFound(err) {
			t.Errorf("Read() after delete = %v, want not-found", err)
		}
	})
}
