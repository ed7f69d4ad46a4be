package cms_test

import (
	"os"
	"testing"

	"gitcms/internal/cms"
	"gitcms/internal/model"
)

func createProjectWithCollection(t *testing.T, engine *cms.Engine, defs []model.FieldDefinition) (model.Project, model.Collection) {
	t.Helper()
	project, err := engine.Projects.Create("Site", "")
	if err != nil {
		t.Fatal(err)
	}
	collection, err := engine.Collections.Create(project.ID, model.CollectionConfig{
		Name:             model.TranslatableString{"en": "Posts"},
		FieldDefinitions: defs,
	})
	if err != nil {
		t.Fatal(err)
	}
	return project, collection
}

// createField stores a field and returns the reference an item would use.
func createField(t *testing.T, engine *cms.Engine, projectID, defID string, fieldType model.FieldType, value any) model.FieldReference {
	t.Helper()
	field, err := engine.Fields.Create(projectID, model.FieldConfig{
		Language:  "en",
		FieldType: fieldType,
		Value:     value,
	})
	if err != nil {
		t.Fatal(err)
	}
	ref := model.FieldReference{FieldDefinitionID: defID}
	ref.Field.ID = field.ID
	ref.Field.Language = "en"
	return ref
}

func TestCollectionService_CreateRead(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, collection := createProjectWithCollection(t, engine, nil)

	got, err := engine.Collections.Read(project.ID, collection.ID)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Name["en"] != "Posts" {
		t.Errorf("Name = %v, want Posts", got.Name)
	}
	if got.Created == 0 {
		t.Error("Created should come from history")
	}
}

func TestCollectionService_Update(t *testing.T) {
	defID := model.NewID()
	optional := model.FieldDefinition{
		ID:        defID,
		Name:      model.TranslatableString{"en": "Title"},
		FieldType: model.FieldTypeString,
	}

	t.Run("no pending actions writes the config", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{optional})

		cfg := collection.CollectionConfig
		cfg.Icon = "book"
		updated, result, err := engine.Collections.Update(project.ID, cfg)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !result.Empty() {
			t.Fatalf("result = %+v, want empty", result)
		}
		if updated.Icon != "book" {
			t.Errorf("Icon = %q, want book", updated.Icon)
		}
	})

	t.Run("newly required without reference yields create action", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{optional})

		// Item without any field reference.
		if _, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
			Language: "en",
		}); err != nil {
			t.Fatal(err)
		}

		cfg := collection.CollectionConfig
		cfg.FieldDefinitions[0].IsRequired = true
		_, result, err := engine.Collections.Update(project.ID, cfg)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if len(result.Create) != 1 {
			t.Fatalf("Create actions = %d, want 1", len(result.Create))
		}
		if result.Create[0].Violation != model.ViolationFieldRequiredButUndefined {
			t.Errorf("Violation = %q", result.Create[0].Violation)
		}

		// The config must not have been written.
		got, err := engine.Collections.Read(project.ID, collection.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.FieldDefinitions[0].IsRequired {
			t.Error("config was written despite pending actions")
		}
	})

	t.Run("newly required with null value yields update action", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		project, collection := createProjectWithCollection(t, engine, []model.FieldDefinition{optional})

		ref := createField(t, engine, project.ID, defID, model.FieldTypeString, nil)
		if _, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
			Language:        "en",
			FieldReferences: []model.FieldReference{ref},
		}); err != nil {
			t.Fatal(err)
		}

		cfg := collection.CollectionConfig
		cfg.FieldDefinitions[0].IsRequired = true
		_, result, err := engine.Collections.Update(project.ID, cfg)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if len(result.Update) != 1 {
			t.Fatalf("Update actions = %d, want 1", len(result.Update))
		}
		if result.Update[0].Violation != model.ViolationFieldValueRequiredButNull {
			t.Errorf("Violation = %q", result.Update[0].Violation)
		}
		if result.Update[0].FieldReference == nil {
			t.Error("update action should carry the offending reference")
		}
	})

	t.Run("new required definition yields create action per item", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		project, collection := createProjectWithCollection(t, engine, nil)

		for i := 0; i < 2; i++ {
			if _, err := engine.Items.Create(project.ID, collection.ID, model.CollectionItemConfig{
				Language: "en",
			}); err != nil {
				t.Fatal(err)
			}
		}

		cfg := collection.CollectionConfig
		cfg.FieldDefinitions = []model.FieldDefinition{{
			ID:         model.NewID(),
			FieldType:  model.FieldTypeString,
			IsRequired: true,
		}}
		_, result, err := engine.Collections.Update(project.ID, cfg)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if len(result.Create) != 2 {
			t.Errorf("Create actions = %d, want one per item", len(result.Create))
		}
	})
}

func TestCollectionService_Delete(t *testing.T) {
	engine, _, resolver := newTestEngine(t)
	project, collection := createProjectWithCollection(t, engine, nil)

	if err := engine.Collections.Delete(project.ID, collection.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(resolver.Collection(project.ID, collection.ID)); !os.IsNotExist(err) {
		t.Error("collection directory still exists")
	}
	if _, err := engine.Collections.Read(project.ID, collection.ID); !model.IsNotFound(err) {
		t.Errorf("Read() after delete = %v, want not-found", err)
	}
}

func TestCollectionService_ListCount(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	project, _ := createProjectWithCollection(t, engine, nil)
	if _, err := engine.Collections.Create(project.ID, model.CollectionConfig{
		Name: model.TranslatableString{"en": "Authors"},
	}); err != nil {
		t.Fatal(err)
	}

	list, err := engine.Collections.List(project.ID, cms.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 2 {
		t.Errorf("Total = %d, want 2", list.Total)
	}

	count, err := engine.Collections.Count(project.ID)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
