package model

// CollectionConfig is the on-disk shape of a user-defined content type.
type CollectionConfig struct {
	ID string `json:"id"`
	// Key is an optional stable identifier themes can rely on across
	// renames.
	Key              string             `json:"key,omitempty"`
	Name             TranslatableString `json:"name"`
	Description      TranslatableString `json:"description"`
	Icon             string             `json:"icon"`
	FieldDefinitions []FieldDefinition  `json:"fieldDefinitions"`
}

func (CollectionConfig) ModelType() Type { return TypeCollection }

// Collection is a CollectionConfig plus history-derived metadata.
type Collection struct {
	CollectionConfig
	Meta
}

// CollectionItemConfig is the on-disk shape of one record of a collection.
type CollectionItemConfig struct {
	ID              string           `json:"id"`
	Language        string           `json:"language"`
	FieldReferences []FieldReference `json:"fieldReferences"`
}

func (CollectionItemConfig) ModelType() Type { return TypeCollectionItem }

// CollectionItem is a CollectionItemConfig plus history-derived metadata.
type CollectionItem struct {
	CollectionItemConfig
	Meta
}

// Violation names why a schema change or item conflicts with a field
// definition.
type Violation string

const (
	ViolationFieldRequiredButUndefined Violation = "violation.field.required_but_undefined"
	ViolationFieldValueRequiredButNull Violation = "violation.field_value.required_but_null"
	ViolationFieldValueNotUnique       Violation = "violation.field_value.not_unique"
)

// UpdateAction is one remediation step a schema change demands before it
// can be applied.
type UpdateAction struct {
	Violation       Violation
	Item            CollectionItem
	FieldDefinition FieldDefinition
	FieldReference  *FieldReference
}

// CollectionUpdateResult enumerates the actions pending before a collection
// update is safe. A non-empty result means the config was not written: the
// caller resolves the actions first, then retries. This is a soft,
// recoverable outcome, not an error.
type CollectionUpdateResult struct {
	Create []UpdateAction
	Update []UpdateAction
	Delete []UpdateAction
}

// Empty reports whether no actions are pending.
func (r CollectionUpdateResult) Empty() bool {
	return len(r.Create) == 0 && len(r.Update) == 0 && len(r.Delete) == 0
}
