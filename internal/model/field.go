package model

// FieldType discriminates what kind of value a field carries and what a
// field definition expects.
type FieldType string

const (
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeNumber    FieldType = "number"
	FieldTypeString    FieldType = "string"
	FieldTypeAsset     FieldType = "asset"
	FieldTypeList      FieldType = "list"
	FieldTypeReference FieldType = "reference"
	FieldTypeSlug      FieldType = "slug"
)

// TranslatableString maps supported language tags to display text.
type TranslatableString map[string]string

// AssetValue references an asset from a field value.
type AssetValue struct {
	ID       string `json:"id"`
	Language string `json:"language"`
}

// FieldConfig is the on-disk shape of a single typed value. Values are
// stored independently of the items referencing them so one value can be
// reused across items and languages.
type FieldConfig struct {
	ID string `json:"id"`
	// Language scopes the value; the same field id may exist once per
	// language.
	Language  string    `json:"language"`
	FieldType FieldType `json:"fieldType"`
	// Value is nil, bool, float64, string or an asset reference map,
	// depending on FieldType.
	Value any `json:"value"`
}

func (FieldConfig) ModelType() Type { return TypeField }

// Field is a FieldConfig plus history-derived metadata.
type Field struct {
	FieldConfig
	Meta
}

// FieldInput carries rendering hints for one schema slot. The engine stores
// and validates it structurally but leaves interpretation to the UI layer.
type FieldInput struct {
	// Width is the horizontal share out of 12 columns; 12, 6, 4 or 3.
	Width      int    `json:"width"`
	InputType  string `json:"inputType"`
	IsDisabled bool   `json:"isDisabled"`
	IsReadonly bool   `json:"isReadonly"`
}

// FieldDefinition describes one schema slot of a collection.
type FieldDefinition struct {
	ID          string             `json:"id"`
	Name        TranslatableString `json:"name"`
	Description TranslatableString `json:"description"`
	FieldType   FieldType          `json:"fieldType"`
	Input       FieldInput         `json:"input"`
	// IsRequired demands a referenced field with a non-nil value.
	IsRequired bool `json:"isRequired"`
	// IsUnique demands the value exists only once in the collection.
	IsUnique bool `json:"isUnique"`
	// IsManagedByCore marks values the engine maintains itself (slugs).
	IsManagedByCore bool `json:"isManagedByCore"`

	// Type-specific constraints. Minimum/Maximum bound numeric values for
	// number fields and string length for string fields.
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	IsFloat bool     `json:"isFloat,omitempty"`
	// Extensions/MimeTypes restrict asset fields.
	Extensions []string `json:"extensions,omitempty"`
	MimeTypes  []string `json:"mimeTypes,omitempty"`
	// From names the field definition a slug is generated from.
	From string `json:"from,omitempty"`
}

// FieldReference binds a field definition slot of an item to a stored
// field value.
type FieldReference struct {
	FieldDefinitionID string `json:"fieldDefinitionId"`
	Field             struct {
		ID       string `json:"id"`
		Language string `json:"language"`
	} `json:"field"`
}
