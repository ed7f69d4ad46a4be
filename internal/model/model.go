package model

import (
	"github.com/google/uuid"
)

// Type discriminates the entity variants stored on disk.
type Type string

const (
	TypeProject        Type = "project"
	TypeCollection     Type = "collection"
	TypeCollectionItem Type = "collectionItem"
	TypeField          Type = "field"
	TypeAsset          Type = "asset"
	TypeSnapshot       Type = "snapshot"
	TypeTheme          Type = "theme"
)

// Model is implemented by every entity variant. Switching on ModelType
// replaces the runtime type-guard predicates a dynamic language would need.
type Model interface {
	ModelType() Type
}

// Meta carries the created/updated timestamps derived from git history.
// They are never serialized into the entity's JSON file.
type Meta struct {
	// Created is the unix author date of the commit that added the file.
	Created int64 `json:"-"`
	// Updated is the unix author date of the latest commit touching it.
	Updated int64 `json:"-"`
}

// Reference identifies one entity file parsed out of a directory listing.
// Language and Extension are empty for directory-backed entities.
type Reference struct {
	ID        string
	Language  string
	Extension string
}

// NewID returns a fresh UUID v4 in canonical textual form.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s is a canonical UUID v4.
func ValidID(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4 && s == u.String()
}

// CheckID returns a validation error unless id is a canonical UUID v4.
func CheckID(op, id string) error {
	if !ValidID(id) {
		return NewError(KindValidation, op, "id", id)
	}
	return nil
}
