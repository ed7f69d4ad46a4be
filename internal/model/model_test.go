package model

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if !ValidID(id) {
		t.Errorf("NewID() = %q, not a valid id", id)
	}
	if id == NewID() {
		t.Error("NewID() returned the same id twice")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"canonical v4", "9b0e8eb4-82ff-4b9e-b295-e2e0e1ce4b7a", true},
		{"uppercase rejected", "9B0E8EB4-82FF-4B9E-B295-E2E0E1CE4B7A", false},
		{"v1 rejected", "e8a49f2e-8712-11ee-b9d1-0242ac120002", false},
		{"missing dashes", "9b0e8eb482ff4b9eb295e2e0e1ce4b7a", false},
		{"empty", "", false},
		{"garbage", "not-an-id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %t, want %t", tt.id, got, tt.want)
			}
		})
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID("op", NewID()); err != nil {
		t.Errorf("CheckID() error = %v, want nil", err)
	}

	err := CheckID("project.read", "bogus")
	if err == nil {
		t.Fatal("CheckID() error = nil, want validation error")
	}
	if !IsValidation(err) {
		t.Errorf("CheckID() kind = %v, want validation", err)
	}
	if !strings.Contains(err.Error(), "project.read") {
		t.Errorf("CheckID() error %q should name the operation", err.Error())
	}
}

func TestModelType(t *testing.T) {
	tests := []struct {
		m    Model
		want Type
	}{
		{ProjectConfig{}, TypeProject},
		{CollectionConfig{}, TypeCollection},
		{CollectionItemConfig{}, TypeCollectionItem},
		{FieldConfig{}, TypeField},
		{AssetConfig{}, TypeAsset},
		{Snapshot{}, TypeSnapshot},
		{ThemeConfig{}, TypeTheme},
	}
	for _, tt := range tests {
		if got := tt.m.ModelType(); got != tt.want {
			t.Errorf("ModelType() = %q, want %q", got, tt.want)
		}
	}
}
