package model

// Locale is one language a project's content can be authored in.
type Locale struct {
	// ID is a BCP 47 compliant language tag.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
}

// ProjectSettings holds per-project configuration.
type ProjectSettings struct {
	Locale struct {
		Default   Locale   `json:"default"`
		Supported []Locale `json:"supported"`
	} `json:"locale"`
}

// ProjectStatus tracks a project's publishing state.
type ProjectStatus string

const (
	ProjectStatusTodo      ProjectStatus = "todo"
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
)

// ProjectConfig is the on-disk shape of a project's root config file.
// One project equals one version-controlled directory tree.
type ProjectConfig struct {
	ID string `json:"id"`
	// CoreVersion is the engine version this project was last upgraded to.
	// A client below it must be upgraded; a project below the client's
	// version needs a project upgrade.
	CoreVersion string `json:"coreVersion"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Version is the project's own semantic version, advanced on publish.
	Version  string          `json:"version"`
	Status   ProjectStatus   `json:"status"`
	Settings ProjectSettings `json:"settings"`
}

func (ProjectConfig) ModelType() Type { return TypeProject }

// Project is a ProjectConfig plus history-derived metadata.
type Project struct {
	ProjectConfig
	Meta
}
