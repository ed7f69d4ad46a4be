package model

// ThemeLayout describes one layout a theme offers for rendering content.
type ThemeLayout struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// ThemeConfig is the config file of the theme cloned into a project. It is
// read and written but owned by the theme repository, so the engine does
// not validate it beyond structure.
type ThemeConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Version     string        `json:"version"`
	Homepage    string        `json:"homepage"`
	Repository  string        `json:"repository"`
	Author      string        `json:"author"`
	License     string        `json:"license"`
	Layouts     []ThemeLayout `json:"layouts"`
}

func (ThemeConfig) ModelType() Type { return TypeTheme }
