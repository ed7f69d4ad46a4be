package model

// Signature identifies a snapshot's author.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Snapshot is a named point-in-time marker over a project's history,
// backed by an annotated tag: tag name = snapshot id, tag message =
// display name, tag target = a commit or HEAD. Nothing is stored as JSON.
type Snapshot struct {
	ID   string
	Name string
	// Timestamp is the unix author date of the tagged commit.
	Timestamp int64
	Author    Signature
}

func (Snapshot) ModelType() Type { return TypeSnapshot }
