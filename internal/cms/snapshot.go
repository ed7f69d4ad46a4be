package cms

import (
	"fmt"

	"gitcms/internal/git"
	"gitcms/internal/model"
)

// SnapshotService marks and restores points in a project's history.
// A snapshot is an annotated tag: the tag name is the snapshot id, the tag
// message its display name. Reverting restores the working tree from the
// tag and commits the result, so history only ever grows.
type SnapshotService struct {
	e *Engine
}

// Create tags the given commit, or HEAD when commit is nil.
func (s *SnapshotService) Create(projectID, name string, commit *git.Commit) (model.Snapshot, error) {
	e := s.e
	if err := model.CheckID("snapshot.create", projectID); err != nil {
		return model.Snapshot{}, err
	}
	id := e.ids.NewID()
	tag, err := e.git.CreateTag(e.paths.Project(projectID), id, name, commit)
	if err != nil {
		return model.Snapshot{}, err
	}
	e.emit("snapshot:create", projectID, nil)
	return snapshotFromTag(tag), nil
}

// Read returns one snapshot by id.
func (s *SnapshotService) Read(projectID, id string) (model.Snapshot, error) {
	e := s.e
	if err := model.CheckID("snapshot.read", id); err != nil {
		return model.Snapshot{}, err
	}
	tags, err := e.git.ListTags(e.paths.Project(projectID), id)
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(tags) == 0 {
		return model.Snapshot{}, model.NewError(model.KindNotFound, "snapshot.read", "id", id)
	}
	return snapshotFromTag(tags[0]), nil
}

// List returns all snapshots, newest first by the tagged commit's author
// date.
func (s *SnapshotService) List(projectID string, opts ListOptions) (PaginatedList[model.Snapshot], error) {
	tags, err := s.e.git.ListTags(s.e.paths.Project(projectID), "")
	if err != nil {
		return PaginatedList[model.Snapshot]{}, err
	}
	snapshots := make([]model.Snapshot, 0, len(tags))
	for _, tag := range tags {
		snapshots = append(snapshots, snapshotFromTag(tag))
	}
	return paginate(snapshots, opts), nil
}

// Count returns the number of snapshots.
func (s *SnapshotService) Count(projectID string) (int, error) {
	tags, err := s.e.git.ListTags(s.e.paths.Project(projectID), "")
	if err != nil {
		return 0, err
	}
	return len(tags), nil
}

// Delete removes the snapshot's tag. The tagged commits stay in history.
func (s *SnapshotService) Delete(projectID, id string) error {
	e := s.e
	if err := model.CheckID("snapshot.delete", id); err != nil {
		return err
	}
	if err := e.git.DeleteTag(e.paths.Project(projectID), id); err != nil {
		return err
	}
	e.emit("snapshot:delete", projectID, nil)
	return nil
}

// Log returns the project's commit history, optionally bounded.
func (s *SnapshotService) Log(projectID string, opts git.LogOptions) ([]git.Commit, error) {
	return s.e.git.Log(s.e.paths.Project(projectID), opts)
}

// Update is not supported. Snapshots are immutable markers; change the
// content and take a new one instead.
func (s *SnapshotService) Update(projectID, id string) error {
	return model.NewError(model.KindValidation, "snapshot.update",
		"reason", "snapshots are immutable")
}

// Revert restores the working tree to the snapshot's state and commits it
// as a new change on top. Nothing is rewritten; a revert can itself be
// reverted.
func (s *SnapshotService) Revert(projectID, id string) error {
	e := s.e
	snapshot, err := s.Read(projectID, id)
	if err != nil {
		return err
	}
	root := e.paths.Project(projectID)
	if err := e.git.Restore(root, id, []string{"."}); err != nil {
		return err
	}
	if err := e.git.Add(root, []string{"."}); err != nil {
		return err
	}
	message := fmt.Sprintf("%s Reverted to snapshot %q (ID: %s)", iconRevert, snapshot.Name, id)
	if err := e.git.Commit(root, message); err != nil {
		return err
	}
	e.emit("snapshot:revert", projectID, nil)
	return nil
}

func snapshotFromTag(tag git.Tag) model.Snapshot {
	return model.Snapshot{
		ID:        tag.Name,
		Name:      tag.Message,
		Timestamp: tag.Timestamp,
		Author: model.Signature{
			Name:  tag.Author.Name,
			Email: tag.Author.Email,
		},
	}
}
