// Package cms holds the entity services: one service per stored entity
// kind, all sharing the same persistence discipline. Each mutation is one
// JSON (or payload) write followed by one commit, each read re-derives its
// timestamps from history, and each listing is answered from the filename
// grammar alone.
package cms

import (
	"context"
	"fmt"

	"gitcms/internal/container"
	"gitcms/internal/event"
	"gitcms/internal/git"
	"gitcms/internal/lang"
	"gitcms/internal/model"
	"gitcms/internal/paths"
)

// GitAdapter is the slice of version control the services need. Satisfied
// by *git.Client.
type GitAdapter interface {
	Init(path string, opts git.InitOptions) error
	Clone(url, path string, opts git.CloneOptions) error
	Add(path string, files []string) error
	Commit(path, message string) error
	Switch(path, name string, opts git.SwitchOptions) error
	Restore(path, source string, files []string) error
	Pull(path string) error
	CreateTag(path, name, message string, commit *git.Commit) (git.Tag, error)
	ListTags(path, name string) ([]git.Tag, error)
	DeleteTag(path, name string) error
	Log(path string, opts git.LogOptions) ([]git.Commit, error)
	FileMeta(path, file string) (git.Meta, error)
}

// FileStore persists one value per JSON file. Satisfied by *jsonfs.Store.
type FileStore interface {
	Create(v any, path string) error
	Read(path string, v any) error
	Update(v any, path string) error
}

// ContainerAdapter runs theme builds. Satisfied by *container.Client.
type ContainerAdapter interface {
	Build(ctx context.Context, dir, tag string) error
	Run(ctx context.Context, image string, opts container.RunOptions, cmd ...string) ([]byte, error)
}

// Logger is the subset of structured logging the services use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// IDGenerator mints entity ids.
type IDGenerator interface {
	NewID() string
}

// Options wires an Engine. Git, Store, Paths and Logger are required;
// Container may be nil when builds are not used.
type Options struct {
	Git       GitAdapter
	Store     FileStore
	Paths     *paths.Resolver
	Container ContainerAdapter
	Bus       *event.Bus
	Logger    Logger
	IDs       IDGenerator
	// CoreVersion is the engine's own semantic version, persisted into
	// every project it creates or upgrades.
	CoreVersion string
	// DefaultLocale seeds new projects' language settings.
	DefaultLocale model.Locale
}

// Engine bundles the shared dependencies and exposes one service per
// entity kind.
type Engine struct {
	git           GitAdapter
	store         FileStore
	paths         *paths.Resolver
	container     ContainerAdapter
	bus           *event.Bus
	log           Logger
	ids           IDGenerator
	coreVersion   string
	defaultLocale model.Locale

	Projects    *ProjectService
	Collections *CollectionService
	Items       *CollectionItemService
	Fields      *FieldService
	Assets      *AssetService
	Snapshots   *SnapshotService
	Themes      *ThemeService
}

func NewEngine(opts Options) *Engine {
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	ids := opts.IDs
	if ids == nil {
		ids = uuidGenerator{}
	}
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	e := &Engine{
		git:           opts.Git,
		store:         opts.Store,
		paths:         opts.Paths,
		container:     opts.Container,
		bus:           bus,
		log:           log,
		ids:           ids,
		coreVersion:   opts.CoreVersion,
		defaultLocale: opts.DefaultLocale,
	}
	e.Projects = &ProjectService{e}
	e.Collections = &CollectionService{e}
	e.Items = &CollectionItemService{e}
	e.Fields = &FieldService{e}
	e.Assets = &AssetService{e}
	e.Snapshots = &SnapshotService{e}
	e.Themes = &ThemeService{e}
	return e
}

// Bus exposes the event bus for subscribers.
func (e *Engine) Bus() *event.Bus { return e.bus }

// CoreVersion is the engine's own semantic version.
func (e *Engine) CoreVersion() string { return e.coreVersion }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return model.NewID() }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Commit message icons, one per mutation verb. The icon makes the history
// scannable and lets tooling classify commits without parsing free text.
const (
	iconInit   = ":tada:"
	iconCreate = ":heavy_plus_sign:"
	iconUpdate = ":wrench:"
	iconDelete = ":fire:"
	iconRevert = ":rewind:"
)

func commitMessage(icon, verb string, t model.Type, id string) string {
	return fmt.Sprintf("%s %s %s (ID: %s)", icon, verb, t, id)
}

func (e *Engine) emit(name, projectID string, data any) {
	e.bus.Emit(name, projectID, data)
}

// checkLanguage rejects language tags that are malformed or outside the
// supported set before any I/O happens.
func checkLanguage(op, value string) error {
	if !lang.Check(value) {
		return model.NewError(model.KindValidation, op, "language", value)
	}
	return nil
}

// meta derives the created/updated pair for one file inside a project
// repository. Uncommitted files yield zero timestamps, which readers treat
// as "ahead of history".
func (e *Engine) meta(projectID, file string) (model.Meta, error) {
	m, err := e.git.FileMeta(e.paths.Project(projectID), file)
	if err != nil {
		return model.Meta{}, err
	}
	return model.Meta{Created: m.Created, Updated: m.Updated}, nil
}
