// Package git wraps the git binary behind a strictly serialized command
// queue and derives entity timestamps from commit history.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"gitcms/internal/model"
	"gitcms/internal/paths"
)

// Signature identifies the author used for commits and tags.
type Signature struct {
	Name  string
	Email string
}

// Commit is one entry of a repository's history.
type Commit struct {
	Hash      string
	Message   string
	Author    Signature
	Timestamp int64
}

// Tag is an annotated tag, timestamped with its commit's author date.
type Tag struct {
	Name      string
	Message   string
	Author    Signature
	Timestamp int64
}

// Meta holds the created/updated timestamps derived for one file.
type Meta struct {
	Created int64
	Updated int64
}

type InitOptions struct {
	InitialBranch string
}

type CloneOptions struct {
	Branch       string
	Depth        int
	SingleBranch bool
}

type SwitchOptions struct {
	// IsNew creates the branch before switching to it.
	IsNew bool
}

type LogOptions struct {
	// Limit bounds the number of commits returned; 0 means all.
	Limit int
	// From/To bound the result to commits between two refs, exclusive of
	// both endpoints. To defaults to HEAD.
	From string
	To   string
}

// Logger is the subset of structured logging the adapter needs.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Client.
type Options struct {
	// Bin is the git executable; defaults to "git".
	Bin string
	// Signature is used as author for every commit and local identity.
	Signature Signature
	// Timeout bounds each subprocess invocation; 0 means no bound.
	Timeout time.Duration
	Logger  Logger
}

// Client executes git commands for the engine. All invocations run through
// one FIFO concurrency-1 queue, so interleaved CRUD calls never corrupt
// repository state. Construct with NewClient and release with Close.
type Client struct {
	bin       string
	signature Signature
	timeout   time.Duration
	logger    Logger
	queue     *queue
}

func NewClient(opts Options) *Client {
	bin := opts.Bin
	if bin == "" {
		bin = "git"
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Client{
		bin:       bin,
		signature: opts.Signature,
		timeout:   opts.Timeout,
		logger:    logger,
		queue:     newQueue(),
	}
}

// Close stops the command queue. In-flight commands finish first.
func (c *Client) Close() { c.queue.close() }

// Init creates a repository in an existing directory, sets the local
// identity and enables LFS tracking for the binary payload folder.
func (c *Client) Init(path string, opts InitOptions) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return model.NewError(model.KindValidation, "git.init", "path", path)
	}

	args := []string{"init"}
	if opts.InitialBranch != "" {
		args = append(args, "--initial-branch="+opts.InitialBranch)
	}
	if _, err := c.run(path, args...); err != nil {
		return err
	}
	if err := c.setLocalConfig(path); err != nil {
		return err
	}
	return c.installLFS(path)
}

// Clone fetches a remote repository into an existing, empty directory.
func (c *Client) Clone(url, path string, opts CloneOptions) error {
	args := []string{"clone", "--progress"}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	if opts.SingleBranch {
		args = append(args, "--single-branch")
	}
	args = append(args, url, ".")
	if _, err := c.run(path, args...); err != nil {
		return err
	}
	return c.setLocalConfig(path)
}

// Add stages the given files.
func (c *Client) Add(path string, files []string) error {
	args := append([]string{"add", "--"}, files...)
	_, err := c.run(path, args...)
	return err
}

// Commit records staged changes with the configured author.
func (c *Client) Commit(path, message string) error {
	_, err := c.run(path,
		"commit",
		"--message="+message,
		fmt.Sprintf("--author=%s <%s>", c.signature.Name, c.signature.Email),
	)
	return err
}

// Switch checks out a branch, creating it first when opts.IsNew is set.
func (c *Client) Switch(path, name string, opts SwitchOptions) error {
	if err := c.checkRefName(path, name); err != nil {
		return err
	}
	args := []string{"switch"}
	if opts.IsNew {
		args = append(args, "--create")
	}
	args = append(args, name)
	_, err := c.run(path, args...)
	return err
}

// Restore replaces working-tree files with their state at source (a commit
// hash or tag name). History is not altered.
func (c *Client) Restore(path, source string, files []string) error {
	args := append([]string{"restore", "--source=" + source}, files...)
	_, err := c.run(path, args...)
	return err
}

// Pull fast-forwards from the remote.
func (c *Client) Pull(path string) error {
	_, err := c.run(path, "pull")
	return err
}

// CreateTag creates an annotated tag, optionally on a specific commit
// instead of HEAD, and returns the resulting tag's metadata.
func (c *Client) CreateTag(path, name, message string, commit *Commit) (Tag, error) {
	if err := c.checkRefName(path, name); err != nil {
		return Tag{}, err
	}
	args := []string{"tag", "--annotate", name}
	if commit != nil {
		args = append(args, commit.Hash)
	}
	args = append(args, "-m", message)
	if _, err := c.run(path, args...); err != nil {
		return Tag{}, err
	}
	tags, err := c.ListTags(path, name)
	if err != nil {
		return Tag{}, err
	}
	if len(tags) != 1 {
		return Tag{}, model.NewError(model.KindExternalTool, "git.createTag", "tag", name)
	}
	return tags[0], nil
}

// ListTags returns all tags, or just the named one. Tags are sorted by the
// author date of the tagged commit, newest first, so the order reflects the
// commit's position in history rather than when the tag was created.
func (c *Client) ListTags(path, name string) ([]Tag, error) {
	if name != "" {
		if err := c.checkRefName(path, name); err != nil {
			return nil, err
		}
	}
	out, err := c.run(path,
		"for-each-ref",
		"--sort=-*authordate",
		"--format=%(refname:short)|%(subject)|%(*authorname)|%(*authoremail)|%(*authordate:unix)",
		"refs/tags",
	)
	if err != nil {
		return nil, err
	}
	tags := parseTags(out)
	if name == "" {
		return tags, nil
	}
	var named []Tag
	for _, t := range tags {
		if t.Name == name {
			named = append(named, t)
		}
	}
	return named, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(path, name string) error {
	if err := c.checkRefName(path, name); err != nil {
		return err
	}
	_, err := c.run(path, "tag", "--delete", name)
	return err
}

// Log returns commit history, optionally bounded by count or a from/to
// range (exclusive of both endpoints).
func (c *Client) Log(path string, opts LogOptions) ([]Commit, error) {
	args := []string{"log"}
	if opts.From != "" {
		to := opts.To
		if to == "" {
			to = "HEAD"
		}
		args = append(args, opts.From+"..."+to)
	}
	if opts.Limit > 0 {
		args = append(args, "--max-count="+strconv.Itoa(opts.Limit))
	}
	args = append(args, "--format=%H|%s|%an|%ae|%at")
	out, err := c.run(path, args...)
	if err != nil {
		return nil, err
	}
	return parseCommits(out), nil
}

// FileMeta derives a file's created/updated timestamps from history:
// created is the author date of the earliest commit that added the file
// (following renames), updated the author date of the latest commit
// touching it. These are the sole source of entity timestamps; the stored
// JSON carries none.
func (c *Client) FileMeta(path, file string) (Meta, error) {
	created, err := c.firstTimestamp(path,
		"log", "--diff-filter=A", "--follow", "--format=%at", "--max-count=1", "--", file)
	if err != nil {
		return Meta{}, err
	}
	updated, err := c.firstTimestamp(path,
		"log", "--follow", "--format=%at", "--max-count=1", "--", file)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Created: created, Updated: updated}, nil
}

// Version returns the version string of the git binary in use.
func (c *Client) Version(path string) (string, error) {
	out, err := c.run(path, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "git version")), nil
}

func (c *Client) firstTimestamp(path string, args ...string) (int64, error) {
	out, err := c.run(path, args...)
	if err != nil {
		return 0, err
	}
	line := strings.TrimSpace(out)
	if line == "" {
		// Not committed yet; the working tree is ahead of history.
		return 0, nil
	}
	ts, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, model.WrapError(model.KindExternalTool, "git.log", err, "output", line)
	}
	return ts, nil
}

// checkRefName rejects branch/tag names git itself would reject, before
// they reach a mutating command.
func (c *Client) checkRefName(path, name string) error {
	if _, err := c.run(path, "check-ref-format", "--allow-onelevel", name); err != nil {
		return model.WrapError(model.KindValidation, "git.checkRefName", err, "name", name)
	}
	return nil
}

func (c *Client) installLFS(path string) error {
	if _, err := c.run(path, "lfs", "install"); err != nil {
		return err
	}
	_, err := c.run(path, "lfs", "track", paths.LFSFolder+"/*")
	return err
}

func (c *Client) setLocalConfig(path string) error {
	if _, err := c.run(path, "config", "--local", "user.name", c.signature.Name); err != nil {
		return err
	}
	_, err := c.run(path, "config", "--local", "user.email", c.signature.Email)
	return err
}

// run executes one git command through the queue and checks its exit
// status. Failures carry the git version and the full argument list so the
// failing invocation can be reproduced verbatim.
func (c *Client) run(path string, args ...string) (string, error) {
	projectID := paths.ProjectIDFromPath(path)
	c.logger.Debug("running git command", "args", strings.Join(args, " "), "path", path, "project_id", projectID)

	var stdout, stderr bytes.Buffer
	var runErr error
	err := c.queue.do(func() {
		ctx := context.Background()
		cancel := func() {}
		if c.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		defer cancel()

		cmd := exec.CommandContext(ctx, c.bin, args...)
		cmd.Dir = path
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		runErr = cmd.Run()
	})
	if err != nil {
		return "", err
	}

	if runErr != nil {
		version, _ := c.version(path)
		toolErr := model.WrapError(model.KindExternalTool, "git", runErr,
			"version", version,
			"args", strings.Join(args, " "),
			"stderr", strings.TrimSpace(stderr.String()),
		)
		c.logger.Error("git command failed", "error", toolErr, "project_id", projectID)
		return "", toolErr
	}
	return stdout.String(), nil
}

// version fetches the binary version without the error wrapping of run, to
// avoid recursing while building an error.
func (c *Client) version(path string) (string, error) {
	var out bytes.Buffer
	err := c.queue.do(func() {
		cmd := exec.Command(c.bin, "--version")
		cmd.Dir = path
		cmd.Stdout = &out
		_ = cmd.Run()
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out.String()), "git version")), nil
}

func parseTags(out string) []Tag {
	var tags []Tag
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil || ts == 0 {
			continue
		}
		if parts[0] == "" || parts[1] == "" {
			continue
		}
		tags = append(tags, Tag{
			Name:    parts[0],
			Message: parts[1],
			Author: Signature{
				Name:  parts[2],
				Email: strings.Trim(parts[3], "<>"),
			},
			Timestamp: ts,
		})
	}
	return tags
}

func parseCommits(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil || ts == 0 {
			continue
		}
		if parts[0] == "" {
			continue
		}
		commits = append(commits, Commit{
			Hash:    parts[0],
			Message: parts[1],
			Author: Signature{
				Name:  parts[2],
				Email: parts[3],
			},
			Timestamp: ts,
		})
	}
	return commits
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
