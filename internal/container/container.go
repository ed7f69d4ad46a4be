// Package container shells out to podman. Project builds run a theme's
// toolchain inside a container so the engine host only needs podman
// itself.
package container

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"gitcms/internal/model"
)

// Logger is the subset of logging the client needs.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Client.
type Options struct {
	// Bin is the podman executable, "podman" when empty.
	Bin string
	// Timeout bounds each invocation; zero means no limit.
	Timeout time.Duration
	Logger  Logger
}

// Client wraps the podman CLI.
type Client struct {
	bin     string
	timeout time.Duration
	log     Logger
}

func NewClient(opts Options) *Client {
	bin := opts.Bin
	if bin == "" {
		bin = "podman"
	}
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	return &Client{bin: bin, timeout: opts.Timeout, log: log}
}

// Version holds podman's own version report.
type Version struct {
	Client struct {
		Version    string `json:"Version"`
		APIVersion string `json:"APIVersion"`
		OsArch     string `json:"OsArch"`
	} `json:"Client"`
}

// Info is a trimmed view of podman's host report.
type Info struct {
	Host struct {
		Arch     string `json:"arch"`
		Hostname string `json:"hostname"`
		OS       string `json:"os"`
		MemTotal int64  `json:"memTotal"`
		MemFree  int64  `json:"memFree"`
	} `json:"host"`
}

// Container is one entry of a container listing.
type Container struct {
	ID     string   `json:"Id"`
	Image  string   `json:"Image"`
	Names  []string `json:"Names"`
	State  string   `json:"State"`
	Status string   `json:"Status"`
}

// RunOptions shape a container run.
type RunOptions struct {
	// Remove deletes the container after it exits.
	Remove bool
	// WorkDir sets the working directory inside the container.
	WorkDir string
	// Mounts are "host:container" bind specs.
	Mounts []string
	// Env are "KEY=value" pairs.
	Env []string
}

// Version reports the podman client version.
func (c *Client) Version(ctx context.Context) (Version, error) {
	out, err := c.run(ctx, "version", "--format=json")
	if err != nil {
		return Version{}, err
	}
	var v Version
	if err := json.Unmarshal(out, &v); err != nil {
		return Version{}, model.WrapError(model.KindExternalTool, "container.version", err)
	}
	return v, nil
}

// Info reports podman's host information.
func (c *Client) Info(ctx context.Context) (Info, error) {
	out, err := c.run(ctx, "info", "--format=json")
	if err != nil {
		return Info{}, err
	}
	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return Info{}, model.WrapError(model.KindExternalTool, "container.info", err)
	}
	return info, nil
}

// Build builds an image from the given context directory.
func (c *Client) Build(ctx context.Context, dir, tag string) error {
	_, err := c.run(ctx, "build", "--tag", tag, dir)
	return err
}

// Run starts a container from image and waits for it to finish. cmd is the
// command executed inside; stdout is returned verbatim.
func (c *Client) Run(ctx context.Context, image string, opts RunOptions, cmd ...string) ([]byte, error) {
	args := []string{"run"}
	if opts.Remove {
		args = append(args, "--rm")
	}
	if opts.WorkDir != "" {
		args = append(args, "--workdir", opts.WorkDir)
	}
	for _, m := range opts.Mounts {
		args = append(args, "--volume", m)
	}
	for _, e := range opts.Env {
		args = append(args, "--env", e)
	}
	args = append(args, image)
	args = append(args, cmd...)
	return c.run(ctx, args...)
}

// PS lists containers, including stopped ones.
func (c *Client) PS(ctx context.Context) ([]Container, error) {
	out, err := c.run(ctx, "ps", "--all", "--format=json")
	if err != nil {
		return nil, err
	}
	var list []Container
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, model.WrapError(model.KindExternalTool, "container.ps", err)
	}
	return list, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("running podman", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		version := c.rawVersion(ctx)
		wrapped := model.WrapError(model.KindExternalTool, "container.run", err,
			"tool_version", version,
			"args", strings.Join(args, " "),
			"stderr", strings.TrimSpace(stderr.String()),
		)
		c.log.Error("podman failed", "args", strings.Join(args, " "), "stderr", stderr.String())
		return nil, wrapped
	}
	return stdout.Bytes(), nil
}

// rawVersion fetches the version string for error context without going
// through run, which would recurse on failure.
func (c *Client) rawVersion(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, c.bin, "version", "--format", "{{.Client.Version}}").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
