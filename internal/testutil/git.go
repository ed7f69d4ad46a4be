package testutil

import (
	"fmt"
	"sync"

	"gitcms/internal/git"
)

// StubGit is an in-memory git adapter. It records every invocation and
// answers from configured data, so service tests run without a repository
// or a git binary. Safe for concurrent use.
type StubGit struct {
	mu sync.Mutex

	// Calls records each invocation as "op path extra...".
	Calls []string
	// Commits is returned by Log; Tags backs ListTags and grows on
	// CreateTag.
	Commits []git.Commit
	Tags    []git.Tag
	// Meta is returned by FileMeta for every file.
	Meta git.Meta
	// Err, when set, is returned by every call.
	Err error

	nextTimestamp int64
}

func NewStubGit() *StubGit {
	return &StubGit{nextTimestamp: 1700000000}
}

func (s *StubGit) record(call string) {
	s.Calls = append(s.Calls, call)
}

// CallsMatching returns the recorded calls starting with prefix.
func (s *StubGit) CallsMatching(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func (s *StubGit) Init(path string, opts git.InitOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("init %s branch=%s", path, opts.InitialBranch))
	return s.Err
}

func (s *StubGit) Clone(url, path string, opts git.CloneOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("clone %s -> %s", url, path))
	return s.Err
}

func (s *StubGit) Add(path string, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("add %s %v", path, files))
	return s.Err
}

func (s *StubGit) Commit(path, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("commit %s %s", path, message))
	if s.Err != nil {
		return s.Err
	}
	s.nextTimestamp++
	s.Commits = append([]git.Commit{{
		Hash:      fmt.Sprintf("hash-%d", len(s.Commits)+1),
		Message:   message,
		Timestamp: s.nextTimestamp,
	}}, s.Commits...)
	return nil
}

func (s *StubGit) Switch(path, name string, opts git.SwitchOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("switch %s %s new=%t", path, name, opts.IsNew))
	return s.Err
}

func (s *StubGit) Restore(path, source string, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("restore %s source=%s %v", path, source, files))
	return s.Err
}

func (s *StubGit) Pull(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("pull %s", path))
	return s.Err
}

func (s *StubGit) CreateTag(path, name, message string, commit *git.Commit) (git.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("tag %s %s", path, name))
	if s.Err != nil {
		return git.Tag{}, s.Err
	}
	s.nextTimestamp++
	tag := git.Tag{
		Name:      name,
		Message:   message,
		Author:    git.Signature{Name: "Test", Email: "test@example.com"},
		Timestamp: s.nextTimestamp,
	}
	s.Tags = append([]git.Tag{tag}, s.Tags...)
	return tag, nil
}

func (s *StubGit) ListTags(path, name string) ([]git.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("listTags %s %s", path, name))
	if s.Err != nil {
		return nil, s.Err
	}
	if name == "" {
		return append([]git.Tag{}, s.Tags...), nil
	}
	var named []git.Tag
	for _, t := range s.Tags {
		if t.Name == name {
			named = append(named, t)
		}
	}
	return named, nil
}

func (s *StubGit) DeleteTag(path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("deleteTag %s %s", path, name))
	if s.Err != nil {
		return s.Err
	}
	var kept []git.Tag
	for _, t := range s.Tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	s.Tags = kept
	return nil
}

func (s *StubGit) Log(path string, opts git.LogOptions) ([]git.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("log %s", path))
	if s.Err != nil {
		return nil, s.Err
	}
	commits := append([]git.Commit{}, s.Commits...)
	if opts.Limit > 0 && len(commits) > opts.Limit {
		commits = commits[:opts.Limit]
	}
	return commits, nil
}

func (s *StubGit) FileMeta(path, file string) (git.Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("fileMeta %s %s", path, file))
	if s.Err != nil {
		return git.Meta{}, s.Err
	}
	return s.Meta, nil
}
