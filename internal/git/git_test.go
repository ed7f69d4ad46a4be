package git

import "testing"

func TestParseTags(t *testing.T) {
	t.Run("well-formed output", func(t *testing.T) {
		out := "snap-2|Second snapshot|Jane Doe|<jane@example.com>|1718000000\n" +
			"snap-1|First snapshot|Jane Doe|<jane@example.com>|1717000000\n"

		tags := parseTags(out)
		if len(tags) != 2 {
			t.Fatalf("parseTags() returned %d tags, want 2", len(tags))
		}
		got := tags[0]
		if got.Name != "snap-2" {
			t.Errorf("Name = %q, want %q", got.Name, "snap-2")
		}
		if got.Message != "Second snapshot" {
			t.Errorf("Message = %q, want %q", got.Message, "Second snapshot")
		}
		if got.Author.Name != "Jane Doe" {
			t.Errorf("Author.Name = %q, want %q", got.Author.Name, "Jane Doe")
		}
		if got.Author.Email != "jane@example.com" {
			t.Errorf("Author.Email = %q, want %q", got.Author.Email, "jane@example.com")
		}
		if got.Timestamp != 1718000000 {
			t.Errorf("Timestamp = %d, want 1718000000", got.Timestamp)
		}
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		out := "only|four|fields|here\n" +
			"\n" +
			"good|msg|name|<a@b.c>|1718000000\n" +
			"lightweight||||\n"

		tags := parseTags(out)
		if len(tags) != 1 {
			t.Fatalf("parseTags() returned %d tags, want 1", len(tags))
		}
		if tags[0].Name != "good" {
			t.Errorf("Name = %q, want %q", tags[0].Name, "good")
		}
	})

	t.Run("empty output", func(t *testing.T) {
		if tags := parseTags(""); len(tags) != 0 {
			t.Errorf("parseTags(\"\") = %+v, want empty", tags)
		}
	})
}

func TestParseCommits(t *testing.T) {
	t.Run("well-formed output", func(t *testing.T) {
		out := "abc123|:wrench: Updated project|Jane|jane@example.com|1718000001\n" +
			"def456|:tada: Created this new project|Jane|jane@example.com|1718000000\n"

		commits := parseCommits(out)
		if len(commits) != 2 {
			t.Fatalf("parseCommits() returned %d commits, want 2", len(commits))
		}
		got := commits[0]
		if got.Hash != "abc123" {
			t.Errorf("Hash = %q, want %q", got.Hash, "abc123")
		}
		if got.Message != ":wrench: Updated project" {
			t.Errorf("Message = %q", got.Message)
		}
		if got.Author.Email != "jane@example.com" {
			t.Errorf("Author.Email = %q", got.Author.Email)
		}
		if got.Timestamp != 1718000001 {
			t.Errorf("Timestamp = %d, want 1718000001", got.Timestamp)
		}
	})

	t.Run("skips malformed and zero-timestamp lines", func(t *testing.T) {
		out := "short|line\n" +
			"hash|msg|name|mail|notanumber\n" +
			"hash|msg|name|mail|0\n" +
			"ok|msg|name|mail|1718000000\n"

		commits := parseCommits(out)
		if len(commits) != 1 {
			t.Fatalf("parseCommits() returned %d commits, want 1", len(commits))
		}
		if commits[0].Hash != "ok" {
			t.Errorf("Hash = %q, want %q", commits[0].Hash, "ok")
		}
	})
}

func TestNewClient_defaults(t *testing.T) {
	c := NewClient(Options{})
	defer c.Close()

	if c.bin != "git" {
		t.Errorf("bin = %q, want %q", c.bin, "git")
	}
	if c.logger == nil {
		t.Error("logger should default to a no-op implementation")
	}
	if c.queue == nil {
		t.Error("queue must be initialized")
	}
}
