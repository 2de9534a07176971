// Integration tests for whole-story CLI operations.
package integration

import (
	"strings"
	"testing"
)

// seedStory builds a three-snippet chain plus an inactive alternate and a
// branch at the tip. Returns the snippets along the main chain.
func seedStory(t *testing.T, env *TestEnv, story string) []Snippet {
	t.Helper()
	a := ParseJSON[Snippet](t, env.MustRunLoom("add", "--story", story, "--content", "A", "--json").Stdout)
	b := ParseJSON[Snippet](t, env.MustRunLoom("add", "--story", story,
		"--parent", a.SnippetID, "--content", "B", "--json").Stdout)
	c := ParseJSON[Snippet](t, env.MustRunLoom("add", "--story", story,
		"--parent", b.SnippetID, "--content", "C", "--json").Stdout)
	env.MustRunLoom("add", "--story", story, "--parent", a.SnippetID, "--inactive", "--content", "B-alt")
	env.MustRunLoom("branch", "set", "--story", story, "tip", c.SnippetID)
	return []Snippet{a, b, c}
}

func TestStoryCopy(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLoom("init")
	seedStory(t, env, "demo")

	result := env.MustRunLoom("story", "copy", "demo", "dup", "--json")
	idMap := ParseJSON[map[string]string](t, result.Stdout)
	if len(idMap) != 4 {
		t.Errorf("id map has %d entries, want 4 (chain plus alternate)", len(idMap))
	}

	src := env.MustRunLoom("show", "--story", "demo").Stdout
	dst := env.MustRunLoom("show", "--story", "dup").Stdout
	if src != dst {
		t.Errorf("copied story reads %q, want %q", dst, src)
	}

	// The branch followed the copy.
	brs := ParseJSON[[]Branch](t, env.MustRunLoom("branch", "list", "--story", "dup", "--json").Stdout)
	if len(brs) != 1 || brs[0].Name != "tip" {
		t.Errorf("copied branches = %+v, want single tip branch", brs)
	}
}

func TestStoryCopyMain(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLoom("init")
	seedStory(t, env, "demo")

	result := env.MustRunLoom("story", "copy-main", "demo", "dup", "--json")
	idMap := ParseJSON[map[string]string](t, result.Stdout)
	if len(idMap) != 3 {
		t.Errorf("id map has %d entries, want 3 (the alternate is left behind)", len(idMap))
	}

	src := env.MustRunLoom("show", "--story", "demo").Stdout
	dst := env.MustRunLoom("show", "--story", "dup").Stdout
	if src != dst {
		t.Errorf("copied story reads %q, want %q", dst, src)
	}
}

func TestStoryDelete(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLoom("init")
	seedStory(t, env, "demo")
	seedStory(t, env, "kept")

	env.MustRunLoom("story", "delete", "demo")

	result := env.MustRunLoom("show", "--story", "demo")
	if strings.TrimSpace(result.Stdout) != "" {
		t.Errorf("deleted story still shows %q", result.Stdout)
	}
	brs := ParseJSON[[]Branch](t, env.MustRunLoom("branch", "list", "--story", "demo", "--json").Stdout)
	if len(brs) != 0 {
		t.Errorf("deleted story still has branches: %+v", brs)
	}

	// The other story is untouched.
	if got, want := env.MustRunLoom("show", "--story", "kept").Stdout, "A\n\nB\n\nC\n"; got != want {
		t.Errorf("kept story reads %q, want %q", got, want)
	}
}

func TestStoryTruncate(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLoom("init")
	seedStory(t, env, "demo")

	result := env.MustRunLoom("story", "truncate", "demo", "--json")
	root := ParseJSON[Snippet](t, result.Stdout)
	if root.ParentID != "" || root.Content != "" {
		t.Errorf("truncate root = %+v, want fresh empty root", root)
	}

	// The story is addressable again through the new root.
	child := ParseJSON[Snippet](t, env.MustRunLoom("add", "--story", "demo",
		"--parent", root.SnippetID, "--content", "A new beginning.", "--json").Stdout)
	if child.ParentID != root.SnippetID {
		t.Errorf("new child parent = %q, want %q", child.ParentID, root.SnippetID)
	}
	if got, want := env.MustRunLoom("show", "--story", "demo").Stdout, "A new beginning.\n"; got != want {
		t.Errorf("show after truncate = %q, want %q", got, want)
	}
}
