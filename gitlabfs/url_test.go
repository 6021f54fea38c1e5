package gitlabfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	testdata := []struct {
		url      string
		expected Location
	}{
		{"gitlab://my/repo", Location{ProjectPath: "my/repo"}},
		{"gitlab://my/repo@master", Location{ProjectPath: "my/repo", Ref: "master"}},
		{"gitlab://my/repo:file.txt", Location{ProjectPath: "my/repo", FilePath: "file.txt"}},
		{"gitlab://my/repo@master:file.txt", Location{ProjectPath: "my/repo", Ref: "master", FilePath: "file.txt"}},
		{
			"gitlab://group/subgroup/project@v1.0:src/main.py",
			Location{ProjectPath: "group/subgroup/project", Ref: "v1.0", FilePath: "src/main.py"},
		},
		{"gitlab://g/p@:f.txt", Location{ProjectPath: "g/p", FilePath: "f.txt"}},
		{"gitlab://g/p:dir/a:b.txt", Location{ProjectPath: "g/p", FilePath: "dir/a:b.txt"}},
		{"gitlab://g/p@feature/x:a@b", Location{ProjectPath: "g/p", Ref: "feature/x", FilePath: "a@b"}},
	}

	for _, d := range testdata {
		loc, ok := ParseURL(d.url)
		assert.True(t, ok, d.url)
		assert.Equal(t, d.expected, loc, d.url)
	}
}

func TestParseURL_Invalid(t *testing.T) {
	t.Parallel()

	for _, d := range []string{
		"http://example.com",
		"gitlab:/",
		"gitlab://",
		"gitlab://@main",
		"gitlab://:file.txt",
		"not-a-url",
		"",
	} {
		_, ok := ParseURL(d)
		assert.False(t, ok, d)
	}
}

func TestLocation_String(t *testing.T) {
	t.Parallel()

	for _, u := range []string{
		"gitlab://my/repo",
		"gitlab://my/repo@master",
		"gitlab://my/repo:file.txt",
		"gitlab://my/repo@master:docs/readme.md",
	} {
		loc, ok := ParseURL(u)
		assert.True(t, ok)
		assert.Equal(t, u, loc.String())
	}

	// an empty ref is dropped
	loc, _ := ParseURL("gitlab://g/p@:f.txt")
	assert.Equal(t, "gitlab://g/p:f.txt", loc.String())
}

func TestStripScheme(t *testing.T) {
	t.Parallel()

	testdata := []struct {
		url, expected string
	}{
		{"gitlab://my/repo@master:file.txt", "file.txt"},
		{"gitlab://my/repo:file.txt", "file.txt"},
		{"gitlab://my/repo@master:docs/readme.md", "docs/readme.md"},
		{"gitlab://my/repo", ""},
		{"gitlab://my/repo@master", ""},
		{"file.txt", "file.txt"},
		{"", ""},
	}

	for _, d := range testdata {
		assert.Equal(t, d.expected, StripScheme(d.url), d.url)
	}
}

func TestConfigFromURL(t *testing.T) {
	t.Parallel()

	testdata := []struct {
		url      string
		expected Config
	}{
		{"gitlab://my/repo@master:file.txt", Config{ProjectPath: "my/repo", Ref: "master"}},
		{"gitlab://my/repo:file.txt", Config{ProjectPath: "my/repo"}},
		{"gitlab://group/subgroup/project@v1.0:src/main.py", Config{ProjectPath: "group/subgroup/project", Ref: "v1.0"}},
		{"gitlab://g/p@:f.txt", Config{ProjectPath: "g/p"}},
		{"file.txt", Config{}},
	}

	for _, d := range testdata {
		assert.Equal(t, d.expected, ConfigFromURL(d.url), d.url)
	}
}
