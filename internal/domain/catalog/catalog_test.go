package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

func TestLoadTree(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	roots := c.Files()
	require.Len(t, roots, 3)
	assert.Equal(t, "src", roots[0].Name)
	assert.Equal(t, NodeFolder, roots[0].Type)
	assert.Equal(t, "README.md", roots[2].Name)

	app, err := c.Lookup("src/App.tsx")
	require.NoError(t, err)
	assert.True(t, app.IsFile())
	assert.Equal(t, "typescript", app.Language)
	assert.Contains(t, app.Content, "Welcome to Nebula Studio")
	assert.Equal(t, "src/App.tsx", app.Path)

	button, err := c.Lookup("/src/components/Button.tsx")
	require.NoError(t, err)
	assert.Equal(t, "export const Button = () => {\n  return <button>Click me</button>;\n};", button.Content)

	_, err = c.Lookup("src/missing.ts")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGlob(t *testing.T) {
	c := MustLoad()

	tsx, err := c.Glob("src/**/*.tsx")
	require.NoError(t, err)
	var names []string
	for _, n := range tsx {
		names = append(names, n.Path)
	}
	assert.ElementsMatch(t, []string{"src/App.tsx", "src/components/Button.tsx", "src/components/Header.tsx"}, names)

	all, err := c.Glob("**")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	none, err := c.Glob("*.go")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = c.Glob("src/[")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestChanges(t *testing.T) {
	c := MustLoad()
	changes := c.Changes()

	assert.Equal(t, "main", changes.Branch)
	require.Len(t, changes.Changes, 3)
	assert.Equal(t, Change{File: "src/components/Button.tsx", Status: "new", Additions: 24, Deletions: 0}, changes.Changes[1])

	// callers cannot mutate the catalog
	changes.Changes[0].Additions = 999
	assert.Equal(t, 12, c.Changes().Changes[0].Additions)
}

func TestThemes(t *testing.T) {
	c := MustLoad()
	themes := c.Themes()
	require.Len(t, themes, 3)

	for _, info := range themes {
		assert.True(t, info.ID.Valid(), "theme %s", info.ID)
		assert.NotEmpty(t, info.Label)
	}

	pearl, ok := c.Theme(types.ThemePearl)
	require.True(t, ok)
	assert.Equal(t, "Pearl", pearl.Label)
}

func TestDevicesAndViewport(t *testing.T) {
	c := MustLoad()
	require.Len(t, c.Devices(), 14)

	d, err := c.Device("iphone15pro")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15 Pro Max", d.Name)

	ipad, err := c.Device("ipadpro13")
	require.NoError(t, err)
	assert.Equal(t, `iPad Pro 13"`, ipad.Name)

	v, err := c.Viewport("iphone15pro", Portrait)
	require.NoError(t, err)
	assert.Equal(t, 430, v.Width)
	assert.Equal(t, 932, v.Height)

	v, err = c.Viewport("iphone15pro", Landscape)
	require.NoError(t, err)
	assert.Equal(t, 932, v.Width)
	assert.Equal(t, 430, v.Height)

	_, err = c.Viewport("iphone15pro", "diagonal")
	assert.ErrorIs(t, err, ErrUnknownOrientation)
	_, err = c.Viewport("nokia3310", Portrait)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaging(t *testing.T) {
	s := NewStaging()
	assert.False(t, s.CanCommit("message"))

	assert.True(t, s.Toggle("src/App.tsx"))
	assert.True(t, s.Toggle("package.json"))
	assert.Equal(t, []string{"src/App.tsx", "package.json"}, s.Staged())

	assert.False(t, s.CanCommit("  "))
	assert.True(t, s.CanCommit("update app"))

	assert.False(t, s.Toggle("src/App.tsx"))
	assert.Equal(t, []string{"package.json"}, s.Staged())
}

func TestFileMIME(t *testing.T) {
	c := MustLoad()

	pkg, err := c.Lookup("package.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", pkg.MIME)

	readme, err := c.Lookup("README.md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readme.MIME, "text/plain"), readme.MIME)

	src, err := c.Lookup("src")
	require.NoError(t, err)
	assert.Empty(t, src.MIME)
}
