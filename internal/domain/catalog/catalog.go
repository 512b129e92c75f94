package catalog

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

//go:embed data/*.yaml data/*.toml
var dataFS embed.FS

var (
	// ErrNotFound is returned for a path or device that is not in the catalog
	ErrNotFound = errors.New("not found")
	// ErrInvalidPattern is returned for a malformed glob pattern
	ErrInvalidPattern = errors.New("invalid pattern")
)

// NodeType distinguishes files from folders
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// Node is one entry of the mocked project tree
type Node struct {
	Name     string   `yaml:"name" json:"name"`
	Type     NodeType `yaml:"type" json:"type"`
	Path     string   `yaml:"-" json:"path"`
	Language string   `yaml:"language" json:"language,omitempty"`
	MIME     string   `yaml:"-" json:"mime,omitempty"`
	Content  string   `yaml:"content" json:"content,omitempty"`
	Children []*Node  `yaml:"children" json:"children,omitempty"`
}

// IsFile reports whether the node is a file
func (n *Node) IsFile() bool {
	return n.Type == NodeFile
}

// Change is one mocked working-tree change
type Change struct {
	File      string `yaml:"file" json:"file"`
	Status    string `yaml:"status" json:"status"`
	Additions int    `yaml:"additions" json:"additions"`
	Deletions int    `yaml:"deletions" json:"deletions"`
}

// Changes is the mocked source control state
type Changes struct {
	Branch  string   `yaml:"branch" json:"branch"`
	Changes []Change `yaml:"changes" json:"changes"`
}

// ThemeInfo describes a selectable theme
type ThemeInfo struct {
	ID          types.Theme `toml:"id" json:"id"`
	Label       string      `toml:"label" json:"label"`
	Description string      `toml:"description" json:"description"`
	Background  string      `toml:"background" json:"background"`
}

// Catalog is the read-only mocked data behind the explorer, git panel,
// device simulator and theme picker
type Catalog struct {
	files   []*Node
	byPath  map[string]*Node
	paths   []string
	changes Changes
	devices []Device
	themes  []ThemeInfo
}

// Load parses the embedded catalog data
func Load() (*Catalog, error) {
	c := &Catalog{byPath: make(map[string]*Node)}

	if err := decodeYAML("data/files.yaml", &c.files); err != nil {
		return nil, err
	}
	if err := decodeYAML("data/changes.yaml", &c.changes); err != nil {
		return nil, err
	}
	if err := decodeYAML("data/devices.yaml", &c.devices); err != nil {
		return nil, err
	}

	raw, err := dataFS.ReadFile("data/themes.toml")
	if err != nil {
		return nil, fmt.Errorf("read themes: %w", err)
	}
	var themes struct {
		Themes []ThemeInfo `toml:"themes"`
	}
	if err := toml.Unmarshal(raw, &themes); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	c.themes = themes.Themes

	c.index("", c.files)
	sort.Strings(c.paths)
	return c, nil
}

// MustLoad is Load for callers that treat bad embedded data as a programming error
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func decodeYAML(name string, out interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) index(parent string, nodes []*Node) {
	for _, n := range nodes {
		n.Path = path.Join(parent, n.Name)
		c.byPath[n.Path] = n
		c.paths = append(c.paths, n.Path)
		if n.Type == NodeFolder {
			c.index(n.Path, n.Children)
			continue
		}
		n.MIME = mimetype.Detect([]byte(n.Content)).String()
	}
}

// Files returns the root of the project tree
func (c *Catalog) Files() []*Node {
	return c.files
}

// Lookup returns the node at a slash-separated path
func (c *Catalog) Lookup(p string) (*Node, error) {
	n, ok := c.byPath[strings.Trim(path.Clean(p), "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return n, nil
}

// Glob returns every file whose path matches pattern, e.g. "src/**/*.tsx"
func (c *Catalog) Glob(pattern string) ([]*Node, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, pattern)
	}

	var matches []*Node
	for _, p := range c.paths {
		n := c.byPath[p]
		if !n.IsFile() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, p); ok {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

// Changes returns the mocked working-tree changes
func (c *Catalog) Changes() Changes {
	out := c.changes
	out.Changes = append([]Change(nil), c.changes.Changes...)
	return out
}

// Themes returns the theme catalog in display order
func (c *Catalog) Themes() []ThemeInfo {
	return append([]ThemeInfo(nil), c.themes...)
}

// Theme returns the catalog entry for t
func (c *Catalog) Theme(t types.Theme) (ThemeInfo, bool) {
	for _, info := range c.themes {
		if info.ID == t {
			return info, true
		}
	}
	return ThemeInfo{}, false
}
