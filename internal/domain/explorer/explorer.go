package explorer

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/id"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// ErrNotAFile is returned when a folder is opened
var ErrNotAFile = errors.New("not a file")

// ErrNotFound is returned for a path outside the catalog
var ErrNotFound = catalog.ErrNotFound

// Result reports what Open did
type Result struct {
	Session types.Session `json:"session"`
	// Focused is true when an existing session with the same title was selected
	Focused bool `json:"focused"`
}

// Explorer opens catalog files in the workspace
type Explorer struct {
	catalog *catalog.Catalog
	store   *workspace.Store
}

// New creates an explorer over a catalog and store
func New(c *catalog.Catalog, store *workspace.Store) *Explorer {
	return &Explorer{catalog: c, store: store}
}

// Open focuses the session titled like the file if there is one, or opens the file as a new session
func (e *Explorer) Open(path string) (*Result, error) {
	node, err := e.catalog.Lookup(path)
	if err != nil {
		return nil, err
	}
	if !node.IsFile() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	if existing, ok := e.store.FindByTitle(node.Name); ok {
		if err := e.store.SetActiveSession(existing.ID); err != nil {
			return nil, err
		}
		return &Result{Session: existing, Focused: true}, nil
	}

	session := types.Session{
		ID:       id.NewFileSessionID(node.Name).String(),
		Title:    node.Name,
		Content:  node.Content,
		Language: node.Language,
	}
	if session.Language == "" {
		session.Language = types.DefaultLanguage
	}
	if err := e.store.OpenSession(session); err != nil {
		return nil, err
	}
	return &Result{Session: session}, nil
}
