package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// ErrUnknownCommand is returned for a command id that is not registered
var ErrUnknownCommand = errors.New("unknown command")

// Group names a section of the palette
type Group string

const (
	GroupThemes Group = "Themes"
	GroupPanels Group = "Panels"
)

// Command is one palette entry
type Command struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group Group  `json:"group"`

	run func(*workspace.Store) error
}

func themeCommand(theme types.Theme, label string) Command {
	return Command{
		ID:    "theme." + string(theme),
		Label: label,
		Group: GroupThemes,
		run:   func(s *workspace.Store) error { return s.SetTheme(theme) },
	}
}

func panelCommand(panel types.Panel, label string) Command {
	return Command{
		ID:    "panel." + string(panel),
		Label: label,
		Group: GroupPanels,
		run: func(s *workspace.Store) error {
			_, err := s.TogglePanel(panel)
			return err
		},
	}
}

var commands = []Command{
	themeCommand(types.ThemeObsidian, "Obsidian"),
	themeCommand(types.ThemePearl, "Pearl"),
	themeCommand(types.ThemeTitanium, "Titanium"),
	panelCommand(types.PanelExplorer, "Toggle File Explorer"),
	panelCommand(types.PanelGit, "Toggle Git Panel"),
	panelCommand(types.PanelAI, "Toggle AI Copilot"),
	panelCommand(types.PanelTerminal, "Toggle Terminal"),
}

// Commands returns every command in display order
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// Search filters commands by case-insensitive substring of label or id.
// An empty query returns every command.
func Search(query string) []Command {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Commands()
	}

	var out []Command
	for _, c := range commands {
		if strings.Contains(strings.ToLower(c.Label), q) || strings.Contains(c.ID, q) {
			out = append(out, c)
		}
	}
	return out
}

// Execute runs a command and then toggles the palette, as selecting an entry closes it
func Execute(store *workspace.Store, commandID string) (Command, error) {
	for _, c := range commands {
		if c.ID != commandID {
			continue
		}
		if err := c.run(store); err != nil {
			return Command{}, fmt.Errorf("run %s: %w", commandID, err)
		}
		if _, err := store.TogglePanel(types.PanelCommandPalette); err != nil {
			return Command{}, err
		}
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, commandID)
}
