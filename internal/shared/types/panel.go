package types

// Panel names an independently toggled workspace panel
type Panel string

const (
	PanelExplorer       Panel = "explorer"
	PanelGit            Panel = "git"
	PanelTerminal       Panel = "terminal"
	PanelAI             Panel = "aiPanel"
	PanelCommandPalette Panel = "commandPalette"
	PanelSimulator      Panel = "simulator"
	PanelCodeGenerator  Panel = "codeGenerator"
)

// Panels lists every panel in display order
var Panels = []Panel{
	PanelExplorer,
	PanelGit,
	PanelTerminal,
	PanelAI,
	PanelCommandPalette,
	PanelSimulator,
	PanelCodeGenerator,
}

// Valid reports whether p is a known panel
func (p Panel) Valid() bool {
	switch p {
	case PanelExplorer, PanelGit, PanelTerminal, PanelAI,
		PanelCommandPalette, PanelSimulator, PanelCodeGenerator:
		return true
	}
	return false
}

// DefaultPanels returns the panel visibility of a fresh workspace
func DefaultPanels() map[Panel]bool {
	panels := make(map[Panel]bool, len(Panels))
	for _, p := range Panels {
		panels[p] = false
	}
	panels[PanelExplorer] = true
	panels[PanelAI] = true
	return panels
}

// Theme is the active color theme
type Theme string

const (
	ThemeObsidian Theme = "obsidian"
	ThemePearl    Theme = "pearl"
	ThemeTitanium Theme = "titanium"
)

// DefaultTheme is the theme of a fresh workspace
const DefaultTheme = ThemeObsidian

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	switch t {
	case ThemeObsidian, ThemePearl, ThemeTitanium:
		return true
	}
	return false
}
