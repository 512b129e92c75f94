package types

// Framework is a code generation target
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkNode    Framework = "node"
	FrameworkPython  Framework = "python"
)

// Frameworks lists every generation target in display order
var Frameworks = []Framework{
	FrameworkReact,
	FrameworkVue,
	FrameworkAngular,
	FrameworkNode,
	FrameworkPython,
}

// Valid reports whether f is a known framework
func (f Framework) Valid() bool {
	switch f {
	case FrameworkReact, FrameworkVue, FrameworkAngular, FrameworkNode, FrameworkPython:
		return true
	}
	return false
}

// Generation is generated code ready to be opened in the editor
type Generation struct {
	Code     string `json:"code"`
	FileName string `json:"fileName"`
	Language string `json:"language"`
}
