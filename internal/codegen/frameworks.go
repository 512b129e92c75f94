package codegen

import "github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"

// Template describes how code for one framework is generated and named
type Template struct {
	Framework types.Framework
	Extension string
	Language  string
	System    string
}

var templates = map[types.Framework]Template{
	types.FrameworkReact: {
		Framework: types.FrameworkReact,
		Extension: "tsx",
		Language:  "typescript",
		System:    "You are an expert React + TypeScript developer. Generate clean, modern, production-ready React components using TypeScript, Tailwind CSS, and best practices. Include proper types, props interfaces, and comments. Make code reusable and maintainable.",
	},
	types.FrameworkVue: {
		Framework: types.FrameworkVue,
		Extension: "vue",
		Language:  "vue",
		System:    "You are an expert Vue 3 developer. Generate clean, modern Vue 3 components using Composition API, TypeScript, and best practices. Use <script setup> syntax and include proper types.",
	},
	types.FrameworkAngular: {
		Framework: types.FrameworkAngular,
		Extension: "ts",
		Language:  "typescript",
		System:    "You are an expert Angular developer. Generate clean, modern Angular components using TypeScript, RxJS, and best practices. Follow Angular style guide and include proper decorators and types.",
	},
	types.FrameworkNode: {
		Framework: types.FrameworkNode,
		Extension: "ts",
		Language:  "typescript",
		System:    "You are an expert Node.js backend developer. Generate clean, modern Node.js API code using TypeScript, Express, and best practices. Include proper error handling, validation, and types.",
	},
	types.FrameworkPython: {
		Framework: types.FrameworkPython,
		Extension: "py",
		Language:  "python",
		System:    "You are an expert Python developer. Generate clean, modern Python code following PEP 8 standards. Include proper type hints, docstrings, and error handling.",
	},
}

// Lookup returns the template for f and whether f is known
func Lookup(f types.Framework) (Template, bool) {
	t, ok := templates[f]
	return t, ok
}

// For returns the template for f, falling back to React for unknown frameworks
func For(f types.Framework) Template {
	if t, ok := templates[f]; ok {
		return t
	}
	return templates[types.FrameworkReact]
}

// Templates returns every template in display order
func Templates() []Template {
	out := make([]Template, 0, len(types.Frameworks))
	for _, f := range types.Frameworks {
		out = append(out, templates[f])
	}
	return out
}
