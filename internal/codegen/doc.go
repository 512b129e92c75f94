// Package codegen holds the per-framework generation templates and the
// naming and cleanup rules applied to generated code.
//
//	DeriveFileName("build a pricing table now", types.FrameworkReact) // "BuildAPricing.tsx"
//	DeriveFileName("", types.FrameworkPython)                         // "Component.py"
package codegen
