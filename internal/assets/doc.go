// Package assets provides the HTML document templates that host a Gosling spec.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in templates ("default", "transparent")
// embedded at compile time.
//
// FilesystemLoader allows users to provide custom templates from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the renderer. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the template is
// not found. This enables overriding one template while keeping the others.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.html
//
// # Template Data
//
// Templates are executed with text/template. They receive:
//
//	{{.Packages.BaseURL}} {{.Packages.React}} {{.Packages.PixiJS}}
//	{{.Packages.HiGlass}} {{.Packages.Gosling}}
//	{{.SpecExpression}}   a JavaScript expression evaluating to the spec object
//
// # Security
//
// Template names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
