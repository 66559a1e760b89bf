// Package assets provides the embedded documents, styles and format
// catalog used to render and export designs.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the render-surface wrapper document, the portable
// export document, the placeholder design, base styles and the built-in
// format catalog, all embedded at compile time.
//
// FilesystemLoader lets operators override any of these from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver tries the custom loader first and falls back to embedded
// assets when an asset is not found. Format catalogs are merged instead:
// custom entries replace built-in entries with the same id.
//
// # Directory Structure
//
//	{basePath}/
//	├── formats.yaml             # Additional or overriding formats
//	├── styles/
//	│   └── {name}.css           # base.css, placeholder.css
//	└── templates/
//	    └── {name}.html          # sandbox.html, portable.html, placeholder.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
