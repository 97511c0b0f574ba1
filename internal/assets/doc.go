// Package assets loads the stylesheets used for standalone post documents.
//
//	StyleLoader (interface)
//	    ├── EmbeddedLoader    - styles compiled in with go:embed
//	    ├── FilesystemLoader  - {basePath}/styles/{name}.css on disk
//	    └── AssetResolver     - filesystem first, embedded fallback
//
// Style names are validated so they cannot address files outside the
// styles directory, and FilesystemLoader resolves symlinks before checking
// containment.
package assets
