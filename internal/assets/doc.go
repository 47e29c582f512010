// Package assets provides CSS styles and HTML template sets for chat
// documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader  - built-in assets compiled in with go:embed
//	    ├── DirLoader       - custom directory on disk
//	    └── AssetResolver   - chain of both, custom first
//
// AssetResolver is the loader used by the converter: a custom directory can
// override a single style or template set while the rest falls back to the
// embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # stylesheet shared by EPUB, HTML and PDF
//	└── templates/
//	    └── {name}/
//	        ├── cover.html       # cover page fragment
//	        └── chapter.html     # chapter fragment
//
// Templates are html/template sources producing XHTML fragments, since the
// same output is packaged into EPUB documents.
//
// # Security
//
// Asset names may not contain separators or dots. DirLoader opens files with
// os.OpenInRoot: symlinks inside basePath work, symlinks leaving it fail with
// ErrPathTraversal.
package assets
