// Package config implements yapenv's configuration resolution and merge
// engine: document discovery, directory inheritance, environment overlays,
// requirement flattening and path-based queries.
//
// # Configuration Files
//
// A directory is configured by the first of .yapenv.yaml, .yapenv.yml,
// .yapenv or .yapenv.json that exists (the list can be overridden with the
// YAPENV_CONFIG_FILES environment variable). YAML and JSON documents are
// accepted; JSON may carry comments.
//
// # Document Structure
//
//	python_version: "3.10"
//	venv_directory: .venv
//	inherit: true
//	pip_install_args: [--no-cache-dir]
//	virtualenv_args: []
//	requirements:
//	  - black
//	  - package: celery==5.2.6
//	  - import: requirements.txt
//	environments:
//	  dev:
//	    requirements:
//	      - flake8
//
// Arbitrary extra keys are permitted and preserved through every merge so
// they stay reachable via path queries (Config.Find).
//
// # Resolution Pipeline
//
// Load merges up to three kinds of layers, least specific first:
// ancestor directory documents (collected upward while inherit is true),
// the local document, and the selected environment overlay. Scalars are
// overridden by the more specific layer; list-valued fields concatenate
// with the less specific layer's entries first.
//
// # Requirements
//
// FlattenRequirements expands the merged requirements list into
// installer-ready specifier strings. Import entries splice in the lines of
// a requirements file at their position; duplicates are then removed by
// package name with the last occurrence winning, so a more specific
// layer's pin displaces an ancestor's.
//
// # Errors
//
// Failures are terminal for the resolution that raised them and carry
// structured context: ParseError, NotFoundError (matches ErrNotFound),
// CycleError, UnknownEnvironmentError, ImportError and PathError.
//
// # Thread Safety
//
// A resolved Config and every Value in it are immutable. Resolutions
// share no state; each Load re-reads the files it needs.
package config
