package ignore

// DefaultIgnoreDirs are directory names never descended into while expanding an
// input directory. They hold tooling state, not student snapshots.
var DefaultIgnoreDirs = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Dependencies and virtual environments
	"node_modules",
	"bower_components",
	".venv",
	"venv",

	// Caches and IDE state
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".idea",
	".vscode",
	".vs",
	".ipynb_checkpoints",

	// Archive extraction artifacts
	"__MACOSX",
}

// ControlFiles are ignore-rule files read by the matcher itself; they are not
// candidates for comparison.
var ControlFiles = []string{".gitignore", ".snapignore"}
