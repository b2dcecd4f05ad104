package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "kiln"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for persistent kiln state.
//
//	Linux:   $XDG_STATE_HOME/kiln or ~/.local/state/kiln
//	macOS:   ~/Library/Application Support/kiln
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}

// Path to the directory holding build records, one JSON file per build name.
func Records() string {
	return filepath.Join(State(), "builds")
}
