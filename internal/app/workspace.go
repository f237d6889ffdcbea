package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const workspacePrefix = "ytdl_"

// Workspace is a private temporary directory owned by a single download
type Workspace struct {
	dir string
}

// NewWorkspace creates a uniquely named directory under root.
// An empty root uses the OS temp directory.
func NewWorkspace(root string) (*Workspace, error) {
	dir, err := os.MkdirTemp(root, workspacePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// OutputTemplate returns an extractor output template rooted in the workspace.
// The title is cut to titleBytes bytes to stay within filename limits.
func (w *Workspace) OutputTemplate(titleBytes int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%%(title).%dB-%%(id)s.%%(ext)s", titleBytes))
}

// Release removes every file in the workspace and then the directory itself.
// It is best effort: the first failure is returned for logging, never for control flow.
func (w *Workspace) Release() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	entries, err := os.ReadDir(w.dir)
	keep(err)
	for _, e := range entries {
		keep(os.Remove(filepath.Join(w.dir, e.Name())))
	}
	keep(os.Remove(w.dir))

	return firstErr
}
