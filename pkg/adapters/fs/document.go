package fs

import (
	"fmt"
	"os"

	"github.com/aretw0/tasks/pkg/core"
)

const (
	// TempFilePrefix names the staging file a document is written to before it replaces the old one.
	TempFilePrefix = "tasks-tmp-"

	folderPerm   os.FileMode = 0755
	documentPerm os.FileMode = 0644
)

// ensureFolder creates the data folder when it does not exist yet.
func (b *Backend) ensureFolder() error {
	if err := os.MkdirAll(b.Path, folderPerm); err != nil {
		return fmt.Errorf("failed to create data folder: %w", err)
	}
	return nil
}

// writeDocument encodes c and replaces the data document with it. The new
// document is staged and synced in the data folder first, so a reader (or a
// crash) sees either the previous collection or the new one.
func (b *Backend) writeDocument(c core.Collection) error {
	data, err := core.EncodeCollection(c)
	if err != nil {
		return err
	}
	if err := b.ensureFolder(); err != nil {
		return err
	}

	staged, err := os.CreateTemp(b.Path, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage data document: %w", err)
	}
	defer os.Remove(staged.Name()) // no-op once renamed

	if _, err := staged.Write(data); err != nil {
		staged.Close()
		return fmt.Errorf("failed to write staged document: %w", err)
	}
	if err := staged.Sync(); err != nil {
		staged.Close()
		return fmt.Errorf("failed to sync staged document: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("failed to close staged document: %w", err)
	}
	if err := os.Chmod(staged.Name(), documentPerm); err != nil {
		return fmt.Errorf("failed to chmod staged document: %w", err)
	}
	if err := os.Rename(staged.Name(), b.file); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.file, err)
	}

	b.logger.Debug("wrote data document", "path", b.file, "contexts", len(c), "bytes", len(data))
	return nil
}
