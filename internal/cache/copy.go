package cache

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// copyTree deep-copies the contents of sourceRoot into destinationRoot,
// overwriting existing files and preserving file modes. destinationRoot must
// already exist.
func copyTree(sourceRoot string, destinationRoot string) error {
	return filepath.WalkDir(sourceRoot, func(currentPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}

		relativePath, relativeError := filepath.Rel(sourceRoot, currentPath)
		if relativeError != nil {
			return relativeError
		}
		if relativePath == "." {
			return nil
		}

		destinationPath := filepath.Join(destinationRoot, relativePath)
		entryInfo, infoError := entry.Info()
		if infoError != nil {
			return infoError
		}

		if entry.IsDir() {
			return os.MkdirAll(destinationPath, entryInfo.Mode().Perm())
		}
		return copyFile(currentPath, destinationPath, entryInfo.Mode().Perm())
	})
}

func copyFile(sourcePath string, destinationPath string, mode fs.FileMode) error {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	destinationFile, createError := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if createError != nil {
		return createError
	}

	if _, copyError := io.Copy(destinationFile, sourceFile); copyError != nil {
		destinationFile.Close()
		return copyError
	}
	return destinationFile.Close()
}
