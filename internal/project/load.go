package project

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
)

// Load gathers a project directory from disk and assembles it. Hidden
// files and directories are skipped; asset content is read so signatures
// can be computed.
func Load(dir string) (*Project, *docapella.Error) {
	files, err := GatherFiles(dir)
	if err != nil {
		return nil, err
	}
	return FromFiles(files)
}

// GatherFiles walks a directory and returns the project-relevant files
// with root-relative slash-separated paths.
func GatherFiles(dir string) ([]InputFile, *docapella.Error) {
	var files []InputFile

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, rerr := filepath.Rel(dir, p)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		if !isProjectFile(rel) {
			return nil
		}

		content, rdErr := os.ReadFile(p)
		if rdErr != nil {
			return rdErr
		}

		slog.Debug("Gathered project file", slog.String("path", rel), slog.Int("bytes", len(content)))
		files = append(files, InputFile{Path: rel, Content: content})
		return nil
	})
	if walkErr != nil {
		return nil, docapella.IOError(walkErr, dir)
	}

	return files, nil
}

// isProjectFile reports whether a root-relative path belongs to the
// project: the settings file, markdown anywhere, anything under _assets.
func isProjectFile(rel string) bool {
	switch {
	case rel == SettingsFileName:
		return true
	case strings.HasPrefix(rel, "_assets/"):
		return true
	case strings.HasSuffix(rel, ".md"):
		return true
	default:
		return false
	}
}
