package utils

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// moduleExtensions are the source extensions a route module may use
var moduleExtensions = map[string]bool{
	".tsx": true,
	".ts":  true,
	".jsx": true,
	".js":  true,
}

// FindRouteModules recursively finds the route modules under dir and returns
// their paths relative to dir, slash separated and sorted. Generated type
// directories (+types) are skipped. A missing dir yields no modules.
func FindRouteModules(fsys afero.Fs, dir string) ([]string, error) {
	var files []string

	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == "+types" {
				return filepath.SkipDir
			}
			return nil
		}

		if !moduleExtensions[filepath.Ext(path)] {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})

	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
