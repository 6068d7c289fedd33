package batch

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Source represents a discovered photo.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the render key: the relpath without extension, or the full
	// relpath when another photo would otherwise share the key.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanImages walks the input directory and returns all photos, skipping
// hidden directories and anything under skipDir (usually the output
// directory when it lives inside the input).
func ScanImages(inputDir, skipDir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == inputDir {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || path == skipDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Size:    info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return uniqueKeys(sources), nil
}

// uniqueKeys gives every photo whose key collides with another ("a.png"
// and "a.jpg" both map to "a") its full relative path as key. Relative
// paths are unique, so this settles after a few passes.
func uniqueKeys(sources []Source) []Source {
	for {
		count := make(map[string]int, len(sources))
		for _, s := range sources {
			count[s.Key]++
		}
		changed := false
		for i := range sources {
			if count[sources[i].Key] > 1 && sources[i].Key != sources[i].RelPath {
				sources[i].Key = sources[i].RelPath
				changed = true
			}
		}
		if !changed {
			return sources
		}
	}
}
