package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads styles and template sets from an operator-provided
// directory laid out as styles/{name}.css and templates/{name}/*.html.
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader opens root. The directory must exist and be listable;
// otherwise the error wraps ErrInvalidBasePath.
func NewFilesystemLoader(root string) (*FilesystemLoader, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if _, err := os.ReadDir(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
		}
		if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{root: abs}, nil
}

// LoadStyle returns styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := f.read("styles", name+".css")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return content, err
}

// LoadTemplateSet returns the page, header and footer of templates/{name}.
func (f *FilesystemLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	files := make(map[string]string, len(templateFiles))
	var missing []string
	for _, file := range templateFiles {
		content, err := f.read("templates", name, file)
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, file)
			continue
		}
		if err != nil {
			return nil, err
		}
		files[file] = content
	}
	if err := checkComplete(name, missing); err != nil {
		return nil, err
	}
	return fromFiles(name, files), nil
}

// read loads a file below the root. The resolved target, symlinks
// included, must stay inside the root. A missing file is returned as
// fs.ErrNotExist unwrapped so callers can map it to their own sentinel.
func (f *FilesystemLoader) read(elem ...string) (string, error) {
	target := filepath.Join(append([]string{f.root}, elem...)...)
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	rel, err := filepath.Rel(f.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, filepath.Join(elem...), f.root)
	}

	data, err := os.ReadFile(target) // #nosec G304 -- contained in root above
	if errors.Is(err, fs.ErrNotExist) {
		return "", fs.ErrNotExist
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, filepath.Join(elem...), err)
	}
	return string(data), nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
