package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplateSet loads templates/{name}/{page,header,footer}.html.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	files := make(map[string]string, len(templateFiles))
	var missing []string
	for _, f := range templateFiles {
		content, err := templates.ReadFile(path.Join("templates", name, f))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, f)
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		files[f] = string(content)
	}

	if err := checkComplete(name, missing); err != nil {
		return nil, err
	}
	return fromFiles(name, files), nil
}

// checkComplete maps the missing-file list to the set's error contract.
func checkComplete(name string, missing []string) error {
	switch len(missing) {
	case 0:
		return nil
	case len(templateFiles):
		return fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	default:
		return fmt.Errorf("%w: %q missing %v", ErrIncompleteTemplateSet, name, missing)
	}
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
