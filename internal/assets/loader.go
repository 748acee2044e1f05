package assets

// AssetLoader defines the contract for loading CSS styles and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the page, header and footer templates of a set.
	// Returns ErrTemplateSetNotFound if no file of the set exists.
	// Returns ErrIncompleteTemplateSet if only some of them exist.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
