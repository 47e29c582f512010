package assets

import "errors"

// AssetResolver looks an asset up in a chain of loaders: a custom directory
// first when configured, then the embedded assets. Only "not found" moves on
// to the next loader; any other error is returned as is.
type AssetResolver struct {
	chain    []AssetLoader
	embedded *EmbeddedLoader
}

var _ AssetLoader = (*AssetResolver)(nil)

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		dir, err := NewDirLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.chain = append(r.chain, dir)
	}
	r.chain = append(r.chain, r.embedded)
	return r, nil
}

// LoadStyle returns the first style named name along the chain.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	var err error
	for _, l := range r.chain {
		var css string
		if css, err = l.LoadStyle(name); !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return "", err
}

// LoadTemplateSet returns the first template set named name along the chain.
// An incomplete custom set is an error, not a fallback.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	var err error
	for _, l := range r.chain {
		var ts *TemplateSet
		if ts, err = l.LoadTemplateSet(name); !errors.Is(err, ErrTemplateSetNotFound) {
			return ts, err
		}
	}
	return nil, err
}

// Styles lists the embedded style names.
func (r *AssetResolver) Styles() []string {
	return r.embedded.Styles()
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.chain) > 1
}
