package assets

// DefaultStyleName is the style applied to standalone documents when none
// is configured.
const DefaultStyleName = "preview"

// StyleLoader loads a CSS stylesheet by name (without the .css extension).
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidAssetName for names that are not plain identifiers.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
