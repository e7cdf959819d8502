package slots

import (
	"errors"
	"fmt"
)

// ErrMissingAsset marks a configuration asset that does not exist on disk.
// Loaders treat it as a warning and fall back to an empty or default value.
var ErrMissingAsset = errors.New("asset not found")

// LoadError is returned when an asset exists but cannot be read or parsed.
// It is fatal at startup and never produced while handling a turn.
type LoadError struct {
	Asset string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.Asset, e.Err)
	}
	return fmt.Sprintf("load %s %s: %v", e.Asset, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err carries a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
