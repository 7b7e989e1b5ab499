package layout

import "errors"

// Sentinel errors for the layout service layer.
var (
	ErrNotFound = errors.New("layout not found")
)
