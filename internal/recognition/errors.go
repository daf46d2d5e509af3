package recognition

import "errors"

// ErrInvalidScale is returned when a scale leaves no room for a block of at
// least one pixel. Returned errors wrap it with the offending value.
var ErrInvalidScale = errors.New("invalid scale")
