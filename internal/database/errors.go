package database

import "errors"

// ErrTemplateShapeMismatch is returned when an enrollment's embedding
// dimensionality disagrees with the store's configured dimension.
var ErrTemplateShapeMismatch = errors.New("template dimensionality mismatch")
