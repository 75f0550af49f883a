package datastructure

import "errors"

var (
	ErrVertexNotFound    = errors.New("vertex not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrNegativeLength    = errors.New("negative or NaN edge length")
	ErrWeightBelowLength = errors.New("custom weight below edge length")
)
