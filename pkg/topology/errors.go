package topology

import "errors"

var (
	// ErrDuplicateNode indicates two nodes share the same ID.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrDuplicateEdge indicates two edges share the same ID.
	ErrDuplicateEdge = errors.New("duplicate edge id")

	// ErrUnknownEndpoint indicates an edge references a node that is not in
	// the node set.
	ErrUnknownEndpoint = errors.New("edge endpoint not in node set")

	// ErrInvalidCost indicates an edge carries a negative cost.
	ErrInvalidCost = errors.New("edge cost must be non-negative")

	// ErrUnknownLink indicates a cost override references a link id that no
	// edge carries.
	ErrUnknownLink = errors.New("link id not found")
)
