package surveystats

import "errors"

var (
	// ErrNoData marks a syntactically valid query whose result set is
	// empty where the operation requires data (averaging paths). It is
	// distinct from a legitimate zero count.
	ErrNoData = errors.New("no survey data for the given filter")

	// ErrNotFound marks an unknown referenced entity (unit, user).
	ErrNotFound = errors.New("referenced entity not found")

	// ErrInvalidArgument marks a malformed filter parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)
