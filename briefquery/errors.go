package briefquery

import "errors"

var (
	ErrMissingTable        = errors.New("table name not set")
	ErrUnconditionalDelete = errors.New("refusing to delete without a where condition")
	ErrNoRows              = errors.New("no rows found")
	ErrNoConnection        = errors.New("no connection bound to builder")
)
