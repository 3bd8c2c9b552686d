package database

import (
	"database/sql"
	"errors"
)

var (
	ErrBlankQuery = errors.New("blank query")
)

type Driver interface {
	Name() string
	Open() (*sql.DB, error)
	QuoteLiteral(value string) string
	usesLastInsertId() bool
	usesNumberedParameters() bool
}
