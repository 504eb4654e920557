package repository

import "errors"

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrInvalidRecord      = errors.New("invalid record")
)
