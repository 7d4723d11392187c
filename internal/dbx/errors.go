package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// Wrap prefixes err with "db error" and, for constraint failures, also
// wraps common.ErrUniqueViolation or common.ErrForeignKeyViolation so
// callers can match them with errors.Is. A malformed key literal (for
// example a non-UUID id) is reported as common.ErrorNotFound.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("db error: %w: %w", common.ErrUniqueViolation, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("db error: %w: %w", common.ErrForeignKeyViolation, err)
		case pgInvalidText:
			return fmt.Errorf("db error: %w: %w", common.ErrorNotFound, err)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// ConstraintName returns the violated constraint, if err carries one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
