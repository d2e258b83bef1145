package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlState classifies the SQLSTATE codes the repos can hit
type sqlState struct {
	code  ErrorCode
	retry bool
}

var sqlStates = map[string]sqlState{
	"23505": {code: ErrorCodeDuplicateKey},
	"23503": {code: ErrorCodeInvalidArgument},
	"23502": {code: ErrorCodeValidation},
	"23514": {code: ErrorCodeValidation},
	"22001": {code: ErrorCodeInvalidArgument},
	"22P02": {code: ErrorCodeInvalidArgument},
	"40001": {code: ErrorCodeDB, retry: true},
	"40P01": {code: ErrorCodeDB, retry: true},
	"55P03": {code: ErrorCodeDB, retry: true},
	"25006": {code: ErrorCodeUnavailable},
	"57P03": {code: ErrorCodeUnavailable},
}

// driver messages seen when a commit or statement loses to contention
var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
}

// PgError returns the Postgres error at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// DBErrorCode maps a Postgres error to an ErrorCode; !ok when err is not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if st, known := sqlStates[pgErr.Code]; known {
		return st.code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with the mapped code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports transient database contention
// local cancellation is never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := PgError(err); ok {
		return sqlStates[pgErr.Code].retry
	}
	msg := strings.ToLower(err.Error())
	for _, t := range retryText {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}
