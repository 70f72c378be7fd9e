package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound covers both a missing comment and one the viewer may not
	// see. The two cases must stay indistinguishable to the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCursor is returned when a pagination cursor fails to decode
	// or does not match the requested sort.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
	// ErrInvalidPagination is returned when legacy page/limit values fall
	// outside the allowed bounds.
	ErrInvalidPagination = errors.New("invalid pagination bounds")
)

func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return strings.Contains(mysqlErr.Error(), "Duplicate")
}
