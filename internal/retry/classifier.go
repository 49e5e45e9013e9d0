package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// SQLSTATE classes and codes that mean "try again later" while connecting.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
var (
	transientClasses = []string{
		"08", // connection exception
		"53", // insufficient resources (too_many_connections, ...)
		"57", // operator intervention (cannot_connect_now during startup)
	}
	transientCodes = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"55P03": true, // lock_not_available
	}
	transientMessages = []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"server closed the connection",
		"unexpected eof",
		"the database system is starting up",
	}
)

// PostgreSQLErrorClassifier decides whether a connection error is worth retrying.
type PostgreSQLErrorClassifier struct{}

func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient reports whether err is likely to go away on its own.
// Authentication failures, missing databases and cancellations are fatal.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if transientCodes[pgErr.Code] {
			return true
		}
		for _, class := range transientClasses {
			if strings.HasPrefix(pgErr.Code, class) {
				return true
			}
		}
		return false
	}

	if transient, ok := classifyNetError(err); ok {
		return transient
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// classifyNetError judges DNS and dial errors. ok is false when err carries
// neither, leaving the decision to the message patterns.
func classifyNetError(err error) (transient, ok bool) {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout, true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true, true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ENETUNREACH) ||
			errors.Is(opErr.Err, syscall.EHOSTUNREACH), true
	}
	return false, false
}

var _ taxiload.ErrorClassifier = (*PostgreSQLErrorClassifier)(nil)
