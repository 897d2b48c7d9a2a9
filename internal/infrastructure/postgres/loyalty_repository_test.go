package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/domain"
)

// recordingQuerier registra las sentencias en orden y responde QueryRow con row.
type recordingQuerier struct {
	statements []string
	execErr    error
	row        pgx.Row
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.statements = append(q.statements, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), q.execErr
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.statements = append(q.statements, sql)
	return nil, errors.New("no soportado")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.statements = append(q.statements, sql)
	return q.row
}

type balanceRow struct {
	balance int
	err     error
}

func (r balanceRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.balance
	*dest[1].(*time.Time) = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return nil
}

func TestLoyaltyGetForUpdate_CreaLaFilaAntesDeBloquear(t *testing.T) {
	q := &recordingQuerier{row: balanceRow{balance: 0}}

	acc, err := NewLoyaltyRepository(q).GetForUpdate(context.Background(), "cust-nuevo")

	require.NoError(t, err)
	assert.Equal(t, "cust-nuevo", acc.CustomerID)
	assert.Zero(t, acc.Balance)
	require.Len(t, q.statements, 2)
	assert.Contains(t, q.statements[0], "ON CONFLICT (customer_id) DO NOTHING")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(q.statements[1]), "FOR UPDATE"))
}

func TestLoyaltyGetForUpdate_DevuelveSaldoBloqueado(t *testing.T) {
	q := &recordingQuerier{row: balanceRow{balance: 17}}

	acc, err := NewLoyaltyRepository(q).GetForUpdate(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.Equal(t, 17, acc.Balance)
}

func TestLoyaltyGetForUpdate_ClasificaErrores(t *testing.T) {
	q := &recordingQuerier{execErr: &pgconn.PgError{Code: codeLockNotAvailable}}
	_, err := NewLoyaltyRepository(q).GetForUpdate(context.Background(), "cust-1")
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Len(t, q.statements, 1, "sin fila asegurada no se intenta el bloqueo")

	q = &recordingQuerier{row: balanceRow{err: pgx.ErrNoRows}}
	_, err = NewLoyaltyRepository(q).GetForUpdate(context.Background(), "cust-1")
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}
