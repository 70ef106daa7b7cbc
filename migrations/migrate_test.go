package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_contact_form.sql"}, names)
}

func TestApply_SkipsRecorded(t *testing.T) {
	conn, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer conn.Close(context.Background())

	conn.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_lock($1)`)).WithArgs(advisoryLockID).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	conn.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	conn.ExpectQuery(`SELECT EXISTS`).WithArgs("001_init.sql").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	conn.ExpectQuery(`SELECT EXISTS`).WithArgs("002_contact_form.sql").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	conn.ExpectExec(`INSERT INTO forms`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	conn.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("002_contact_form.sql").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	conn.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_unlock($1)`)).WithArgs(advisoryLockID).WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, Apply(context.Background(), conn))
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestApply_LockFailure(t *testing.T) {
	conn, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer conn.Close(context.Background())

	conn.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_lock($1)`)).WithArgs(advisoryLockID).WillReturnError(errors.New("connection reset"))

	err = Apply(context.Background(), conn)
	assert.EqualError(t, err, "failed to acquire migration lock: connection reset")
}
