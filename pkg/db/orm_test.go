package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"master_crm/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type linesWriter []string

func (w *linesWriter) Printf(format string, args ...interface{}) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "db.sqlite3?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("db.sqlite3"))
}

func TestNewGormConnection_SQLite(t *testing.T) {
	conn, err := NewGormConnection(config.DBConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "x.db"),
	})
	require.NoError(t, err)

	var fk int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestNewGormConnection_UnknownDriver(t *testing.T) {
	_, err := NewGormConnection(config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	var out linesWriter
	l := newGormLogger(&out)
	query := func() (string, int64) { return "SELECT * FROM masters WHERE tg_id = 10", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, out)

	l.Trace(context.Background(), time.Now(), query, errors.New("connection refused"))
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "connection refused")
}
