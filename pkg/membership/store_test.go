package membership

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPostgresStore(db), mock, func() { db.Close() }
}

func TestGetMembership(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "principal_id", "role", "is_primary_admin", "created_at",
		}).AddRow(1, 7, 42, "manager", false, now)

		mock.ExpectQuery(`SELECT id, tenant_id, principal_id, role, is_primary_admin, created_at FROM tenant_memberships WHERE principal_id = \$1 AND tenant_id = \$2`).
			WithArgs(int64(42), int64(7)).
			WillReturnRows(rows)

		m, err := store.GetMembership(context.Background(), 42, 7)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleManager, m.Role)
		assert.Equal(t, int64(7), m.TenantID)
		assert.False(t, m.IsPrimaryAdmin)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, tenant_id, principal_id`).
			WithArgs(int64(42), int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.GetMembership(context.Background(), 42, 99)
		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, tenant_id, principal_id`).
			WithArgs(int64(42), int64(7)).
			WillReturnError(fmt.Errorf("connection reset"))

		_, err := store.GetMembership(context.Background(), 42, 7)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMembershipNotFound)
	})
}

func TestGetSuperAdminFlag(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	t.Run("set", func(t *testing.T) {
		mock.ExpectQuery(`SELECT is_super_admin FROM principals WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"is_super_admin"}).AddRow(true))

		super, err := store.GetSuperAdminFlag(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, super)
	})

	t.Run("unknown principal is not super admin", func(t *testing.T) {
		mock.ExpectQuery(`SELECT is_super_admin FROM principals WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"is_super_admin"}))

		super, err := store.GetSuperAdminFlag(context.Background(), 404)
		require.NoError(t, err)
		assert.False(t, super)
	})
}

func TestGetProfileRole(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	t.Run("present", func(t *testing.T) {
		mock.ExpectQuery(`SELECT profile_role FROM principals WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"profile_role"}).AddRow("installer"))

		role, err := store.GetProfileRole(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleInstaller, role)
	})

	t.Run("null profile role", func(t *testing.T) {
		mock.ExpectQuery(`SELECT profile_role FROM principals WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"profile_role"}).AddRow(nil))

		_, err := store.GetProfileRole(context.Background(), 42)
		assert.ErrorIs(t, err, ErrNoProfileRole)
	})

	t.Run("unknown role value treated as absent", func(t *testing.T) {
		mock.ExpectQuery(`SELECT profile_role FROM principals WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"profile_role"}).AddRow("wizard"))

		_, err := store.GetProfileRole(context.Background(), 42)
		assert.ErrorIs(t, err, ErrNoProfileRole)
	})

	t.Run("unknown principal", func(t *testing.T) {
		mock.ExpectQuery(`SELECT profile_role FROM principals WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"profile_role"}))

		_, err := store.GetProfileRole(context.Background(), 404)
		assert.ErrorIs(t, err, ErrNoProfileRole)
	})
}

func TestVerifyCredentials(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	principalRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "email", "full_name", "is_active", "password_hash", "created_at",
		}).AddRow(42, "tech@shop7.in", "Shop Tech", true, string(hash), time.Now())
	}

	t.Run("valid credentials", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email, full_name, is_active, password_hash, created_at`).
			WithArgs("tech@shop7.in").
			WillReturnRows(principalRows())

		p, err := store.VerifyCredentials(context.Background(), "tech@shop7.in", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email, full_name, is_active, password_hash, created_at`).
			WithArgs("tech@shop7.in").
			WillReturnRows(principalRows())

		_, err := store.VerifyCredentials(context.Background(), "tech@shop7.in", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email, full_name, is_active, password_hash, created_at`).
			WithArgs("ghost@shop7.in").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.VerifyCredentials(context.Background(), "ghost@shop7.in", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
