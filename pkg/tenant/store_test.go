package tenant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTenantByWorkspace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgresStore(db)

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		trialEnd := now.AddDate(0, 1, 0)
		rows := sqlmock.NewRows([]string{
			"id", "name", "workspace", "active", "subscription_status",
			"trial_ends_at", "created_at", "updated_at",
		}).AddRow(7, "Shop Seven", "shop7", true, "trial", trialEnd, now, now)

		mock.ExpectQuery(`SELECT id, name, workspace, active, subscription_status, trial_ends_at, created_at, updated_at
		FROM tenants
		WHERE workspace = \$1`).
			WithArgs("shop7").
			WillReturnRows(rows)

		tenant, err := store.GetTenantByWorkspace(context.Background(), "shop7")
		require.NoError(t, err)
		assert.Equal(t, int64(7), tenant.ID)
		assert.Equal(t, "shop7", tenant.Workspace)
		assert.True(t, tenant.Active)
		assert.Equal(t, SubscriptionTrial, tenant.SubscriptionStatus)
		require.NotNil(t, tenant.TrialEndsAt)
		assert.WithinDuration(t, trialEnd, *tenant.TrialEndsAt, time.Second)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, workspace`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.GetTenantByWorkspace(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, workspace`).
			WithArgs("shop7").
			WillReturnError(fmt.Errorf("connection refused"))

		_, err := store.GetTenantByWorkspace(context.Background(), "shop7")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get tenant")
	})
}

func TestGetActivation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgresStore(db)

	t.Run("active with subscription", func(t *testing.T) {
		periodEnd := time.Now().AddDate(0, 1, 0)
		rows := sqlmock.NewRows([]string{"active", "current_period_end", "coalesce"}).
			AddRow(true, periodEnd, false)

		mock.ExpectQuery(`SELECT t.active, s.current_period_end`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		act, err := store.GetActivation(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, act.Active)
		assert.False(t, act.IsFree)
		require.NotNil(t, act.SubscriptionEnd)
	})

	t.Run("no subscription row", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"active", "current_period_end", "coalesce"}).
			AddRow(true, nil, false)

		mock.ExpectQuery(`SELECT t.active, s.current_period_end`).
			WithArgs(int64(8)).
			WillReturnRows(rows)

		act, err := store.GetActivation(context.Background(), 8)
		require.NoError(t, err)
		assert.True(t, act.Active)
		assert.Nil(t, act.SubscriptionEnd)
	})

	t.Run("tenant missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT t.active, s.current_period_end`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"active"}))

		_, err := store.GetActivation(context.Background(), 9)
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})
}
