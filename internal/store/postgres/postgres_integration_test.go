//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/engine"
	"wallet-core/internal/store"
)

// setupContainer starts a disposable Postgres instance, runs the
// schema migrations against it, and returns a connected Store. Run
// with `go test -tags=integration ./internal/store/postgres/...`.
func setupContainer(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wallet"),
		postgres.WithUsername("wallet"),
		postgres.WithPassword("wallet_test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &Config{
		Host:         host,
		Port:         port.Int(),
		Database:     "wallet",
		User:         "wallet",
		Password:     "wallet_test_pass",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	require.NoError(t, RunMigrations(cfg, "migrations"))

	s, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func TestPostgresStoreCreateAndGetAccount(t *testing.T) {
	s := setupContainer(t)
	ctx := context.Background()

	account, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)

	found, err := s.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)
	require.Equal(t, types.USD, found.Currency)
}

func TestPostgresStoreGetAccountMissingReturnsNotFound(t *testing.T) {
	s := setupContainer(t)
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)

	_, err = s.GetAccount(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStoreTransferRoundTrip(t *testing.T) {
	s := setupContainer(t)
	ctx := context.Background()

	from, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)
	to, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)

	e := engine.New(s)
	_, err = e.Deposit(ctx, from.ID, decimal.NewFromInt(100), "seed")
	require.NoError(t, err)

	txn, err := e.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(40), nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, txn.Status)

	fromBalance, err := s.CalculateBalance(ctx, from.ID)
	require.NoError(t, err)
	toBalance, err := s.CalculateBalance(ctx, to.ID)
	require.NoError(t, err)

	require.True(t, fromBalance.Equal(decimal.NewFromInt(60)))
	require.True(t, toBalance.Equal(decimal.NewFromInt(40)))
}

func TestPostgresStoreReferenceUniquenessIsCaseInsensitive(t *testing.T) {
	s := setupContainer(t)
	ctx := context.Background()

	from, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)
	to, err := s.CreateAccount(ctx, string(types.USD), "MAIN")
	require.NoError(t, err)

	e := engine.New(s)
	_, err = e.Deposit(ctx, from.ID, decimal.NewFromInt(100), "seed")
	require.NoError(t, err)

	ref := "Order-99"
	first, err := e.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(10), &ref, nil)
	require.NoError(t, err)

	lowered := "order-99"
	second, err := e.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(10), &lowered, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "reference matching must be case insensitive")

	found, err := s.FindTransactionByReferenceIgnoreCase(ctx, "ORDER-99")
	require.NoError(t, err)
	require.Equal(t, first.ID, found.ID)
}
