package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/trustline-faucet/faucet/internal/config"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/infrastructure/persistence/postgres"
)

func setupTestDatabase(t *testing.T) *postgres.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := postgres.Connect(ctx, &config.DatabaseConfig{
		Enabled:         true,
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "testdb",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func TestSubmissionJournal(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	journal := postgres.NewSubmissionJournal(db.Pool)
	require.NoError(t, journal.EnsureSchema(ctx))
	require.NoError(t, journal.EnsureSchema(ctx))

	req := domain.NewPayoutRequest(
		"rABCDEFGHJKLMNPQRSTUVWXYZabcdefgh_1",
		"rABCDEFGHJKLMNPQRSTUVWXYZabcdefgh",
		decimal.RequireFromString("4.25"),
		time.Now().UTC(),
	)
	req.Sequence = 101

	t.Run("records a failed signing without a hash", func(t *testing.T) {
		req.SubmitResult = &domain.SubmitResult{Sequence: 101, Error: "sign: bad secret"}
		require.NoError(t, journal.Record(ctx, *req))

		var errText string
		var txHash *string
		err := db.Pool.QueryRow(ctx,
			`SELECT error, tx_hash FROM payout_submissions WHERE claim_id = $1`, req.ClaimID,
		).Scan(&errText, &txHash)
		require.NoError(t, err)
		assert.Equal(t, "sign: bad secret", errText)
		assert.Nil(t, txHash)
	})

	t.Run("a later outcome for the same claim replaces the row", func(t *testing.T) {
		req.SubmitResult = &domain.SubmitResult{
			Sequence:     101,
			TxHash:       "ABCDEF",
			EngineResult: "tesSUCCESS",
			Accepted:     true,
			SubmittedAt:  time.Now().UTC(),
		}
		require.NoError(t, journal.Record(ctx, *req))

		var (
			count    int
			accepted bool
			amount   string
			sequence int64
		)
		require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM payout_submissions`).Scan(&count))
		require.NoError(t, db.Pool.QueryRow(ctx,
			`SELECT accepted, amount::text, sequence FROM payout_submissions WHERE claim_id = $1`, req.ClaimID,
		).Scan(&accepted, &amount, &sequence))

		assert.Equal(t, 1, count)
		assert.True(t, accepted)
		assert.Equal(t, "4.25", amount)
		assert.Equal(t, int64(101), sequence)
	})
}
