package postgres_test

import (
	"context"
	"testing"
	"time"

	"tgstore/internal/config"
	"tgstore/pkg/logger"
	"tgstore/pkg/storage/postgres"

	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugw(string, ...any)               {}
func (nopLogger) Infow(string, ...any)                {}
func (nopLogger) Warnw(string, ...any)                {}
func (nopLogger) Errorw(string, ...any)               {}
func (l nopLogger) With(...any) logger.Logger         { return l }
func (l nopLogger) Ctx(context.Context) logger.Logger { return l }
func (nopLogger) GenerateRequestID() string           { return "test" }
func (nopLogger) GetRequestID(context.Context) string { return "test" }
func (nopLogger) WithRequestID(ctx context.Context, _ string) context.Context {
	return ctx
}

func postgresConfig() *config.Postgres {
	return &config.Postgres{
		Host:     "localhost",
		Port:     "5432",
		Name:     "orders",
		User:     "orders",
		Password: "secret",
		SSLMode:  "disable",
	}
}

// Option validation runs before any connection attempt, so bad combinations
// must fail fast without a reachable database.
func TestNewPostgres_OptionValidation(t *testing.T) {
	testCases := []struct {
		desc string
		opts []postgres.Option
	}{
		{
			desc: "ZeroPoolSize",
			opts: []postgres.Option{postgres.MaxPoolSize(0)},
		},
		{
			desc: "ZeroConnAttempts",
			opts: []postgres.Option{postgres.MaxConnAttempts(0)},
		},
		{
			desc: "NegativeBaseRetryDelay",
			opts: []postgres.Option{postgres.BaseRetryDelay(-time.Second)},
		},
		{
			desc: "BaseDelayAboveMaxDelay",
			opts: []postgres.Option{
				postgres.BaseRetryDelay(10 * time.Second),
				postgres.MaxRetryDelay(time.Second),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := postgres.NewPostgres(postgresConfig(), nopLogger{}, tc.opts...)
			require.Error(t, err)
			require.Contains(t, err.Error(), "validation")
		})
	}
}
