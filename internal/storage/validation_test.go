package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx     context.Context
		wantErr error
		name    string
		key     string
	}{
		{name: "valid", ctx: context.Background(), key: KeyExpenses},
		{name: "canceled context is still a context", ctx: canceled, key: KeyExpenses},
		{name: "nil context", ctx: nil, key: KeyExpenses, wantErr: ErrNilContext},
		{name: "empty key", ctx: context.Background(), key: "", wantErr: ErrEmptyString},
		{name: "blank key", ctx: context.Background(), key: "   ", wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKey(tt.ctx, tt.key)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateBlob(t *testing.T) {
	assert.NoError(t, validateBlob([]byte{}))
	assert.NoError(t, validateBlob([]byte("[]")))
	assert.ErrorIs(t, validateBlob(nil), ErrNilParameter)
}

func TestStoresRejectInvalidArguments(t *testing.T) {
	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	require.NoError(t, sqlite.Migrate(context.Background()))

	stores := map[string]KeyValueStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			//nolint:staticcheck // nil context is the case under test
			_, _, err := store.Load(nil, KeyExpenses)
			assert.ErrorIs(t, err, ErrNilContext)

			_, _, err = store.Load(ctx, " ")
			assert.ErrorIs(t, err, ErrEmptyString)

			assert.ErrorIs(t, store.Save(ctx, KeyExpenses, nil), ErrNilParameter)
		})
	}
}
