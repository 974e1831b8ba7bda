package refreshtokens

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthlog/internal/common"
)

func TestRegisterAndOwnerOf(t *testing.T) {
	r := NewInMemoryRegistry()
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "t1", "acc_1"))

	owner, err := r.OwnerOf(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "acc_1", owner)

	_, err = r.OwnerOf(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRevokeIsIdempotent(t *testing.T) {
	r := NewInMemoryRegistry()
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "t1", "acc_1"))
	require.NoError(t, r.Revoke(ctx, "t1"))
	require.NoError(t, r.Revoke(ctx, "t1"))
	require.NoError(t, r.Revoke(ctx, "never-existed"))

	_, err := r.OwnerOf(ctx, "t1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRotate(t *testing.T) {
	r := NewInMemoryRegistry()
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "old", "acc_1"))
	require.NoError(t, r.Rotate(ctx, "old", "new", "acc_1"))

	_, err := r.OwnerOf(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)

	owner, err := r.OwnerOf(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "acc_1", owner)

	// The consumed token cannot be rotated again.
	err = r.Rotate(ctx, "old", "newer", "acc_1")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRotateRaceExactlyOneWinner(t *testing.T) {
	r := NewInMemoryRegistry()
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "shared", "acc_1"))

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = r.Rotate(ctx, "shared", common.NewID("tok"), "acc_1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		}
	}
	assert.Equal(t, 1, wins)
}
