package memory_test

import (
	"context"
	"testing"

	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/storage/memory"
	"chat-relay/storage/storetest"

	"github.com/stretchr/testify/require"
)

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) contract.Store {
		return memory.New()
	})
}

func TestStore_ClosedRejectsCalls(t *testing.T) {
	req := require.New(t)
	store := memory.New()

	// Given a closed store
	req.NoError(store.Close())

	// When reading users
	_, err := store.ReadAllUsers(context.Background())

	// Then the call fails with the closed sentinel
	req.ErrorIs(err, errors.ErrStoreClosed)
}
