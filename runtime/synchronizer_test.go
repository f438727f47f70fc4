package runtime

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/runtime/workers"

	"github.com/stretchr/testify/require"
)

func TestStoreFirst_PatchOnlyAfterSuccess(t *testing.T) {
	req := require.New(t)
	var steps []string

	res, err := storeFirst(context.Background(),
		func(context.Context) (int, error) {
			steps = append(steps, "store")
			return 42, nil
		},
		func(v int) {
			steps = append(steps, fmt.Sprintf("patch %d", v))
		})

	req.NoError(err)
	req.Equal(42, res)
	req.Equal([]string{"store", "patch 42"}, steps)

	steps = nil
	_, err = storeFirst(context.Background(),
		func(context.Context) (int, error) {
			steps = append(steps, "store")
			return 0, fmt.Errorf("refused")
		},
		func(int) {
			steps = append(steps, "patch")
		})

	req.Error(err)
	req.Equal([]string{"store"}, steps)
}

func TestDeliverThenPersist_Order(t *testing.T) {
	req := require.New(t)
	var steps []string

	deliverThenPersist(context.Background(),
		func() { steps = append(steps, "deliver") },
		func(context.Context) { steps = append(steps, "persist") },
		func(ctx context.Context, job workers.Job) {
			steps = append(steps, "schedule")
			job(ctx)
		})

	req.Equal([]string{"deliver", "schedule", "persist"}, steps)
}

func TestSynchronizer_CreateChannel(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, _ := newTestOrchestrator(t)
	synchronizer := orchestrator.Synchronizer()

	// Given the store is asked before the cache knows anything
	recorder.Before("AddChannels", func() {
		_, channels := orchestrator.cache.Stats()
		req.Equal(3, channels)
	})

	channel, err := synchronizer.CreateChannel(context.Background(), "ops", "on call", true)

	req.NoError(err)
	req.Equal("ops", channel.Name)
	req.True(channel.Private)
	req.True(orchestrator.cache.HasChannel(channel.ID))
	req.Empty(orchestrator.cache.Members(channel.ID))
}

func TestSynchronizer_CreateChannel_StoreFailure(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, _ := newTestOrchestrator(t)
	recorder.FailOn("AddChannels", errors.Internal("addChannels", fmt.Errorf("disk full")))

	_, err := orchestrator.Synchronizer().CreateChannel(context.Background(), "ops", "", false)

	req.Error(err)
	_, channels := orchestrator.cache.Stats()
	req.Equal(3, channels)
}

func TestSynchronizer_AddMember(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	alice.reset()
	bob.reset()

	recorder.Before("AddChannelsUsers", func() {
		req.False(orchestrator.cache.IsMember(seed.Random, "alice"))
	})

	// When alice joins random
	req.NoError(orchestrator.Synchronizer().AddMember(ctx, seed.Random, "alice"))

	// Then she is a recipient and was told
	req.True(orchestrator.cache.IsMember(seed.Random, "alice"))
	req.Equal([]event.Outbound{event.MembershipChanged{ChannelID: seed.Random, Action: event.Added}}, alice.received())
	req.Empty(bob.received())

	// And her next message there goes through
	alice.reset()
	orchestrator.Dispatch(ctx, alice, chat("Hi", seed.Random))
	req.Len(bob.named(event.ChatName), 1)
	req.Empty(alice.named(event.ErrorName))
}

func TestSynchronizer_AddMember_StoreFailureLeavesCache(t *testing.T) {
	req := require.New(t)
	orchestrator, _, _ := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")

	err := orchestrator.Synchronizer().AddMember(context.Background(), domain.ChannelID(9999), "alice")

	req.Equal(http.StatusNotFound, errors.StatusOf(err))
	req.False(orchestrator.cache.HasChannel(domain.ChannelID(9999)))
	req.Empty(alice.received())
}

func TestSynchronizer_RemoveMember_EvictsBeforeReturning(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, _, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	alice.reset()

	// When bob is removed from general
	req.NoError(orchestrator.Synchronizer().RemoveMember(ctx, seed.General, "bob"))

	// Then the next message in general no longer reaches him
	req.Equal([]event.Outbound{event.MembershipChanged{ChannelID: seed.General, Action: event.Removed}}, bob.received())
	bob.reset()
	orchestrator.Dispatch(ctx, alice, chat("Bye", seed.General))
	req.Empty(bob.received())
	req.Len(alice.named(event.ChatName), 1)

	// And bob can no longer post there
	orchestrator.Dispatch(ctx, bob, chat("Wait", seed.General))
	req.Len(bob.named(event.ErrorName), 1)
}

func TestSynchronizer_RemoveMember_StoreFailureKeepsMember(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, seed := newTestOrchestrator(t)
	recorder.FailOn("RemoveChannelsUsers", errors.Internal("removeChannelsUsers", fmt.Errorf("timeout")))

	err := orchestrator.Synchronizer().RemoveMember(context.Background(), seed.General, "bob")

	req.Error(err)
	req.True(orchestrator.cache.IsMember(seed.General, "bob"))
}

func TestSynchronizer_RenameUser_BroadcastsToEveryone(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, _ := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	carol := connect(t, orchestrator, "carol")
	alice.reset()
	bob.reset()

	recorder.Before("UpdateUserDisplayName", func() {
		req.Equal("Bob", orchestrator.cache.DisplayName("bob"))
	})

	req.NoError(orchestrator.Synchronizer().RenameUser(context.Background(), "bob", "Bobby"))

	renamed := []event.Outbound{event.Renamed{Previous: "Bob", User: "Bobby"}}
	for _, s := range []*session{alice, bob, carol} {
		req.Equal(renamed, s.received())
	}
	req.Equal("Bobby", orchestrator.cache.DisplayName("bob"))

	user, err := recorder.Store.ReadUser(context.Background(), "bob")
	req.NoError(err)
	req.Equal("Bobby", user.DisplayName)
}

func TestSynchronizer_RenameUser_StoreFailure(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, _ := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	recorder.FailOn("UpdateUserDisplayName", errors.Internal("updateUserDisplayName", fmt.Errorf("timeout")))

	err := orchestrator.Synchronizer().RenameUser(context.Background(), "alice", "Ally")

	req.Error(err)
	req.Equal("Alice", orchestrator.cache.DisplayName("alice"))
	req.Empty(alice.received())
}

func TestSynchronizer_ClearUnread(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, _, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")

	orchestrator.Dispatch(ctx, alice, chat("Hello", seed.General))
	bob.reset()

	unread, err := orchestrator.Synchronizer().ClearUnread(ctx, "bob", seed.General)

	req.NoError(err)
	req.Zero(unread)
	req.Equal([]event.Outbound{event.Notification{ChannelID: seed.General, Unread: 0}}, bob.received())
}
