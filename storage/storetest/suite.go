package storetest

import (
	"context"
	"net/http"
	"testing"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

// Seed is the fixture every conformance test starts from:
// alice and bob in "general", bob alone in "random", "empty" without members.
type Seed struct {
	General domain.ChannelID
	Random  domain.ChannelID
	Empty   domain.ChannelID
}

func SeedStore(t *testing.T, store contract.Store) Seed {
	req := require.New(t)
	ctx := context.Background()

	req.NoError(store.AddUsers(ctx, domain.User{Token: "alice", DisplayName: "Alice"}))
	req.NoError(store.AddUsers(ctx, domain.User{Token: "bob", DisplayName: "Bob"}))
	req.NoError(store.AddUsers(ctx, domain.User{Token: "carol", DisplayName: "Carol"}))

	general, err := store.AddChannels(ctx, "general", "everyone", false)
	req.NoError(err)
	random, err := store.AddChannels(ctx, "random", "off topic", true)
	req.NoError(err)
	empty, err := store.AddChannels(ctx, "empty", "", false)
	req.NoError(err)

	req.NoError(store.AddChannelsUsers(ctx, general.ID, "alice"))
	req.NoError(store.AddChannelsUsers(ctx, general.ID, "bob"))
	req.NoError(store.AddChannelsUsers(ctx, random.ID, "bob"))

	return Seed{General: general.ID, Random: random.ID, Empty: empty.ID}
}

// Run checks the behaviour shared by every store adapter. newStore must
// return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) contract.Store) {
	ctx := context.Background()

	setup := func(t *testing.T) (contract.Store, Seed) {
		store := newStore(t)
		t.Cleanup(func() { _ = store.Close() })
		return store, SeedStore(t, store)
	}

	t.Run("users", func(t *testing.T) {
		req := require.New(t)
		store, _ := setup(t)

		user, err := store.ReadUser(ctx, "alice")
		req.NoError(err)
		req.Equal(domain.User{Token: "alice", DisplayName: "Alice"}, user)

		_, err = store.ReadUser(ctx, "mallory")
		req.Error(err)
		req.True(errors.IsNotFound(err))
		req.Equal(http.StatusNotFound, errors.StatusOf(err))

		err = store.AddUsers(ctx, domain.User{Token: "alice", DisplayName: "Again"})
		req.Equal(http.StatusConflict, errors.StatusOf(err))

		users, err := store.ReadAllUsers(ctx)
		req.NoError(err)
		req.Equal([]domain.Token{"alice", "bob", "carol"}, tokens(users))
	})

	t.Run("channels", func(t *testing.T) {
		req := require.New(t)
		store, seed := setup(t)

		req.NotEqual(seed.General, seed.Random)
		channels, err := store.ReadAllChannels(ctx)
		req.NoError(err)
		req.Len(channels, 3)
		req.Equal(seed.General, channels[0].ID)
		req.Equal("general", channels[0].Name)
		req.Equal("everyone", channels[0].Description)
		req.False(channels[0].Private)
		req.True(channels[1].Private)

		forBob, err := store.ReadAllChannelsForUser(ctx, "bob")
		req.NoError(err)
		req.Equal([]domain.ChannelID{seed.General, seed.Random}, channelIDs(forBob))

		forCarol, err := store.ReadAllChannelsForUser(ctx, "carol")
		req.NoError(err)
		req.Empty(forCarol)
	})

	t.Run("memberships", func(t *testing.T) {
		req := require.New(t)
		store, seed := setup(t)

		memberships, err := store.ReadAllChannelsUsers(ctx)
		req.NoError(err)
		req.ElementsMatch([]domain.Membership{
			{ChannelID: seed.General, Token: "alice"},
			{ChannelID: seed.General, Token: "bob"},
			{ChannelID: seed.Random, Token: "bob"},
		}, memberships)

		users, err := store.ReadAllUsersInChannel(ctx, seed.General)
		req.NoError(err)
		req.Equal([]domain.Token{"alice", "bob"}, tokens(users))

		users, err = store.ReadAllUsersInChannel(ctx, seed.Empty)
		req.NoError(err)
		req.Empty(users)

		err = store.AddChannelsUsers(ctx, seed.General, "alice")
		req.Equal(http.StatusConflict, errors.StatusOf(err))

		err = store.AddChannelsUsers(ctx, domain.ChannelID(9999), "alice")
		req.Equal(http.StatusNotFound, errors.StatusOf(err))

		err = store.AddChannelsUsers(ctx, seed.Empty, "mallory")
		req.Equal(http.StatusNotFound, errors.StatusOf(err))

		req.NoError(store.RemoveChannelsUsers(ctx, seed.General, "alice"))
		err = store.RemoveChannelsUsers(ctx, seed.General, "alice")
		req.Equal(http.StatusNotFound, errors.StatusOf(err))

		users, err = store.ReadAllUsersInChannel(ctx, seed.General)
		req.NoError(err)
		req.Equal([]domain.Token{"bob"}, tokens(users))
	})

	t.Run("messages", func(t *testing.T) {
		req := require.New(t)
		store, seed := setup(t)

		first, err := store.InsertMessage(ctx, "Hello", "alice", "2024-11-01T06:25:51.182Z", seed.General)
		req.NoError(err)
		req.NotEmpty(first.ID)
		req.Equal("Alice", first.AuthorName)

		// Identical payloads are two messages
		second, err := store.InsertMessage(ctx, "Hello", "alice", "2024-11-01T06:25:51.182Z", seed.General)
		req.NoError(err)
		req.NotEqual(first.ID, second.ID)

		_, err = store.InsertMessage(ctx, "Hi", "bob", "2024-11-01T06:26:00.000Z", seed.General)
		req.NoError(err)

		messages, err := store.ReadAllMessagesInChannel(ctx, seed.General)
		req.NoError(err)
		req.Len(messages, 3)
		req.Equal("Hi", messages[2].Body)
		req.Equal(domain.Token("bob"), messages[2].Author)
		req.Equal("Bob", messages[2].AuthorName)
		req.Equal("2024-11-01T06:26:00.000Z", messages[2].Timestamp)
		req.Equal(seed.General, messages[2].ChannelID)

		messages, err = store.ReadAllMessagesInChannel(ctx, seed.Random)
		req.NoError(err)
		req.Empty(messages)

		_, err = store.InsertMessage(ctx, "Hello", "alice", "2024-11-01T06:25:51.182Z", domain.ChannelID(9999))
		req.Equal(http.StatusNotFound, errors.StatusOf(err))
	})

	t.Run("rename", func(t *testing.T) {
		req := require.New(t)
		store, _ := setup(t)

		req.NoError(store.UpdateUserDisplayName(ctx, "bob", "Bobby"))
		user, err := store.ReadUser(ctx, "bob")
		req.NoError(err)
		req.Equal("Bobby", user.DisplayName)

		err = store.UpdateUserDisplayName(ctx, "mallory", "Eve")
		req.Equal(http.StatusNotFound, errors.StatusOf(err))
	})

	t.Run("unread", func(t *testing.T) {
		req := require.New(t)
		store, seed := setup(t)

		unread, err := store.UpdateUnreadMessage(ctx, domain.IncrementUnread, "bob", seed.General)
		req.NoError(err)
		req.Equal(1, unread)
		unread, err = store.UpdateUnreadMessage(ctx, domain.IncrementUnread, "bob", seed.General)
		req.NoError(err)
		req.Equal(2, unread)

		// Counters are per user and channel
		unread, err = store.UpdateUnreadMessage(ctx, domain.IncrementUnread, "bob", seed.Random)
		req.NoError(err)
		req.Equal(1, unread)

		unread, err = store.UpdateUnreadMessage(ctx, domain.ClearUnread, "bob", seed.General)
		req.NoError(err)
		req.Equal(0, unread)

		_, err = store.UpdateUnreadMessage(ctx, domain.UnreadFunc("drop_table"), "bob", seed.General)
		req.ErrorIs(err, errors.ErrInvalidUnread)
		req.Equal(http.StatusBadRequest, errors.StatusOf(err))
	})
}

func tokens(users []domain.User) []domain.Token {
	res := make([]domain.Token, 0, len(users))
	for _, user := range users {
		res = append(res, user.Token)
	}
	return res
}

func channelIDs(channels []domain.Channel) []domain.ChannelID {
	res := make([]domain.ChannelID, 0, len(channels))
	for _, channel := range channels {
		res = append(res, channel.ID)
	}
	return res
}
