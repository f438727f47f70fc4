package runtime

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/validation"

	"github.com/stretchr/testify/require"
)

const sentAt = "2024-11-01T06:25:51.182Z"

func chat(body string, channelID domain.ChannelID) event.Chat {
	return event.Chat{Payload: []byte(fmt.Sprintf(`{"body":%q,"timestamp":%q,"channel_id":%d}`, body, sentAt, channelID))}
}

func status(s string) event.StatusUpdate {
	return event.StatusUpdate{Payload: []byte(fmt.Sprintf(`{"status":%q}`, s))}
}

func TestOrchestrator_Authenticate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, recorder, _ := newTestOrchestrator(t)

	req.ErrorIs(orchestrator.Authenticate(ctx, ""), errors.ErrAuthMissing)
	req.ErrorIs(orchestrator.Authenticate(ctx, "   "), errors.ErrAuthMissing)
	req.ErrorIs(orchestrator.Authenticate(ctx, "mallory"), errors.ErrAuthUnknown)

	// A user loaded at boot is admitted without any store call
	recorder.Reset()
	req.NoError(orchestrator.Authenticate(ctx, "alice"))
	req.Empty(recorder.Calls())
}

func TestOrchestrator_Authenticate_RehydratesUnseenUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, recorder, seed := newTestOrchestrator(t)

	// Given a user created after boot
	req.NoError(recorder.Store.AddUsers(ctx, domain.User{Token: "dave", DisplayName: "Dave"}))
	req.NoError(recorder.Store.AddChannelsUsers(ctx, seed.Random, "dave"))
	req.False(orchestrator.cache.Knows("dave"))

	// When dave connects
	req.NoError(orchestrator.Authenticate(ctx, "dave"))

	// Then his record and channels were fetched and merged
	req.Equal([]string{"ReadUser", "ReadAllChannelsForUser"}, recorder.Calls())
	req.Equal("Dave", orchestrator.cache.DisplayName("dave"))
	req.True(orchestrator.cache.IsMember(seed.Random, "dave"))
	req.True(orchestrator.cache.IsMember(seed.Random, "bob"))
}

func TestOrchestrator_Authenticate_StoreFailure(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, _ := newTestOrchestrator(t)
	recorder.FailOn("ReadUser", errors.Internal("readUser", fmt.Errorf("connection refused")))

	err := orchestrator.Authenticate(context.Background(), "dave")

	req.ErrorIs(err, errors.ErrAuthUnknown)
	req.False(orchestrator.cache.Knows("dave"))
}

func TestOrchestrator_Connect_SnapshotIncludesSelf(t *testing.T) {
	req := require.New(t)
	orchestrator, _, _ := newTestOrchestrator(t)

	// Given alice is online
	alice := connect(t, orchestrator, "alice")

	// When bob connects
	bob := newSession("bob")
	orchestrator.Connect(context.Background(), bob)

	// Then bob sees his own Online status, then the snapshot
	req.Equal([]event.Outbound{
		event.StatusChanged{User: "Bob", Status: domain.Online},
		event.NewConnected([]domain.UserStatus{
			{User: "Alice", Status: domain.Online},
			{User: "Bob", Status: domain.Online},
		}),
	}, bob.received())

	// And alice is told once
	req.Equal([]event.Outbound{event.StatusChanged{User: "Bob", Status: domain.Online}}, alice.received())
	req.Equal(2, orchestrator.registry.Len())
}

func TestOrchestrator_Disconnect_BroadcastsOfflineOnce(t *testing.T) {
	req := require.New(t)
	orchestrator, _, _ := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	carol := connect(t, orchestrator, "carol")
	bob.reset()
	alice.reset()

	// When alice leaves
	orchestrator.Disconnect(alice)

	// Then every other session hears it exactly once
	offline := []event.Outbound{event.StatusChanged{User: "Alice", Status: domain.Offline}}
	req.Equal(offline, bob.received())
	req.Equal(offline, carol.received())

	_, ok := orchestrator.registry.Lookup("alice")
	req.False(ok)
	current, ok := orchestrator.Presence("alice")
	req.True(ok)
	req.Equal(domain.Offline, current)

	// And a later snapshot still lists her, once
	later := newSession("carol")
	orchestrator.Connect(context.Background(), later)
	connected := later.named(event.ConnectedName)
	req.Len(connected, 1)
	req.Equal([]domain.UserStatus{
		{User: "Alice", Status: domain.Offline},
		{User: "Bob", Status: domain.Online},
		{User: "Carol", Status: domain.Online},
	}, connected[0].(event.Connected).UserStatus)
}

func TestOrchestrator_Disconnect_StaleSessionIsNoop(t *testing.T) {
	req := require.New(t)
	orchestrator, _, _ := newTestOrchestrator(t)
	bob := connect(t, orchestrator, "bob")
	first := connect(t, orchestrator, "alice")

	// Given alice reconnected from another device
	second := connect(t, orchestrator, "alice")
	bob.reset()

	// When the replaced session closes
	orchestrator.Disconnect(first)

	// Then nobody is told and the newer session stays registered
	req.Empty(bob.received())
	current, ok := orchestrator.registry.Lookup("alice")
	req.True(ok)
	req.Same(second, current)

	// When the current one closes, alice goes offline
	orchestrator.Disconnect(second)
	req.Equal([]event.Outbound{event.StatusChanged{User: "Alice", Status: domain.Offline}}, bob.received())
}

func TestOrchestrator_ReconnectRacingDisconnect_StaysOnline(t *testing.T) {
	req := require.New(t)
	orchestrator, _, _ := newTestOrchestrator(t)
	current := connect(t, orchestrator, "alice")

	for range 200 {
		// Given alice reconnects while her previous socket is closing
		next := newSession("alice")
		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func(closing *session) {
			defer wg.Done()
			<-start
			orchestrator.Disconnect(closing)
		}(current)
		go func() {
			defer wg.Done()
			<-start
			orchestrator.Connect(context.Background(), next)
		}()
		close(start)
		wg.Wait()

		// Then whatever the order, the newer session is registered and online
		registered, ok := orchestrator.registry.Lookup("alice")
		req.True(ok)
		req.Same(next, registered)
		status, _ := orchestrator.Presence("alice")
		req.Equal(domain.Online, status)
		current = next
	}
	req.Equal(1, orchestrator.Sessions())
}

func TestOrchestrator_Chat_ValidationErrorGoesToSenderOnly(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	alice.reset()

	// When alice sends a chat without body
	payload := fmt.Sprintf(`{"timestamp":%q,"channel_id":%d}`, sentAt, seed.General)
	orchestrator.Dispatch(context.Background(), alice, event.Chat{Payload: []byte(payload)})

	// Then she alone gets one error, and nothing was written
	req.Equal([]event.Outbound{event.Error(`Chat message missing "body" property`)}, alice.received())
	req.Empty(bob.received())
	req.Empty(recorder.Calls())
}

func TestOrchestrator_Chat_NotAMember(t *testing.T) {
	req := require.New(t)
	orchestrator, _, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	alice.reset()

	orchestrator.Dispatch(context.Background(), alice, chat("Hello", seed.Random))

	want := fmt.Sprintf(`Chat message user is not a member of the chat with "channel_id" value "%d"`, seed.Random)
	req.Equal([]event.Outbound{event.Error(want)}, alice.received())
	req.Empty(bob.received())
}

func TestOrchestrator_Chat_ReachesConnectedMembersOnce(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	carol := connect(t, orchestrator, "carol")
	alice.reset()
	bob.reset()

	// Given delivery must happen before the store is asked to persist
	recorder.Before("InsertMessage", func() {
		req.Len(bob.named(event.ChatName), 1)
	})

	// When alice talks in general
	orchestrator.Dispatch(context.Background(), alice, chat("Hello", seed.General))

	// Then both members get the message with alice's name, carol gets nothing
	for _, s := range []*session{alice, bob} {
		chats := s.named(event.ChatName)
		req.Len(chats, 1)
		req.JSONEq(fmt.Sprintf(`{"body":"Hello","timestamp":%q,"channel_id":%d,"user":"Alice"}`, sentAt, seed.General),
			string(chats[0].(event.ChatDelivered).Payload))
		req.Equal([]event.Outbound{event.Notification{ChannelID: seed.General, Unread: 1}}, s.named(event.NotificationsName))
	}
	req.Empty(carol.received())

	// And the message was persisted before both counters
	req.Equal([]string{"InsertMessage", "UpdateUnreadMessage", "UpdateUnreadMessage"}, recorder.Calls())
}

func TestOrchestrator_Chat_UnreadCountedForOfflineMembers(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")

	// When alice talks while bob is away
	orchestrator.Dispatch(ctx, alice, chat("Hello", seed.General))

	// Then bob's counter moved anyway
	unread, err := recorder.Store.UpdateUnreadMessage(ctx, domain.IncrementUnread, "bob", seed.General)
	req.NoError(err)
	req.Equal(2, unread)
}

func TestOrchestrator_Chat_IdenticalPayloadsAreNotDeduplicated(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	bob.reset()

	orchestrator.Dispatch(ctx, alice, chat("Hello", seed.General))
	orchestrator.Dispatch(ctx, alice, chat("Hello", seed.General))

	req.Len(bob.named(event.ChatName), 2)
	req.Equal([]event.Outbound{
		event.Notification{ChannelID: seed.General, Unread: 1},
		event.Notification{ChannelID: seed.General, Unread: 2},
	}, bob.named(event.NotificationsName))

	messages, err := recorder.Store.ReadAllMessagesInChannel(ctx, seed.General)
	req.NoError(err)
	req.Len(messages, 2)
	req.NotEqual(messages[0].ID, messages[1].ID)
}

func TestOrchestrator_Chat_PersistenceFailureIsReportedToSender(t *testing.T) {
	req := require.New(t)
	orchestrator, recorder, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	alice.reset()
	bob.reset()
	recorder.FailOn("InsertMessage", errors.Internal("insertMessage", fmt.Errorf("connection refused")))

	orchestrator.Dispatch(context.Background(), alice, chat("Hello", seed.General))

	// Then the delivered message stays delivered
	req.Len(bob.named(event.ChatName), 1)
	req.Empty(bob.named(event.ErrorName))
	req.Empty(bob.named(event.NotificationsName))

	// And only alice learns it was not saved
	req.Len(alice.named(event.ChatName), 1)
	req.Equal([]event.Outbound{event.Error("Chat message failed to save")}, alice.named(event.ErrorName))
	req.Equal([]string{"InsertMessage"}, recorder.Calls())
}

func TestOrchestrator_Chat_NameResolvedAtDelivery(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, _, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")

	req.NoError(orchestrator.Synchronizer().RenameUser(ctx, "bob", "Bobby"))
	alice.reset()

	orchestrator.Dispatch(ctx, bob, chat("Hi", seed.General))

	chats := alice.named(event.ChatName)
	req.Len(chats, 1)
	req.Contains(string(chats[0].(event.ChatDelivered).Payload), `"user":"Bobby"`)
}

func TestFanout_ZeroMemberChannel(t *testing.T) {
	req := require.New(t)
	orchestrator, _, seed := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")

	// When a message is routed to a channel nobody belongs to
	delivered := orchestrator.fanout.Route(context.Background(), alice, chat("Hello", seed.Empty).Payload,
		validation.ChatMessage{Body: "Hello", Timestamp: sentAt, ChannelID: seed.Empty})

	// Then nothing is delivered and no error is raised
	req.Zero(delivered)
	req.Empty(alice.received())
}

func TestOrchestrator_Status(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	orchestrator, _, _ := newTestOrchestrator(t)
	alice := connect(t, orchestrator, "alice")
	bob := connect(t, orchestrator, "bob")
	bob.reset()

	orchestrator.Dispatch(ctx, alice, status("Away"))
	req.Equal([]event.Outbound{event.StatusChanged{User: "Alice", Status: domain.Away}}, bob.received())

	// Clients cannot claim Offline, nor invent statuses
	bob.reset()
	orchestrator.Dispatch(ctx, alice, status("Offline"))
	orchestrator.Dispatch(ctx, alice, status("Busy"))
	req.Empty(bob.received())

	current, _ := orchestrator.Presence("alice")
	req.Equal(domain.Away, current)
}
