package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/samber/lo"
)

type Set map[domain.Token]struct{}

// Cache holds display names and channel membership for the whole process.
// The store stays the source of truth: the cache is loaded at boot and
// patched only after the store accepted a mutation.
// Nothing is ever evicted.
type Cache struct {
	mu      sync.RWMutex
	log     *slog.Logger
	names   map[domain.Token]string  // map token -> display name
	members map[domain.ChannelID]Set // map channel to member tokens
}

func NewCache(log *slog.Logger) *Cache {
	return &Cache{
		log:     log,
		names:   make(map[domain.Token]string),
		members: make(map[domain.ChannelID]Set),
	}
}

// Boot reads every user, channel and membership and replaces the cache
// content. Channels without members get an empty set.
func (c *Cache) Boot(ctx context.Context, store contract.Store) error {
	users, err := store.ReadAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("boot: read users: %w", err)
	}
	channels, err := store.ReadAllChannels(ctx)
	if err != nil {
		return fmt.Errorf("boot: read channels: %w", err)
	}
	memberships, err := store.ReadAllChannelsUsers(ctx)
	if err != nil {
		return fmt.Errorf("boot: read memberships: %w", err)
	}

	names := make(map[domain.Token]string, len(users))
	for _, user := range users {
		names[user.Token] = user.DisplayName
	}
	members := make(map[domain.ChannelID]Set, len(channels))
	for _, channel := range channels {
		members[channel.ID] = make(Set)
	}
	for _, m := range memberships {
		set, ok := members[m.ChannelID]
		if !ok {
			set = make(Set)
			members[m.ChannelID] = set
		}
		set[m.Token] = struct{}{}
	}

	c.mu.Lock()
	c.names = names
	c.members = members
	c.mu.Unlock()

	c.log.Info("Cache loaded", "users", len(names), "channels", len(members), "memberships", len(memberships))
	return nil
}

// Rehydrate fetches a token unknown to the cache and merges its name and
// channels. A token the store does not know yields errors.ErrAuthUnknown.
func (c *Cache) Rehydrate(ctx context.Context, store contract.Store, token domain.Token) error {
	user, err := store.ReadUser(ctx, token)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.ErrAuthUnknown
		}
		return fmt.Errorf("rehydrate user: %w", err)
	}
	channels, err := store.ReadAllChannelsForUser(ctx, token)
	if err != nil {
		return fmt.Errorf("rehydrate channels: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[user.Token] = user.DisplayName
	for _, channel := range channels {
		c.addMemberLocked(channel.ID, user.Token)
	}
	c.log.Debug("User rehydrated", "user", token, "channels", len(channels))
	return nil
}

func (c *Cache) Knows(token domain.Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[token]
	return ok
}

// DisplayName falls back to the token for users the cache does not know.
func (c *Cache) DisplayName(token domain.Token) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if name, ok := c.names[token]; ok {
		return name
	}
	return token.String()
}

// SetName stores the new display name and returns the one it replaced.
func (c *Cache) SetName(token domain.Token, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous, ok := c.names[token]
	if !ok {
		previous = token.String()
	}
	c.names[token] = name
	return previous
}

func (c *Cache) HasChannel(channelID domain.ChannelID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.members[channelID]
	return ok
}

func (c *Cache) IsMember(channelID domain.ChannelID, token domain.Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.members[channelID][token]
	return ok
}

// Members returns a snapshot of the member tokens of a channel.
func (c *Cache) Members(channelID domain.ChannelID) []domain.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Keys(c.members[channelID])
}

// AddChannel inserts an empty member set, keeping an existing one.
func (c *Cache) AddChannel(channelID domain.ChannelID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.members[channelID]; !ok {
		c.members[channelID] = make(Set)
	}
}

func (c *Cache) AddMember(channelID domain.ChannelID, token domain.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addMemberLocked(channelID, token)
}

// RemoveMember keeps the channel entry even when its last member leaves.
func (c *Cache) RemoveMember(channelID domain.ChannelID, token domain.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.members[channelID], token)
}

// Stats returns the number of known users and channels.
func (c *Cache) Stats() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names), len(c.members)
}

func (c *Cache) addMemberLocked(channelID domain.ChannelID, token domain.Token) {
	set, ok := c.members[channelID]
	if !ok {
		set = make(Set)
		c.members[channelID] = set
	}
	set[token] = struct{}{}
}
