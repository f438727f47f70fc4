// Package memory is a process-local store. It backs tests and the
// "memory" driver; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type unreadKey struct {
	token     domain.Token
	channelID domain.ChannelID
}

type Store struct {
	mu       sync.RWMutex
	users    map[domain.Token]domain.User
	channels map[domain.ChannelID]domain.Channel
	members  map[domain.ChannelID]map[domain.Token]struct{}
	messages map[domain.ChannelID][]domain.Message
	unread   map[unreadKey]int
	lastID   domain.ChannelID
	closed   bool
}

func New() *Store {
	return &Store{
		users:    make(map[domain.Token]domain.User),
		channels: make(map[domain.ChannelID]domain.Channel),
		members:  make(map[domain.ChannelID]map[domain.Token]struct{}),
		messages: make(map[domain.ChannelID][]domain.Message),
		unread:   make(map[unreadKey]int),
	}
}

func (s *Store) ReadUser(_ context.Context, token domain.Token) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.User{}, errors.Internal("readUser", errors.ErrStoreClosed)
	}
	user, ok := s.users[token]
	if !ok {
		return domain.User{}, errors.NotFound("readUser", "user %q", token)
	}
	return user, nil
}

func (s *Store) ReadAllUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllUsers", errors.ErrStoreClosed)
	}
	return sortedUsers(lo.Values(s.users)), nil
}

func (s *Store) ReadAllUsersInChannel(_ context.Context, channelID domain.ChannelID) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllUsersInChannel", errors.ErrStoreClosed)
	}
	members, ok := s.members[channelID]
	if !ok {
		return nil, errors.NotFound("readAllUsersInChannel", "channel %d", channelID)
	}
	users := lo.Map(lo.Keys(members), func(token domain.Token, _ int) domain.User {
		return s.users[token]
	})
	return sortedUsers(users), nil
}

func (s *Store) ReadAllChannels(_ context.Context) ([]domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllChannels", errors.ErrStoreClosed)
	}
	return sortedChannels(lo.Values(s.channels)), nil
}

func (s *Store) ReadAllChannelsForUser(_ context.Context, token domain.Token) ([]domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllChannelsForUser", errors.ErrStoreClosed)
	}
	if _, ok := s.users[token]; !ok {
		return nil, errors.NotFound("readAllChannelsForUser", "user %q", token)
	}
	channels := lo.Filter(lo.Values(s.channels), func(channel domain.Channel, _ int) bool {
		_, ok := s.members[channel.ID][token]
		return ok
	})
	return sortedChannels(channels), nil
}

func (s *Store) ReadAllChannelsUsers(_ context.Context) ([]domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllChannelsUsers", errors.ErrStoreClosed)
	}
	var memberships []domain.Membership
	for channelID, members := range s.members {
		for token := range members {
			memberships = append(memberships, domain.Membership{ChannelID: channelID, Token: token})
		}
	}
	sort.Slice(memberships, func(i, j int) bool {
		if memberships[i].ChannelID != memberships[j].ChannelID {
			return memberships[i].ChannelID < memberships[j].ChannelID
		}
		return memberships[i].Token < memberships[j].Token
	})
	return memberships, nil
}

func (s *Store) ReadAllMessagesInChannel(_ context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Internal("readAllMessagesInChannel", errors.ErrStoreClosed)
	}
	if _, ok := s.channels[channelID]; !ok {
		return nil, errors.NotFound("readAllMessagesInChannel", "channel %d", channelID)
	}
	return lo.Map(s.messages[channelID], func(message domain.Message, _ int) domain.Message {
		message.AuthorName = s.users[message.Author].DisplayName
		return message
	}), nil
}

func (s *Store) InsertMessage(_ context.Context, body string, token domain.Token, timestamp string, channelID domain.ChannelID) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Message{}, errors.Internal("insertMessage", errors.ErrStoreClosed)
	}
	user, ok := s.users[token]
	if !ok {
		return domain.Message{}, errors.NotFound("insertMessage", "user %q", token)
	}
	if _, ok = s.channels[channelID]; !ok {
		return domain.Message{}, errors.NotFound("insertMessage", "channel %d", channelID)
	}
	message := domain.Message{
		ID:        uuid.NewString(),
		Body:      body,
		Author:    token,
		Timestamp: timestamp,
		ChannelID: channelID,
	}
	s.messages[channelID] = append(s.messages[channelID], message)
	message.AuthorName = user.DisplayName
	return message, nil
}

func (s *Store) AddUsers(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Internal("addUsers", errors.ErrStoreClosed)
	}
	if _, ok := s.users[user.Token]; ok {
		return errors.Conflict("addUsers", "user %q", user.Token)
	}
	s.users[user.Token] = user
	return nil
}

func (s *Store) AddChannels(_ context.Context, name, description string, private bool) (domain.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Channel{}, errors.Internal("addChannels", errors.ErrStoreClosed)
	}
	s.lastID++
	channel := domain.Channel{
		ID:          s.lastID,
		Name:        name,
		Description: description,
		Private:     private,
		CreatedAt:   time.Now().UTC(),
	}
	s.channels[channel.ID] = channel
	s.members[channel.ID] = make(map[domain.Token]struct{})
	return channel, nil
}

func (s *Store) AddChannelsUsers(_ context.Context, channelID domain.ChannelID, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Internal("addChannelsUsers", errors.ErrStoreClosed)
	}
	if _, ok := s.channels[channelID]; !ok {
		return errors.NotFound("addChannelsUsers", "channel %d", channelID)
	}
	if _, ok := s.users[token]; !ok {
		return errors.NotFound("addChannelsUsers", "user %q", token)
	}
	if _, ok := s.members[channelID][token]; ok {
		return errors.Conflict("addChannelsUsers", "user %q in channel %d", token, channelID)
	}
	s.members[channelID][token] = struct{}{}
	return nil
}

func (s *Store) RemoveChannelsUsers(_ context.Context, channelID domain.ChannelID, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Internal("removeChannelsUsers", errors.ErrStoreClosed)
	}
	if _, ok := s.members[channelID][token]; !ok {
		return errors.NotFound("removeChannelsUsers", "user %q in channel %d", token, channelID)
	}
	delete(s.members[channelID], token)
	return nil
}

func (s *Store) UpdateUserDisplayName(_ context.Context, token domain.Token, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Internal("updateUserDisplayName", errors.ErrStoreClosed)
	}
	user, ok := s.users[token]
	if !ok {
		return errors.NotFound("updateUserDisplayName", "user %q", token)
	}
	user.DisplayName = displayName
	s.users[token] = user
	return nil
}

func (s *Store) UpdateUnreadMessage(_ context.Context, fn domain.UnreadFunc, token domain.Token, channelID domain.ChannelID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.Internal("updateUnreadMessage", errors.ErrStoreClosed)
	}
	if !fn.IsValid() {
		return 0, errors.InvalidArgument("updateUnreadMessage", errors.ErrInvalidUnread, "%q", fn)
	}
	if _, ok := s.users[token]; !ok {
		return 0, errors.NotFound("updateUnreadMessage", "user %q", token)
	}
	if _, ok := s.channels[channelID]; !ok {
		return 0, errors.NotFound("updateUnreadMessage", "channel %d", channelID)
	}
	key := unreadKey{token: token, channelID: channelID}
	switch fn {
	case domain.IncrementUnread:
		s.unread[key]++
	case domain.ClearUnread:
		s.unread[key] = 0
	}
	return s.unread[key], nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sortedUsers(users []domain.User) []domain.User {
	sort.Slice(users, func(i, j int) bool { return users[i].Token < users[j].Token })
	return users
}

func sortedChannels(channels []domain.Channel) []domain.Channel {
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	return channels
}
