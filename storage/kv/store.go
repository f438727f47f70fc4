// Package kv is the embedded key-value store adapter, backed by badger.
//
// Key layout, every id zero padded to 19 digits so that prefix scans come
// back in numeric order:
//
//	user:{token}                       -> User
//	channel:{id}                       -> Channel
//	member:{channel}:{token}           -> empty
//	member-of:{token}:{channel}        -> empty
//	msg:{channel}:{unix nano}:{uuid}   -> Message
//	unread:{token}:{channel}           -> counter
package kv

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	userPrefix     = "user:"
	channelPrefix  = "channel:"
	memberPrefix   = "member:"
	memberOfPrefix = "member-of:"
	messagePrefix  = "msg:"
	unreadPrefix   = "unread:"
	channelSeqKey  = "seq:channel"

	sequenceBandwidth = 16
	maxConflictRetry  = 5
)

type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// Open opens the badger directory at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return New(db, log)
}

// New wraps an already opened database. The store owns it from now on.
func New(db *badger.DB, log *slog.Logger) (*Store, error) {
	seq, err := db.GetSequence([]byte(channelSeqKey), sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("channel sequence: %w", err)
	}
	return &Store{db: db, seq: seq, log: log}, nil
}

func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.log.Warn("Cannot release channel sequence", "error", err)
	}
	return s.db.Close()
}

func userKey(token domain.Token) []byte {
	return []byte(userPrefix + token.String())
}

func channelKey(id domain.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%019d", channelPrefix, id))
}

func memberKey(id domain.ChannelID, token domain.Token) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", memberPrefix, id, token))
}

func memberOfKey(token domain.Token, id domain.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d", memberOfPrefix, token, id))
}

func messagePrefixFor(id domain.ChannelID) string {
	return fmt.Sprintf("%s%019d:", messagePrefix, id)
}

func unreadKey(token domain.Token, id domain.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d", unreadPrefix, token, id))
}

func (s *Store) ReadUser(_ context.Context, token domain.Token) (domain.User, error) {
	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(token), &user)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.NotFound("readUser", "user %q", token)
	}
	if err != nil {
		return domain.User{}, errors.Internal("readUser", err)
	}
	return user, nil
}

func (s *Store) ReadAllUsers(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, userPrefix, func(_ string, value []byte) error {
			var user domain.User
			if err := json.Unmarshal(value, &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Internal("readAllUsers", err)
	}
	return users, nil
}

func (s *Store) ReadAllUsersInChannel(_ context.Context, channelID domain.ChannelID) ([]domain.User, error) {
	const op = "readAllUsersInChannel"
	var users []domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, channelKey(channelID), "channel %d", channelID); err != nil {
			return err
		}
		prefix := fmt.Sprintf("%s%019d:", memberPrefix, channelID)
		return scanKeys(txn, prefix, func(rest string) error {
			var user domain.User
			if err := getJSON(txn, userKey(domain.Token(rest)), &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return users, nil
}

func (s *Store) ReadAllChannels(_ context.Context) ([]domain.Channel, error) {
	var channels []domain.Channel
	err := s.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, channelPrefix, func(_ string, value []byte) error {
			var channel domain.Channel
			if err := json.Unmarshal(value, &channel); err != nil {
				return err
			}
			channels = append(channels, channel)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Internal("readAllChannels", err)
	}
	return channels, nil
}

func (s *Store) ReadAllChannelsForUser(_ context.Context, token domain.Token) ([]domain.Channel, error) {
	const op = "readAllChannelsForUser"
	var channels []domain.Channel
	err := s.db.View(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, userKey(token), "user %q", token); err != nil {
			return err
		}
		return scanKeys(txn, memberOfPrefix+token.String()+":", func(rest string) error {
			id, ok := parsePaddedID(rest)
			if !ok {
				// Another token sharing this one as prefix
				return nil
			}
			var channel domain.Channel
			if err := getJSON(txn, channelKey(id), &channel); err != nil {
				return err
			}
			channels = append(channels, channel)
			return nil
		})
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return channels, nil
}

func (s *Store) ReadAllChannelsUsers(_ context.Context) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := s.db.View(func(txn *badger.Txn) error {
		return scanKeys(txn, memberPrefix, func(rest string) error {
			idPart, token, found := strings.Cut(rest, ":")
			id, ok := parsePaddedID(idPart)
			if !found || !ok {
				return fmt.Errorf("malformed membership key %q", rest)
			}
			memberships = append(memberships, domain.Membership{ChannelID: id, Token: domain.Token(token)})
			return nil
		})
	})
	if err != nil {
		return nil, errors.Internal("readAllChannelsUsers", err)
	}
	return memberships, nil
}

// ReadAllMessagesInChannel returns the channel history oldest first. The
// author name is the one the user carries now.
func (s *Store) ReadAllMessagesInChannel(_ context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	const op = "readAllMessagesInChannel"
	var messages []domain.Message
	err := s.db.View(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, channelKey(channelID), "channel %d", channelID); err != nil {
			return err
		}
		names := make(map[domain.Token]string)
		return scanJSON(txn, messagePrefixFor(channelID), func(_ string, value []byte) error {
			var message domain.Message
			if err := json.Unmarshal(value, &message); err != nil {
				return err
			}
			name, ok := names[message.Author]
			if !ok {
				var user domain.User
				if err := getJSON(txn, userKey(message.Author), &user); err == nil {
					name = user.DisplayName
				}
				names[message.Author] = name
			}
			message.AuthorName = name
			messages = append(messages, message)
			return nil
		})
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return messages, nil
}

// InsertMessage writes the message under its channel prefix, ordered by the
// caller-supplied timestamp. A timestamp that cannot be parsed sorts at the
// time of insertion.
func (s *Store) InsertMessage(_ context.Context, body string, token domain.Token, timestamp string, channelID domain.ChannelID) (domain.Message, error) {
	const op = "insertMessage"
	message := domain.Message{
		ID:        uuid.NewString(),
		Body:      body,
		Author:    token,
		Timestamp: timestamp,
		ChannelID: channelID,
	}
	at, ok := domain.ParseTimestamp(timestamp)
	if !ok {
		at = time.Now().UTC()
	}
	key := []byte(fmt.Sprintf("%s%019d:%s", messagePrefixFor(channelID), at.UnixNano(), message.ID))

	err := s.update(func(txn *badger.Txn) error {
		var user domain.User
		if err := getJSON(txn, userKey(token), &user); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.NotFound(op, "user %q", token)
			}
			return err
		}
		if err := requireKey(txn, op, channelKey(channelID), "channel %d", channelID); err != nil {
			return err
		}
		message.AuthorName = user.DisplayName
		return setJSON(txn, key, domain.Message{
			ID:        message.ID,
			Body:      message.Body,
			Author:    message.Author,
			Timestamp: message.Timestamp,
			ChannelID: message.ChannelID,
		})
	})
	if err != nil {
		return domain.Message{}, wrap(op, err)
	}
	return message, nil
}

func (s *Store) AddUsers(_ context.Context, user domain.User) error {
	const op = "addUsers"
	err := s.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(user.Token)); err == nil {
			return errors.Conflict(op, "user %q", user.Token)
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, userKey(user.Token), user)
	})
	return wrap(op, err)
}

func (s *Store) AddChannels(_ context.Context, name, description string, private bool) (domain.Channel, error) {
	const op = "addChannels"
	next, err := s.seq.Next()
	if err != nil {
		return domain.Channel{}, errors.Internal(op, err)
	}
	channel := domain.Channel{
		// Sequences start at zero, channel ids at one
		ID:          domain.ChannelID(next + 1),
		Name:        name,
		Description: description,
		Private:     private,
		CreatedAt:   time.Now().UTC(),
	}
	err = s.update(func(txn *badger.Txn) error {
		return setJSON(txn, channelKey(channel.ID), channel)
	})
	if err != nil {
		return domain.Channel{}, wrap(op, err)
	}
	return channel, nil
}

func (s *Store) AddChannelsUsers(_ context.Context, channelID domain.ChannelID, token domain.Token) error {
	const op = "addChannelsUsers"
	err := s.update(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, channelKey(channelID), "channel %d", channelID); err != nil {
			return err
		}
		if err := requireKey(txn, op, userKey(token), "user %q", token); err != nil {
			return err
		}
		if _, err := txn.Get(memberKey(channelID, token)); err == nil {
			return errors.Conflict(op, "user %q in channel %d", token, channelID)
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(memberKey(channelID, token), nil); err != nil {
			return err
		}
		return txn.Set(memberOfKey(token, channelID), nil)
	})
	return wrap(op, err)
}

func (s *Store) RemoveChannelsUsers(_ context.Context, channelID domain.ChannelID, token domain.Token) error {
	const op = "removeChannelsUsers"
	err := s.update(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, memberKey(channelID, token), "user %q in channel %d", token, channelID); err != nil {
			return err
		}
		if err := txn.Delete(memberKey(channelID, token)); err != nil {
			return err
		}
		return txn.Delete(memberOfKey(token, channelID))
	})
	return wrap(op, err)
}

func (s *Store) UpdateUserDisplayName(_ context.Context, token domain.Token, displayName string) error {
	const op = "updateUserDisplayName"
	err := s.update(func(txn *badger.Txn) error {
		var user domain.User
		if err := getJSON(txn, userKey(token), &user); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.NotFound(op, "user %q", token)
			}
			return err
		}
		user.DisplayName = displayName
		return setJSON(txn, userKey(token), user)
	})
	return wrap(op, err)
}

func (s *Store) UpdateUnreadMessage(_ context.Context, fn domain.UnreadFunc, token domain.Token, channelID domain.ChannelID) (int, error) {
	const op = "updateUnreadMessage"
	if !fn.IsValid() {
		return 0, errors.InvalidArgument(op, errors.ErrInvalidUnread, "%q", fn)
	}
	var unread int
	err := s.update(func(txn *badger.Txn) error {
		if err := requireKey(txn, op, userKey(token), "user %q", token); err != nil {
			return err
		}
		if err := requireKey(txn, op, channelKey(channelID), "channel %d", channelID); err != nil {
			return err
		}
		current := 0
		item, err := txn.Get(unreadKey(token, channelID))
		switch {
		case err == nil:
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if current, err = strconv.Atoi(string(raw)); err != nil {
				return err
			}
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		unread = 0
		if fn == domain.IncrementUnread {
			unread = current + 1
		}
		return txn.Set(unreadKey(token, channelID), []byte(strconv.Itoa(unread)))
	})
	if err != nil {
		return 0, wrap(op, err)
	}
	return unread, nil
}

// update retries fn when a concurrent transaction touched the same keys.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetry; attempt++ {
		err = s.db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debug("Badger transaction conflict, retrying", "attempt", attempt+1)
	}
	return err
}

// wrap keeps store errors raised inside a transaction and turns anything
// else into an internal error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *errors.StoreError
	if stderrors.As(err, &storeErr) {
		return err
	}
	return errors.Internal(op, err)
}

func requireKey(txn *badger.Txn, op string, key []byte, format string, args ...any) error {
	_, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.NotFound(op, format, args...)
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(value []byte) error {
		return json.Unmarshal(value, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, raw)
}

// scanJSON calls fn with every value stored under prefix, in key order.
func scanJSON(txn *badger.Txn, prefix string, fn func(key string, value []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		key := string(item.Key())
		if err := item.Value(func(value []byte) error {
			return fn(key, value)
		}); err != nil {
			return err
		}
	}
	return nil
}

// scanKeys calls fn with the part of every key following prefix.
func scanKeys(txn *badger.Txn, prefix string, fn func(rest string) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := fn(string(it.Item().Key()[len(p):])); err != nil {
			return err
		}
	}
	return nil
}

func parsePaddedID(s string) (domain.ChannelID, bool) {
	if len(s) != 19 {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return domain.ChannelID(id), true
}
