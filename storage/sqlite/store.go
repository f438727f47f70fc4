// Package sqlite is the relational store adapter, backed by the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/storage/sqlite/migrations"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type Store struct {
	db *sql.DB
}

// Open opens the database file at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ReadUser(ctx context.Context, token domain.Token) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name FROM users WHERE id = ?`, string(token),
	).Scan(&user.Token, &user.DisplayName)
	if stderrors.Is(err, sql.ErrNoRows) {
		return domain.User{}, errors.NotFound("readUser", "user %q", token)
	}
	if err != nil {
		return domain.User{}, errors.Internal("readUser", err)
	}
	return user, nil
}

func (s *Store) ReadAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, display_name FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Internal("readAllUsers", err)
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, errors.Internal("readAllUsers", err)
	}
	return users, nil
}

func (s *Store) ReadAllUsersInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.User, error) {
	if err := s.requireChannel(ctx, "readAllUsersInChannel", channelID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.display_name
		   FROM channels_users cu
		   JOIN users u ON u.id = cu.user_id
		  WHERE cu.channel_id = ?
		  ORDER BY u.id`, int64(channelID))
	if err != nil {
		return nil, errors.Internal("readAllUsersInChannel", err)
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, errors.Internal("readAllUsersInChannel", err)
	}
	return users, nil
}

func (s *Store) ReadAllChannels(ctx context.Context) ([]domain.Channel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, private, created_at FROM channels ORDER BY id`)
	if err != nil {
		return nil, errors.Internal("readAllChannels", err)
	}
	channels, err := scanChannels(rows)
	if err != nil {
		return nil, errors.Internal("readAllChannels", err)
	}
	return channels, nil
}

func (s *Store) ReadAllChannelsForUser(ctx context.Context, token domain.Token) ([]domain.Channel, error) {
	if _, err := s.ReadUser(ctx, token); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.private, c.created_at
		   FROM channels_users cu
		   JOIN channels c ON c.id = cu.channel_id
		  WHERE cu.user_id = ?
		  ORDER BY c.id`, string(token))
	if err != nil {
		return nil, errors.Internal("readAllChannelsForUser", err)
	}
	channels, err := scanChannels(rows)
	if err != nil {
		return nil, errors.Internal("readAllChannelsForUser", err)
	}
	return channels, nil
}

func (s *Store) ReadAllChannelsUsers(ctx context.Context) ([]domain.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel_id, user_id FROM channels_users ORDER BY channel_id, user_id`)
	if err != nil {
		return nil, errors.Internal("readAllChannelsUsers", err)
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ChannelID, &m.Token); err != nil {
			return nil, errors.Internal("readAllChannelsUsers", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("readAllChannelsUsers", err)
	}
	return memberships, nil
}

func (s *Store) ReadAllMessagesInChannel(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	if err := s.requireChannel(ctx, "readAllMessagesInChannel", channelID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.body, m.user_id, u.display_name, m.created_at, cm.channel_id
		   FROM channels_messages cm
		   JOIN messages m ON m.id = cm.message_id
		   JOIN users u ON u.id = m.user_id
		  WHERE cm.channel_id = ?
		  ORDER BY m.created_at, m.rowid`, int64(channelID))
	if err != nil {
		return nil, errors.Internal("readAllMessagesInChannel", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Body, &m.Author, &m.AuthorName, &m.Timestamp, &m.ChannelID); err != nil {
			return nil, errors.Internal("readAllMessagesInChannel", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("readAllMessagesInChannel", err)
	}
	return messages, nil
}

// InsertMessage stores the message and its channel association in one
// transaction.
func (s *Store) InsertMessage(ctx context.Context, body string, token domain.Token, timestamp string, channelID domain.ChannelID) (domain.Message, error) {
	const op = "insertMessage"
	user, err := s.ReadUser(ctx, token)
	if err != nil {
		return domain.Message{}, err
	}
	message := domain.Message{
		ID:         uuid.NewString(),
		Body:       body,
		Author:     token,
		AuthorName: user.DisplayName,
		Timestamp:  timestamp,
		ChannelID:  channelID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Message{}, errors.Internal(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, body, user_id, created_at) VALUES (?, ?, ?, ?)`,
		message.ID, body, string(token), timestamp,
	); err != nil {
		return domain.Message{}, mapConstraint(op, err, "user %q", token)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO channels_messages (channel_id, message_id) VALUES (?, ?)`,
		int64(channelID), message.ID,
	); err != nil {
		return domain.Message{}, mapConstraint(op, err, "channel %d", channelID)
	}
	if err = tx.Commit(); err != nil {
		return domain.Message{}, errors.Internal(op, err)
	}
	return message, nil
}

func (s *Store) AddUsers(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name) VALUES (?, ?)`, string(user.Token), user.DisplayName)
	if err != nil {
		return mapConstraint("addUsers", err, "user %q", user.Token)
	}
	return nil
}

func (s *Store) AddChannels(ctx context.Context, name, description string, private bool) (domain.Channel, error) {
	channel := domain.Channel{
		Name:        name,
		Description: description,
		Private:     private,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO channels (name, description, private, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		name, description, private, channel.CreatedAt.UnixMilli(),
	).Scan(&channel.ID)
	if err != nil {
		return domain.Channel{}, errors.Internal("addChannels", err)
	}
	return channel, nil
}

func (s *Store) AddChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO channels_users (channel_id, user_id) VALUES (?, ?)`, int64(channelID), string(token))
	if err != nil {
		return mapConstraint("addChannelsUsers", err, "user %q in channel %d", token, channelID)
	}
	return nil
}

func (s *Store) RemoveChannelsUsers(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	const op = "removeChannelsUsers"
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM channels_users WHERE channel_id = ? AND user_id = ?`, int64(channelID), string(token))
	if err != nil {
		return errors.Internal(op, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Internal(op, err)
	} else if n == 0 {
		return errors.NotFound(op, "user %q in channel %d", token, channelID)
	}
	return nil
}

func (s *Store) UpdateUserDisplayName(ctx context.Context, token domain.Token, displayName string) error {
	const op = "updateUserDisplayName"
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE id = ?`, displayName, string(token))
	if err != nil {
		return errors.Internal(op, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Internal(op, err)
	} else if n == 0 {
		return errors.NotFound(op, "user %q", token)
	}
	return nil
}

var unreadQueries = map[domain.UnreadFunc]string{
	domain.IncrementUnread: `INSERT INTO unread_messages (user_id, channel_id, unread) VALUES (?, ?, 1)
		ON CONFLICT (user_id, channel_id) DO UPDATE SET unread = unread + 1
		RETURNING unread`,
	domain.ClearUnread: `INSERT INTO unread_messages (user_id, channel_id, unread) VALUES (?, ?, 0)
		ON CONFLICT (user_id, channel_id) DO UPDATE SET unread = 0
		RETURNING unread`,
}

func (s *Store) UpdateUnreadMessage(ctx context.Context, fn domain.UnreadFunc, token domain.Token, channelID domain.ChannelID) (int, error) {
	const op = "updateUnreadMessage"
	query, ok := unreadQueries[fn]
	if !ok {
		return 0, errors.InvalidArgument(op, errors.ErrInvalidUnread, "%q", fn)
	}
	var unread int
	if err := s.db.QueryRowContext(ctx, query, string(token), int64(channelID)).Scan(&unread); err != nil {
		return 0, mapConstraint(op, err, "user %q or channel %d", token, channelID)
	}
	return unread, nil
}

func (s *Store) requireChannel(ctx context.Context, op string, channelID domain.ChannelID) error {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM channels WHERE id = ?`, int64(channelID)).Scan(&found)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(op, "channel %d", channelID)
	}
	if err != nil {
		return errors.Internal(op, err)
	}
	return nil
}

// mapConstraint turns constraint violations into the matching store error:
// a duplicate key is a conflict, a dangling reference is a missing entity.
func mapConstraint(op string, err error, format string, args ...any) error {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return errors.Conflict(op, format, args...)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.NotFound(op, format, args...)
		}
	}
	return errors.Internal(op, err)
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Token, &user.DisplayName); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanChannels(rows *sql.Rows) ([]domain.Channel, error) {
	defer rows.Close()
	var channels []domain.Channel
	for rows.Next() {
		var (
			channel   domain.Channel
			createdAt int64
		)
		if err := rows.Scan(&channel.ID, &channel.Name, &channel.Description, &channel.Private, &createdAt); err != nil {
			return nil, err
		}
		channel.CreatedAt = time.UnixMilli(createdAt).UTC()
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}
