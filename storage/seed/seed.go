// Package seed loads users, channels and memberships from a yaml file
// into a store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Channel struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Private     bool           `yaml:"private"`
	Members     []domain.Token `yaml:"members"`
}

type File struct {
	Users    []domain.User `yaml:"users"`
	Channels []Channel     `yaml:"channels"`
}

// Report counts what Apply created. Entries already present are skipped.
type Report struct {
	Users       int
	Channels    int
	Memberships int
}

func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	for i, user := range file.Users {
		if user.Token.IsEmpty() {
			return File{}, fmt.Errorf("seed user #%d has no id", i+1)
		}
		if user.DisplayName == "" {
			file.Users[i].DisplayName = user.Token.String()
		}
	}
	for i, channel := range file.Channels {
		if channel.Name == "" {
			return File{}, fmt.Errorf("seed channel #%d has no name", i+1)
		}
	}
	return file, nil
}

// Apply creates what the file describes. Applying the same file twice is a
// no-op: users are matched by id, channels by name.
func Apply(ctx context.Context, store contract.Store, file File, log *slog.Logger) (Report, error) {
	var report Report
	for _, user := range file.Users {
		err := store.AddUsers(ctx, user)
		switch {
		case err == nil:
			report.Users++
		case errors.StatusOf(err) == http.StatusConflict:
			log.Debug("User already seeded", "user", user.Token)
		default:
			return report, fmt.Errorf("seed user %s: %w", user.Token, err)
		}
	}

	existing, err := store.ReadAllChannels(ctx)
	if err != nil {
		return report, fmt.Errorf("seed channels: %w", err)
	}
	byName := lo.KeyBy(existing, func(channel domain.Channel) string { return channel.Name })

	for _, c := range file.Channels {
		channel, ok := byName[c.Name]
		if !ok {
			if channel, err = store.AddChannels(ctx, c.Name, c.Description, c.Private); err != nil {
				return report, fmt.Errorf("seed channel %s: %w", c.Name, err)
			}
			byName[c.Name] = channel
			report.Channels++
		}
		for _, token := range c.Members {
			err := store.AddChannelsUsers(ctx, channel.ID, token)
			switch {
			case err == nil:
				report.Memberships++
			case errors.StatusOf(err) == http.StatusConflict:
			default:
				return report, fmt.Errorf("seed member %s of %s: %w", token, c.Name, err)
			}
		}
	}
	log.Info("Seed applied", "users", report.Users, "channels", report.Channels, "memberships", report.Memberships)
	return report, nil
}
