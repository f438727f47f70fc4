package services

import (
	"context"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/validation"
)

type IUserService interface {
	Channels(ctx context.Context, token domain.Token) ([]domain.Channel, error)
	Rename(ctx context.Context, token domain.Token, req validation.RenameUserRequest) error
	MarkRead(ctx context.Context, token domain.Token, channelID domain.ChannelID) (int, error)
}

type UserService struct {
	store   contract.Store
	mutator contract.IMutator
}

func NewUserService(store contract.Store, mutator contract.IMutator) IUserService {
	return &UserService{store: store, mutator: mutator}
}

func (s *UserService) Channels(ctx context.Context, token domain.Token) ([]domain.Channel, error) {
	return s.store.ReadAllChannelsForUser(ctx, token)
}

// Rename takes the new name from the request only.
func (s *UserService) Rename(ctx context.Context, token domain.Token, req validation.RenameUserRequest) error {
	if err := validation.ValidateRequest(&req); err != nil {
		return err
	}
	return s.mutator.RenameUser(ctx, token, req.DisplayName)
}

// MarkRead clears the unread counter and returns its new value.
func (s *UserService) MarkRead(ctx context.Context, token domain.Token, channelID domain.ChannelID) (int, error) {
	return s.mutator.ClearUnread(ctx, token, channelID)
}
