package services

import (
	"context"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/validation"
)

type IChannelService interface {
	Create(ctx context.Context, req validation.CreateChannelRequest) (domain.Channel, error)
	AddMember(ctx context.Context, channelID domain.ChannelID, req validation.AddMemberRequest) error
	RemoveMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error
	Members(ctx context.Context, channelID domain.ChannelID) ([]domain.User, error)
	Messages(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error)
}

// ChannelService reads go straight to the store, mutations go through the
// mutator so the cache follows.
type ChannelService struct {
	store   contract.Store
	mutator contract.IMutator
}

func NewChannelService(store contract.Store, mutator contract.IMutator) IChannelService {
	return &ChannelService{store: store, mutator: mutator}
}

func (s *ChannelService) Create(ctx context.Context, req validation.CreateChannelRequest) (domain.Channel, error) {
	if err := validation.ValidateRequest(&req); err != nil {
		return domain.Channel{}, err
	}
	return s.mutator.CreateChannel(ctx, req.Name, req.Description, req.Private)
}

func (s *ChannelService) AddMember(ctx context.Context, channelID domain.ChannelID, req validation.AddMemberRequest) error {
	if err := validation.ValidateRequest(&req); err != nil {
		return err
	}
	return s.mutator.AddMember(ctx, channelID, domain.Token(req.UserID))
}

func (s *ChannelService) RemoveMember(ctx context.Context, channelID domain.ChannelID, token domain.Token) error {
	return s.mutator.RemoveMember(ctx, channelID, token)
}

func (s *ChannelService) Members(ctx context.Context, channelID domain.ChannelID) ([]domain.User, error) {
	return s.store.ReadAllUsersInChannel(ctx, channelID)
}

func (s *ChannelService) Messages(ctx context.Context, channelID domain.ChannelID) ([]domain.Message, error) {
	return s.store.ReadAllMessagesInChannel(ctx, channelID)
}
