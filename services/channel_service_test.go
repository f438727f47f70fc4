package services

import (
	"context"
	"testing"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/validation"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestChannelService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockMutator := mocks.NewMockIMutator(ctrl)
	svc := NewChannelService(mockStore, mockMutator)
	ctx := context.Background()

	t.Run("should create a channel with a trimmed name", func(t *testing.T) {
		req := require.New(t)
		created := domain.Channel{ID: 7, Name: "general"}

		mockMutator.EXPECT().
			CreateChannel(ctx, "general", "everyone", true).
			Return(created, nil).
			Times(1)

		channel, err := svc.Create(ctx, validation.CreateChannelRequest{Name: "  general ", Description: "everyone", Private: true})

		req.NoError(err)
		req.Equal(created, channel)
	})

	t.Run("should refuse a channel without a name", func(t *testing.T) {
		req := require.New(t)

		// Mutator should NEVER be called
		mockMutator.EXPECT().CreateChannel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Create(ctx, validation.CreateChannelRequest{Name: "   "})

		req.ErrorIs(err, errors.ErrInvalidRequest)
	})

	t.Run("should surface the store status", func(t *testing.T) {
		req := require.New(t)

		mockMutator.EXPECT().
			CreateChannel(ctx, "general", "", false).
			Return(domain.Channel{}, errors.Conflict("AddChannels", "general")).
			Times(1)

		_, err := svc.Create(ctx, validation.CreateChannelRequest{Name: "general"})

		req.Equal(409, errors.StatusOf(err))
	})
}

func TestChannelService_Members(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockMutator := mocks.NewMockIMutator(ctrl)
	svc := NewChannelService(mockStore, mockMutator)
	ctx := context.Background()

	t.Run("should add a member by user id", func(t *testing.T) {
		req := require.New(t)

		mockMutator.EXPECT().AddMember(ctx, domain.ChannelID(3), domain.Token("bob")).Return(nil).Times(1)

		req.NoError(svc.AddMember(ctx, 3, validation.AddMemberRequest{UserID: "bob"}))
	})

	t.Run("should refuse an empty user id", func(t *testing.T) {
		req := require.New(t)

		mockMutator.EXPECT().AddMember(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := svc.AddMember(ctx, 3, validation.AddMemberRequest{})

		req.ErrorIs(err, errors.ErrInvalidRequest)
	})

	t.Run("should remove a member", func(t *testing.T) {
		req := require.New(t)

		mockMutator.EXPECT().RemoveMember(ctx, domain.ChannelID(3), domain.Token("bob")).Return(nil).Times(1)

		req.NoError(svc.RemoveMember(ctx, 3, "bob"))
	})

	t.Run("should read members and history from the store", func(t *testing.T) {
		req := require.New(t)
		users := []domain.User{{Token: "alice", DisplayName: "Alice"}}
		messages := []domain.Message{{ID: "m1", Body: "hi", Author: "alice", ChannelID: 3}}

		mockStore.EXPECT().ReadAllUsersInChannel(ctx, domain.ChannelID(3)).Return(users, nil).Times(1)
		mockStore.EXPECT().ReadAllMessagesInChannel(ctx, domain.ChannelID(3)).Return(messages, nil).Times(1)

		gotUsers, err := svc.Members(ctx, 3)
		req.NoError(err)
		req.Equal(users, gotUsers)

		gotMessages, err := svc.Messages(ctx, 3)
		req.NoError(err)
		req.Equal(messages, gotMessages)
	})
}
