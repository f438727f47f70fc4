package validation

import (
	"strings"
	"testing"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestValidateRequest_CreateChannel(t *testing.T) {
	req := require.New(t)

	valid := &CreateChannelRequest{Name: "  random  ", Description: "off topic"}
	req.NoError(ValidateRequest(valid))
	req.Equal("random", valid.Name)

	err := ValidateRequest(&CreateChannelRequest{Name: "   "})
	req.ErrorIs(err, errors.ErrInvalidRequest)
	req.Contains(err.Error(), `"name" is required`)

	err = ValidateRequest(&CreateChannelRequest{Name: strings.Repeat("a", 101)})
	req.ErrorIs(err, errors.ErrInvalidRequest)
	req.Contains(err.Error(), `"name" must be at most 100 characters`)
}

func TestValidateRequest_Rename(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateRequest(&RenameUserRequest{DisplayName: "Bobby"}))

	err := ValidateRequest(&RenameUserRequest{})
	req.ErrorIs(err, errors.ErrInvalidRequest)
	req.Contains(err.Error(), `"display_name" is required`)
}

func TestValidateRequest_AddMember(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateRequest(&AddMemberRequest{UserID: "bob"}))
	req.ErrorIs(ValidateRequest(&AddMemberRequest{}), errors.ErrInvalidRequest)
}
