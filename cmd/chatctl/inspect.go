package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"chat-relay/contract"
	"chat-relay/domain"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func NewInspectCommand(opts *RootOptions, config Config) *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:       "inspect users|channels|messages",
		Short:     "Print the content of the store as a table",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"users", "channels", "messages"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.open(cmd.Context(), config)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, header, err := collect(cmd, store, args[0], channel)
			if err != nil {
				return err
			}
			render(cmd.OutOrStdout(), header, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "channel id, required for messages")
	return cmd
}

func collect(cmd *cobra.Command, store contract.Store, what, channel string) ([][]string, []string, error) {
	ctx := cmd.Context()
	switch what {
	case "users":
		users, err := store.ReadAllUsers(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := lo.Map(users, func(u domain.User, _ int) []string {
			return []string{u.Token.String(), u.DisplayName}
		})
		return rows, []string{"id", "display name"}, nil
	case "channels":
		channels, err := store.ReadAllChannels(ctx)
		if err != nil {
			return nil, nil, err
		}
		memberships, err := store.ReadAllChannelsUsers(ctx)
		if err != nil {
			return nil, nil, err
		}
		counts := lo.CountValuesBy(memberships, func(m domain.Membership) domain.ChannelID { return m.ChannelID })
		rows := lo.Map(channels, func(c domain.Channel, _ int) []string {
			return []string{c.ID.String(), c.Name, strconv.FormatBool(c.Private), strconv.Itoa(counts[c.ID]), c.Description}
		})
		return rows, []string{"id", "name", "private", "members", "description"}, nil
	case "messages":
		if channel == "" {
			return nil, nil, fmt.Errorf("--channel is required to inspect messages")
		}
		channelID, err := domain.ParseChannelID(channel)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid channel id %q", channel)
		}
		messages, err := store.ReadAllMessagesInChannel(ctx, channelID)
		if err != nil {
			return nil, nil, err
		}
		rows := lo.Map(messages, func(m domain.Message, _ int) []string {
			return []string{m.Timestamp, lo.CoalesceOrEmpty(m.AuthorName, m.Author.String()), m.Body}
		})
		return rows, []string{"created at", "user", "body"}, nil
	default:
		return nil, nil, fmt.Errorf("nothing to inspect named %q", what)
	}
}

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(lo.Map(header, func(h string, _ int) string {
		return color.New(color.FgGreen, color.OpBold).Render(strings.ToUpper(h))
	}))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
}
