package events

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/stretchr/testify/require"
)

func component(customID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}
}

func TestDecode(t *testing.T) {
	base := Base{GuildID: "g1", ChannelID: "c1", Member: &discordgo.Member{User: &discordgo.User{ID: "u1"}}}

	tests := []struct {
		name    string
		in      *discordgo.Interaction
		want    Event
		wantErr error
	}{
		{
			name: "open support",
			in:   component(CustomIDOpenSupport),
			want: OpenTicket{Base: base, Category: entities.CategorySupport},
		},
		{
			name: "select category",
			in:   component(CustomIDCategorySelect, "financeiro"),
			want: SelectCategory{Base: base, Category: entities.CategoryFinanceiro},
		},
		{
			name:    "select unknown category",
			in:      component(CustomIDCategorySelect, "vip"),
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "select without value",
			in:      component(CustomIDCategorySelect),
			wantErr: ErrInvalidCategory,
		},
		{
			name: "close",
			in:   component(CustomIDClose),
			want: CloseTicket{Base: base},
		},
		{
			name: "verify",
			in:   component(CustomIDVerify),
			want: Verify{Base: base},
		},
		{
			name:    "unknown component",
			in:      component("poll:vote"),
			wantErr: ErrUnknownComponent,
		},
		{
			name:    "nil",
			in:      nil,
			wantErr: ErrNotComponent,
		},
		{
			name:    "slash command",
			in:      &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand},
			wantErr: ErrNotComponent,
		},
		{
			name: "direct message",
			in: func() *discordgo.Interaction {
				i := component(CustomIDVerify)
				i.GuildID = ""
				i.Member = nil
				i.User = &discordgo.User{ID: "u1"}
				return i
			}(),
			wantErr: ErrNotInGuild,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
