// Package platformtest provides an in-memory platform for tests.
package platformtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/platform"
)

// BotID is the user ID of the fake bot.
const BotID = "bot"

// Fake is an in-memory Platform. Errors can be injected per call.
type Fake struct {
	mu sync.Mutex

	nextID int

	channels map[string]*discordgo.Channel
	roles    map[string][]*discordgo.Role
	members  map[string][]string // keyed by guildID:userID -> role IDs

	// History holds the messages of a channel in the order they were posted.
	History map[string][]*discordgo.Message

	// Sent holds the messages sent through SendMessage, keyed by channel ID.
	Sent map[string][]*discordgo.MessageSend

	// Created holds the channels created through CreateChannel.
	Created []discordgo.GuildChannelCreateData

	// Deleted holds the IDs of the deleted channels.
	Deleted []string

	// HistoryCalls counts the calls to ChannelMessages.
	HistoryCalls int

	CreateChannelErr error
	DeleteChannelErr error
	SendMessageErr   error
	HistoryErr       error
	CreateRoleErr    error
	AddRoleErr       error
}

// NewFake creates a new fake platform.
func NewFake() *Fake {
	return &Fake{
		nextID:   1000,
		channels: make(map[string]*discordgo.Channel),
		roles:    make(map[string][]*discordgo.Role),
		members:  make(map[string][]string),
		History:  make(map[string][]*discordgo.Message),
		Sent:     make(map[string][]*discordgo.MessageSend),
	}
}

func (f *Fake) id() string {
	f.nextID++
	return fmt.Sprintf("%d", f.nextID)
}

// AddChannel adds an existing channel to a guild.
func (f *Fake) AddChannel(ch *discordgo.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[ch.ID] = ch
}

// RemoveChannel removes a channel as if it had been deleted outside of the bot.
func (f *Fake) RemoveChannel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, id)
}

// AddRole adds an existing role to a guild.
func (f *Fake) AddRole(guildID string, role *discordgo.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[guildID] = append(f.roles[guildID], role)
}

// MemberRoles are the roles granted through AddMemberRole.
func (f *Fake) MemberRoles(guildID, userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.members[guildID+":"+userID]...)
}

// ChannelExists reports whether the channel exists.
func (f *Fake) ChannelExists(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.channels[id]
	return ok
}

// CreateCalls is the number of CreateChannel calls that reached the platform.
func (f *Fake) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created)
}

// SentTo returns the messages sent to a channel.
func (f *Fake) SentTo(channelID string) []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.MessageSend(nil), f.Sent[channelID]...)
}

func (f *Fake) BotUserID() string {
	return BotID
}

func (f *Fake) GuildChannels(_ context.Context, guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.Channel
	for _, ch := range f.channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return ch, nil
}

func (f *Fake) CreateChannel(_ context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Created = append(f.Created, data)
	if f.CreateChannelErr != nil {
		return nil, f.CreateChannelErr
	}

	ch := &discordgo.Channel{
		ID:                   f.id(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[ch.ID] = ch
	return ch, nil
}

func (f *Fake) DeleteChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteChannelErr != nil {
		return f.DeleteChannelErr
	}
	if _, ok := f.channels[channelID]; !ok {
		return platform.ErrNotFound
	}
	delete(f.channels, channelID)
	f.Deleted = append(f.Deleted, channelID)
	return nil
}

func (f *Fake) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendMessageErr != nil {
		return nil, f.SendMessageErr
	}
	f.Sent[channelID] = append(f.Sent[channelID], msg)
	return &discordgo.Message{ID: f.id(), ChannelID: channelID, Content: msg.Content}, nil
}

// ChannelMessages mimics Discord: messages after afterID, newest first.
func (f *Fake) ChannelMessages(_ context.Context, channelID string, limit int, afterID string) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.HistoryCalls++
	if f.HistoryErr != nil {
		return nil, f.HistoryErr
	}

	var after []*discordgo.Message
	for _, m := range f.History[channelID] {
		if snowflakeLess(afterID, m.ID) {
			after = append(after, m)
		}
	}
	if len(after) > limit {
		after = after[:limit]
	}

	out := make([]*discordgo.Message, len(after))
	for i, m := range after {
		out[len(after)-1-i] = m
	}
	return out, nil
}

func (f *Fake) GuildRoles(_ context.Context, guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Role(nil), f.roles[guildID]...), nil
}

func (f *Fake) CreateRole(_ context.Context, guildID, name string) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateRoleErr != nil {
		return nil, f.CreateRoleErr
	}
	role := &discordgo.Role{ID: f.id(), Name: name}
	f.roles[guildID] = append(f.roles[guildID], role)
	return role, nil
}

func (f *Fake) AddMemberRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.AddRoleErr != nil {
		return f.AddRoleErr
	}
	key := guildID + ":" + userID
	f.members[key] = append(f.members[key], roleID)
	return nil
}

func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
