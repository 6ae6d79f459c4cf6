package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestWrapRESTError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{
			name:         "unknown channel",
			err:          &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}},
			wantNotFound: true,
		},
		{
			name:         "unknown role",
			err:          &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownRole}},
			wantNotFound: true,
		},
		{
			name: "missing permissions",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}},
		},
		{
			name: "no message",
			err:  &discordgo.RESTError{},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapRESTError(tt.err)
			require.Equal(t, tt.wantNotFound, errors.Is(got, ErrNotFound))
			require.ErrorIs(t, got, tt.err)
		})
	}
}

// stubTransport answers the REST calls of a session without a network.
type stubTransport struct {
	mu       sync.Mutex
	requests []string

	handle func(r *http.Request) (int, any)
}

func (s *stubTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	status, v := s.handle(r)
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    r,
	}, nil
}

func (s *stubTransport) count(method, suffix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, method+" ") && strings.HasSuffix(r, suffix) {
			n++
		}
	}
	return n
}

func newStubSession(t *testing.T, handle func(r *http.Request) (int, any)) (*discordgo.Session, *stubTransport) {
	t.Helper()

	s, err := discordgo.New("Bot token")
	require.NoError(t, err)

	stub := &stubTransport{handle: handle}
	s.Client = &http.Client{Transport: stub}
	s.State = discordgo.NewState()
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{
		ID: "g",
		Channels: []*discordgo.Channel{
			{ID: "10", GuildID: "g", Name: "geral", Type: discordgo.ChannelTypeGuildText},
		},
	}))
	return s, stub
}

func channelIDs(channels []*discordgo.Channel) []string {
	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	return ids
}

func TestDiscord_CreateAndDeleteKeepStateCurrent(t *testing.T) {
	ctx := context.Background()
	category := &discordgo.Channel{ID: "91", GuildID: "g", Name: "📩 Tickets - Suporte", Type: discordgo.ChannelTypeGuildCategory}

	s, stub := newStubSession(t, func(r *http.Request) (int, any) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/guilds/g/channels"):
			return http.StatusCreated, category
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/channels/91"):
			return http.StatusOK, category
		}
		return http.StatusNotFound, map[string]any{"code": discordgo.ErrCodeUnknownChannel, "message": "Unknown Channel"}
	})
	d := NewDiscord(s)

	ch, err := d.CreateChannel(ctx, "g", discordgo.GuildChannelCreateData{Name: category.Name, Type: discordgo.ChannelTypeGuildCategory})
	require.NoError(t, err)
	require.Equal(t, "91", ch.ID)

	// Listed from the cache before any gateway event arrives.
	channels, err := d.GuildChannels(ctx, "g")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"10", "91"}, channelIDs(channels))
	require.Zero(t, stub.count(http.MethodGet, "/guilds/g/channels"))

	require.NoError(t, d.DeleteChannel(ctx, "91"))

	channels, err = d.GuildChannels(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, []string{"10"}, channelIDs(channels))
}

func TestDiscord_ChannelConfirmsCacheMiss(t *testing.T) {
	ctx := context.Background()

	s, stub := newStubSession(t, func(r *http.Request) (int, any) {
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/channels/91") {
			return http.StatusOK, &discordgo.Channel{ID: "91", GuildID: "g", Name: "cat", Type: discordgo.ChannelTypeGuildCategory}
		}
		return http.StatusNotFound, map[string]any{"code": discordgo.ErrCodeUnknownChannel, "message": "Unknown Channel"}
	})
	d := NewDiscord(s)

	ch, err := d.Channel(ctx, "10")
	require.NoError(t, err)
	require.Equal(t, "geral", ch.Name)
	require.Zero(t, stub.count(http.MethodGet, "/channels/10"))

	ch, err = d.Channel(ctx, "91")
	require.NoError(t, err)
	require.Equal(t, discordgo.ChannelTypeGuildCategory, ch.Type)

	// Cached after the first lookup.
	_, err = d.Channel(ctx, "91")
	require.NoError(t, err)
	require.Equal(t, 1, stub.count(http.MethodGet, "/channels/91"))

	_, err = d.Channel(ctx, "92")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiscord_GuildChannelsWhileGatewayAdds(t *testing.T) {
	ctx := context.Background()
	s, _ := newStubSession(t, func(r *http.Request) (int, any) {
		return http.StatusNotFound, map[string]any{"code": discordgo.ErrCodeUnknownChannel, "message": "Unknown Channel"}
	})
	d := NewDiscord(s)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = s.State.ChannelAdd(&discordgo.Channel{ID: fmt.Sprintf("%d", 100+i), GuildID: "g", Type: discordgo.ChannelTypeGuildText})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = d.GuildChannels(ctx, "g")
		}
	}()
	wg.Wait()

	channels, err := d.GuildChannels(ctx, "g")
	require.NoError(t, err)
	require.Len(t, channels, 51)
}
