package discord

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePager replicates the Discord anchor semantics: with an after anchor it
// returns the oldest messages above the anchor; with no anchor it returns the
// newest ones. Pages always come back newest first.
type fakePager struct {
	messages []*discordgo.Message // ascending ids
	calls    int
	err      error
}

func newFakePager(count int) *fakePager {
	p := &fakePager{}
	for i := 1; i <= count; i++ {
		p.messages = append(p.messages, &discordgo.Message{
			ID:      strconv.Itoa(i),
			Content: "Wordle 100 4/6",
			Author:  &discordgo.User{ID: "player"},
		})
	}
	return p
}

func (p *fakePager) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	var page []*discordgo.Message
	if afterID == "" {
		// No anchor: the newest messages win.
		start := len(p.messages) - limit
		if start < 0 {
			start = 0
		}
		page = append(page, p.messages[start:]...)
	} else {
		anchor, _ := strconv.Atoi(afterID)
		for _, m := range p.messages {
			id, _ := strconv.Atoi(m.ID)
			if id > anchor {
				page = append(page, m)
			}
			if len(page) == limit {
				break
			}
		}
	}

	sort.Slice(page, func(i, j int) bool {
		a, _ := strconv.Atoi(page[i].ID)
		b, _ := strconv.Atoi(page[j].ID)
		return a > b
	})
	return page, nil
}

func drainHistory(t *testing.T, h *ChannelHistory) []string {
	var ids []string
	for {
		msg, err := h.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return ids
		}
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}
}

func TestChannelHistory_WalksFullHistoryOldestFirst(t *testing.T) {
	// More messages than one page: the stream must start at the channel's
	// first message, not at the newest page.
	pager := newFakePager(150)
	h := NewChannelHistory(pager, "chan-1", "")

	ids := drainHistory(t, h)

	require.Len(t, ids, 150)
	assert.Equal(t, "1", ids[0])
	assert.Equal(t, "150", ids[149])
	for i := 1; i < len(ids); i++ {
		prev, _ := strconv.Atoi(ids[i-1])
		cur, _ := strconv.Atoi(ids[i])
		assert.Greater(t, cur, prev)
	}
}

func TestChannelHistory_ExactPageBoundary(t *testing.T) {
	pager := newFakePager(historyPageSize)
	h := NewChannelHistory(pager, "chan-1", "")

	ids := drainHistory(t, h)
	assert.Len(t, ids, historyPageSize)
	assert.Equal(t, "1", ids[0])
}

func TestChannelHistory_EmptyChannel(t *testing.T) {
	h := NewChannelHistory(newFakePager(0), "chan-1", "")

	_, err := h.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestChannelHistory_PropagatesFetchError(t *testing.T) {
	pager := newFakePager(5)
	pager.err = errors.New("rate limited")
	h := NewChannelHistory(pager, "chan-1", "")

	_, err := h.Next(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestChannelHistory_CancelledContext(t *testing.T) {
	h := NewChannelHistory(newFakePager(5), "chan-1", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
