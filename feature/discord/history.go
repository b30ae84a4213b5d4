package discord

import (
	"context"
	"fmt"
	"io"

	"wordle-tracker/feature/wordle/models"

	"github.com/bwmarrin/discordgo"
)

// historyPageSize is the Discord API maximum per history request.
const historyPageSize = 100

// messagePager is the slice of the Discord REST client the history stream
// needs. *discordgo.Session satisfies it.
type messagePager interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// ChannelHistory pages through a channel's full message history, oldest
// first, as a rescan source. It keeps no cursor between rescans; every
// rescan starts from the beginning of the channel.
type ChannelHistory struct {
	pager           messagePager
	channelID       string
	wordleBotUserID string

	buffer  []*discordgo.Message
	afterID string
	done    bool
}

// NewChannelHistory creates a history stream over one channel.
func NewChannelHistory(pager messagePager, channelID, wordleBotUserID string) *ChannelHistory {
	return &ChannelHistory{
		pager:           pager,
		channelID:       channelID,
		wordleBotUserID: wordleBotUserID,

		// Without an anchor Discord returns the NEWEST messages, which would
		// silently cap the stream at one page. Anchoring after id 0 starts
		// paging at the channel's first message.
		afterID: "0",
	}
}

// Next returns the next historical message, or io.EOF after the last one.
func (h *ChannelHistory) Next(ctx context.Context) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(h.buffer) == 0 {
		if h.done {
			return nil, io.EOF
		}
		if err := h.fetchPage(); err != nil {
			return nil, err
		}
		if len(h.buffer) == 0 {
			return nil, io.EOF
		}
	}

	next := h.buffer[0]
	h.buffer = h.buffer[1:]
	msg := toModelMessage(next, h.wordleBotUserID)
	return &msg, nil
}

// fetchPage loads the next page after the last seen message. Discord returns
// pages newest first, so each page is reversed into chronological order.
func (h *ChannelHistory) fetchPage() error {
	page, err := h.pager.ChannelMessages(h.channelID, historyPageSize, "", h.afterID, "")
	if err != nil {
		return fmt.Errorf("failed to fetch channel history: %w", err)
	}
	if len(page) == 0 {
		h.done = true
		return nil
	}

	h.buffer = make([]*discordgo.Message, len(page))
	for i, m := range page {
		h.buffer[len(page)-1-i] = m
	}
	h.afterID = h.buffer[len(h.buffer)-1].ID

	if len(page) < historyPageSize {
		h.done = true
	}
	return nil
}
