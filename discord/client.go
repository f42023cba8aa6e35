package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"trader-bot/utils"
)

// Client is the bot's handle on one Discord channel: it posts reports and
// reads the channel's past messages for history reconstruction.
type Client struct {
	session   *discordgo.Session
	channelID string
	botID     string
	logger    *utils.Logger
}

// New authenticates with the bot token and resolves the bot's own user id,
// which the history extractor uses to recognize the bot's own reports.
func New(token, channelID string, logger *utils.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}

	me, err := session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("discord: fetch bot user: %w", err)
	}
	logger.Info("[discord] Logged in as %s", me.Username)

	return &Client{
		session:   session,
		channelID: channelID,
		botID:     me.ID,
		logger:    logger,
	}, nil
}

// BotID returns the authenticated bot user's id.
func (c *Client) BotID() string { return c.botID }

// Messages fetches one page of up to 100 messages older than beforeID,
// newest first.
func (c *Client) Messages(ctx context.Context, limit int, beforeID string) ([]Message, error) {
	msgs, err := c.session.ChannelMessages(c.channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: fetch messages: %w", err)
	}

	page := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Author == nil {
			continue
		}
		page = append(page, Message{ID: m.ID, AuthorID: m.Author.ID, Content: m.Content})
	}
	return page, nil
}

// Post sends the rendered report to the channel.
func (c *Client) Post(ctx context.Context, content string) error {
	if _, err := c.session.ChannelMessageSend(c.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send report: %w", err)
	}
	return nil
}

// Close releases the underlying session.
func (c *Client) Close() error {
	return c.session.Close()
}
