package discord

import "context"

// Message is the slice of a channel message the pipeline cares about.
type Message struct {
	ID       string
	AuthorID string
	Content  string
}

// MessageSource pages backwards through a channel's past messages, newest
// first. beforeID is the pagination cursor; empty means start at the top.
type MessageSource interface {
	Messages(ctx context.Context, limit int, beforeID string) ([]Message, error)
}

// ReportPoster delivers one rendered report to the channel.
type ReportPoster interface {
	Post(ctx context.Context, content string) error
}
