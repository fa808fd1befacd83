// Package chat posts roll results to a channel.
package chat

//go:generate mockgen -destination=mock/mock_sink.go -package=mockchat -source=chat.go

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Message is a roll result as it appears in chat.
type Message struct {
	// Speaker is the character the roll is attributed to
	Speaker string

	// RolledBy is the user who pressed the button
	RolledBy string

	Flavor  string
	Formula string
	Rolls   []int
	Total   int
}

// Sink delivers messages to a channel.
type Sink interface {
	Post(ctx context.Context, channelID string, msg *Message) error
}

// Text renders the message as a single plain line.
func (m *Message) Text() string {
	rolls := make([]string, len(m.Rolls))
	for i, r := range m.Rolls {
		rolls[i] = strconv.Itoa(r)
	}
	return fmt.Sprintf("%s: %s (%s) = %d [%s]",
		m.Speaker, m.Flavor, m.Formula, m.Total, strings.Join(rolls, ", "))
}
