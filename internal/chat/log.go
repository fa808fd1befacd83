package chat

import (
	"context"
	"log"
	"slices"
	"sync"
)

// LogSink writes messages to the process log. It backs the bot when no
// Discord session is available and the command-line tools.
type LogSink struct{}

// Post implements Sink
func (LogSink) Post(_ context.Context, channelID string, msg *Message) error {
	log.Printf("[Chat] #%s %s", channelID, msg.Text())
	return nil
}

// RecordingSink keeps every posted message in memory.
type RecordingSink struct {
	mu       sync.Mutex
	messages []*Message
}

// NewRecordingSink creates an empty RecordingSink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Post implements Sink
func (s *RecordingSink) Post(_ context.Context, _ string, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a snapshot of the posted messages in order.
func (s *RecordingSink) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Last returns the most recent message, or nil.
func (s *RecordingSink) Last() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}
