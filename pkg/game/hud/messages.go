package hud

// MaxMessages is how many notices the message pane keeps.
const MaxMessages = 5

// MessageLog keeps the most recent rendered notices for the message pane.
type MessageLog struct {
	messages []string
}

// Add appends a message, dropping the oldest past MaxMessages.
func (l *MessageLog) Add(msg string) {
	l.messages = append(l.messages, msg)

	// Keep only the last MaxMessages
	if len(l.messages) > MaxMessages {
		l.messages = l.messages[len(l.messages)-MaxMessages:]
	}
}

// Clear empties the log.
func (l *MessageLog) Clear() {
	l.messages = nil
}

func (l *MessageLog) Lines() []string {
	return l.messages
}
