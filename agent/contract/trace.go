package contract

// Trace is the ordered, append-only log of every message produced while servicing
// one request. Recorded messages are copied on the way in and on the way out.
type Trace struct {
	messages []Message
}

func NewTrace() *Trace {
	return &Trace{messages: make([]Message, 0, 16)}
}

func (t *Trace) Append(msgs ...Message) {
	for _, m := range msgs {
		t.messages = append(t.messages, m.clone())
	}
}

func (t *Trace) Len() int {
	return len(t.messages)
}

func (t *Trace) Messages() []Message {
	out := make([]Message, len(t.messages))
	for i, m := range t.messages {
		out[i] = m.clone()
	}
	return out
}

// Final returns the last message addressed to the user.
func (t *Trace) Final() (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Recipient == RoleUser {
			return t.messages[i].clone(), true
		}
	}
	return Message{}, false
}
