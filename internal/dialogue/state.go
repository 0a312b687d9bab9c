package dialogue

type State int

const (
	Greeting State = iota
	AwaitingUtterance
	Dispatching
	ComposeRecipient
	ComposeMessageBody
	Terminated
)

func (s State) String() string {
	switch s {
	case Greeting:
		return "greeting"
	case AwaitingUtterance:
		return "awaiting_utterance"
	case Dispatching:
		return "dispatching"
	case ComposeRecipient:
		return "compose_recipient"
	case ComposeMessageBody:
		return "compose_message_body"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Turn is one listen attempt. It lives for a single loop iteration.
type Turn struct {
	ID         string
	Raw        string
	Heard      bool
	Normalized string
}
