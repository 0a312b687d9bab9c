package nlu

import "fmt"

type Kind int

const (
	GenericSearch Kind = iota
	Terminate
	ReportTime
	ReportDate
	ReportYear
	PlayMedia
	OpenMediaSite
	OpenMessagingApp
	ComposeMessage
	MediaControl
	LookupTopic
	TellJoke
)

var kindNames = map[Kind]string{
	GenericSearch:    "generic_search",
	Terminate:        "terminate",
	ReportTime:       "report_time",
	ReportDate:       "report_date",
	ReportYear:       "report_year",
	PlayMedia:        "play_media",
	OpenMediaSite:    "open_media_site",
	OpenMessagingApp: "open_messaging_app",
	ComposeMessage:   "compose_message",
	MediaControl:     "media_control",
	LookupTopic:      "lookup_topic",
	TellJoke:         "tell_joke",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MediaOp is the operation carried by a MediaControl action.
type MediaOp int

const (
	NoOp MediaOp = iota
	Pause
	Resume
	VolumeUp
	VolumeDown
)

func (op MediaOp) String() string {
	switch op {
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case VolumeUp:
		return "volume_up"
	case VolumeDown:
		return "volume_down"
	default:
		return "none"
	}
}

// Action is the single classification of one utterance.
// Arg holds the query for PlayMedia/GenericSearch and the topic for
// LookupTopic; Op is set only for MediaControl.
type Action struct {
	Kind Kind
	Arg  string
	Op   MediaOp
}

func (a Action) String() string {
	switch a.Kind {
	case MediaControl:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Op)
	case PlayMedia, LookupTopic, GenericSearch:
		return fmt.Sprintf("%s(%q)", a.Kind, a.Arg)
	default:
		return a.Kind.String()
	}
}
