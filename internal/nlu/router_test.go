package nlu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	r := NewRouter()

	cases := []struct {
		text string
		want Action
	}{
		{"play shape of you on youtube", Action{Kind: PlayMedia, Arg: "shape of you"}},
		{"play despacito", Action{Kind: PlayMedia, Arg: "despacito"}},
		{"play on youtube", Action{Kind: PlayMedia, Arg: ""}},
		{"what is photosynthesis", Action{Kind: LookupTopic, Arg: "photosynthesis"}},
		{"who is alan turing", Action{Kind: LookupTopic, Arg: "alan turing"}},
		{"wikipedia", Action{Kind: LookupTopic, Arg: ""}},
		{"tell me a joke please", Action{Kind: TellJoke}},
		{"set a timer for ten minutes", Action{Kind: GenericSearch, Arg: "set a timer for ten minutes"}},
		{"what time is it", Action{Kind: ReportTime}},
		{"what's the time?", Action{Kind: ReportTime}},
		{"update my status", Action{Kind: GenericSearch, Arg: "update my status"}},
		{"what is the date today", Action{Kind: ReportDate}},
		{"which year is it", Action{Kind: ReportYear}},
		{"how many years until 2030", Action{Kind: ReportYear}},
		{"any important dates this week", Action{Kind: ReportDate}},
		{"what are the opening times", Action{Kind: ReportTime}},
		{"timers for the oven", Action{Kind: GenericSearch, Arg: "timers for the oven"}},
		{"open youtube", Action{Kind: OpenMediaSite}},
		{"open whatsapp", Action{Kind: OpenMessagingApp}},
		{"send message", Action{Kind: ComposeMessage}},
		{"send a whatsapp message", Action{Kind: ComposeMessage}},
		{"pause", Action{Kind: MediaControl, Op: Pause}},
		{"resume", Action{Kind: MediaControl, Op: Resume}},
		{"please play video", Action{Kind: MediaControl, Op: Resume}},
		{"volume up", Action{Kind: MediaControl, Op: VolumeUp}},
		{"volume down please", Action{Kind: MediaControl, Op: VolumeDown}},
		{"", Action{Kind: GenericSearch, Arg: ""}},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, r.Route(tc.text), "text=%q", tc.text)
	}
}

func TestRoute_TerminateHasTopPrecedence(t *testing.T) {
	r := NewRouter()

	for _, text := range []string{
		"stop",
		"exit",
		"bye",
		"goodbye",
		"let's stop the joke",
		"stop video",
		"play the exit song on youtube",
		"what time is it, bye",
	} {
		require.Equal(t, Action{Kind: Terminate}, r.Route(text), "text=%q", text)
	}
}

func TestRoute_EarlierRulesShadowLaterOnes(t *testing.T) {
	r := NewRouter()

	// "time" beats "play ... youtube" and "date".
	require.Equal(t, ReportTime, r.Route("play time on youtube").Kind)
	require.Equal(t, ReportTime, r.Route("update the time").Kind)
	// "date" beats "what is".
	require.Equal(t, ReportDate, r.Route("what is the date").Kind)
	// "play ... youtube" beats "open youtube".
	require.Equal(t, PlayMedia, r.Route("open youtube and play music").Kind)
	// "play video" starts with "play " and is claimed by rule 6.
	require.Equal(t, Action{Kind: PlayMedia, Arg: "video"}, r.Route("play video"))
}

func TestRoute_YoutubeArgumentNeverKeepsKeywords(t *testing.T) {
	r := NewRouter()

	for _, text := range []string{
		"play shape of you on youtube",
		"play play on youtube on youtube",
		"plplayay on youtube",
		"plon youtubeay play youtube",
		"please play some jazz on youtube now",
		"youtube play",
	} {
		a := r.Route(text)
		require.Equal(t, PlayMedia, a.Kind, "text=%q", text)
		require.NotContains(t, a.Arg, "play", "text=%q", text)
		require.NotContains(t, a.Arg, "on youtube", "text=%q", text)
		require.Equal(t, strings.TrimSpace(a.Arg), a.Arg)
	}
}

func TestRoute_Idempotent(t *testing.T) {
	r := NewRouter()

	for _, text := range []string{"play x on youtube", "who is ada", "hello there", "pause"} {
		require.Equal(t, r.Route(text), r.Route(text))
	}
}

func TestRules_OrderIsFixed(t *testing.T) {
	names := make([]string, 0)
	for _, rule := range NewRouter().Rules() {
		names = append(names, rule.Name)
	}

	require.Equal(t, []string{
		"terminate", "time", "date", "year",
		"play_on_youtube", "play",
		"open_youtube", "open_whatsapp", "compose",
		"pause", "resume", "volume_up", "volume_down",
		"lookup", "joke",
	}, names)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "play music", Normalize("  Play MUSIC \n"))
	require.Equal(t, "", Normalize("   "))
	require.Equal(t, "mum", Normalize(" Mum."))
	require.Equal(t, "what's the time", Normalize("What's the time?"))
	require.Equal(t, "play track 3.5 now", Normalize("Play track 3.5, now!"))
	require.Equal(t, "", Normalize("... ?"))
}

func TestRoute_TranscribedPunctuation(t *testing.T) {
	r := NewRouter()

	require.Equal(t, Action{Kind: LookupTopic, Arg: "photosynthesis"}, r.Route(Normalize("What is photosynthesis?")))
	require.Equal(t, Action{Kind: PlayMedia, Arg: "despacito"}, r.Route(Normalize("Play Despacito.")))
	require.Equal(t, Action{Kind: ComposeMessage}, r.Route(Normalize("Send message.")))
}

func TestActionString(t *testing.T) {
	require.Equal(t, `play_media("x")`, Action{Kind: PlayMedia, Arg: "x"}.String())
	require.Equal(t, "media_control(volume_up)", Action{Kind: MediaControl, Op: VolumeUp}.String())
	require.Equal(t, "terminate", Action{Kind: Terminate}.String())
}
