package handlers

const (
	MsgWelcome = "👋 Welcome, %s!\n\nPlay the value game to discover communities and events that fit you. " +
		"Each round shows a few words; pick the one that speaks to you most."
	MsgWelcomeBack = "👋 Welcome back, %s!"
	MsgHelp        = "<b>Commands</b>\n" +
		"/play - play the value game\n" +
		"/profile - your value profile\n" +
		"/matches - communities that fit you\n" +
		"/events - upcoming events that fit you\n" +
		"/token - an API access token\n" +
		"/cancel - stop what you are doing"
	MsgCancel          = "❌ Cancelled."
	MsgUnknown         = "🤔 I didn't get that. Send /help to see what I can do."
	MsgTooManyRequests = "⏳ Slow down a little and try again in a moment."
	MsgRoundPrompt     = "🎯 <b>Round %d of %d</b>\nWhich word speaks to you most?"
	MsgGameDone        = "✅ Profile created successfully!\n\n%s\n\nSend /matches or /events to see what fits you."
	MsgGameRejected    = "⚠️ That submission didn't work out. Send /play to start over."
	MsgStaleRound      = "This round is already over."
	MsgNotPlaying      = "Send /play to start a new game."
	MsgProfileNotReady = "🎲 Play the value game first with /play."
	MsgNoCommunities   = "No community matches right now. Check back later!"
	MsgNoEvents        = "No upcoming events match right now. Check back later!"
	MsgToken           = "🔑 Your API token (valid for 24 hours):\n<code>%s</code>"
	MsgGenericError    = "⚠️ Something went wrong. Please try again."
	MsgNotFound        = "That is no longer available."
)

// Callback answers reuse the API wording.
const (
	AnsJoined       = "Joined successfully"
	AnsAlreadyJoin  = "Already a member"
	AnsAttending    = "Attending event"
	AnsAlreadyGoing = "Already attending"
	AnsSkipped      = "Skipped"
)

const (
	BtnPlay    = "🎲 Play"
	BtnMatches = "🤝 Communities"
	BtnEvents  = "📅 Events"
	BtnProfile = "👤 Profile"
	BtnHelp    = "❓ Help"
	BtnJoin    = "✅ Join"
	BtnAttend  = "✅ Attend"
	BtnSkip    = "⏭ Skip"
)
