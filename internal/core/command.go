package core

// CommandKind describes what a session asked the room to do.
type CommandKind int

const (
	// CommandSendMessage routes an instant message to another user.
	CommandSendMessage CommandKind = iota
	// CommandChangeStatus updates the sender's presence status.
	CommandChangeStatus
	// CommandSetAwayMessage marks the sender away with a message.
	CommandSetAwayMessage
	// CommandAddBuddy adds a username to the sender's buddy set.
	CommandAddBuddy
	// CommandWarnUser raises another user's warning level.
	CommandWarnUser
)

// Command is an action requested by a session. Fields are populated
// per kind.
type Command struct {
	Kind CommandKind

	// CommandSendMessage
	To   string
	Body string

	// CommandChangeStatus / CommandSetAwayMessage
	Status      Status
	AwayMessage *string

	// CommandAddBuddy
	Buddy string

	// CommandWarnUser
	Target string
}
