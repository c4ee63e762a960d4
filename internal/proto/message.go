package proto

import "time"

// Inbound is a frame received from the client. Frames are flat JSON
// objects discriminated by Type; only the fields for that type are set.
type Inbound struct {
	Type           string  `json:"type"`
	To             string  `json:"to,omitempty"`
	Message        string  `json:"message,omitempty"`
	Status         string  `json:"status,omitempty"`
	AwayMessage    *string `json:"awayMessage,omitempty"`
	BuddyUsername  string  `json:"buddyUsername,omitempty"`
	TargetUsername string  `json:"targetUsername,omitempty"`
}

const (
	InboundTypeMessage      = "message"
	InboundTypeStatusChange = "status_change"
	InboundTypeAwayMessage  = "away_message"
	InboundTypeAddBuddy     = "add_buddy"
	InboundTypeWarnUser     = "warn_user"
)

const (
	OutboundTypeWelcome          = "welcome"
	OutboundTypeBuddyList        = "buddy_list"
	OutboundTypeUserJoined       = "user_joined"
	OutboundTypeUserLeft         = "user_left"
	OutboundTypeMessage          = "message"
	OutboundTypeMessageDelivered = "message_delivered"
	OutboundTypeMessageOffline   = "message_offline"
	OutboundTypeBuddyStatus      = "buddy_status"
	OutboundTypeWarningReceived  = "warning_received"
)

// timestampLayout matches ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp renders t the way every outbound frame carries time.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Welcome greets a freshly joined session with everyone else online.
type Welcome struct {
	Type     string   `json:"type"`
	Username string   `json:"username"`
	Users    []string `json:"users"`
}

// BuddyEntry is one row of a buddy list as shown to a client.
type BuddyEntry struct {
	Username     string  `json:"username"`
	Status       string  `json:"status"`
	AwayMessage  *string `json:"awayMessage"`
	WarningLevel int     `json:"warningLevel"`
}

// BuddyList carries a session's personalized buddy list.
type BuddyList struct {
	Type    string       `json:"type"`
	Buddies []BuddyEntry `json:"buddies"`
}

// UserJoined announces a new arrival to the rest of the room.
type UserJoined struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// UserLeft announces a departure to the rest of the room.
type UserLeft struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// InstantMessage is a point-to-point message as delivered to its recipient.
type InstantMessage struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MessageDelivered acknowledges delivery back to the sender. It carries
// the same timestamp the recipient saw.
type MessageDelivered struct {
	Type      string `json:"type"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
}

// MessageOffline tells the sender the peer is unreachable.
type MessageOffline struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// BuddyStatus reports a status change for one user.
type BuddyStatus struct {
	Type        string  `json:"type"`
	Username    string  `json:"username"`
	Status      string  `json:"status"`
	AwayMessage *string `json:"awayMessage"`
	Timestamp   string  `json:"timestamp"`
}

// WarningReceived notifies a user that someone warned them.
type WarningReceived struct {
	Type            string `json:"type"`
	From            string `json:"from"`
	NewWarningLevel int    `json:"newWarningLevel"`
}
