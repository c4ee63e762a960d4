package http

import (
	"errors"
	"fmt"

	"github.com/roomline/roomline-server/internal/core"
	"github.com/roomline/roomline-server/internal/proto"
)

var errUnknownType = errors.New("unknown message type")

// inboundToCommand validates a decoded frame and maps it onto a room
// command. Frames with missing required fields are rejected; the caller
// drops them without closing the connection.
func inboundToCommand(in proto.Inbound) (core.Command, error) {
	switch in.Type {
	case proto.InboundTypeMessage:
		if in.To == "" {
			return core.Command{}, fmt.Errorf("message: %w", errMissing("to"))
		}
		return core.Command{
			Kind: core.CommandSendMessage,
			To:   in.To,
			Body: in.Message,
		}, nil
	case proto.InboundTypeStatusChange:
		if in.Status == "" {
			return core.Command{}, fmt.Errorf("status_change: %w", errMissing("status"))
		}
		// Only the two live statuses are settable; Offline is the absence
		// of a presence entry, never a stored value.
		status := core.Status(in.Status)
		if status != core.StatusAvailable && status != core.StatusAway {
			return core.Command{}, fmt.Errorf("status_change: invalid status %q", in.Status)
		}
		return core.Command{
			Kind:        core.CommandChangeStatus,
			Status:      status,
			AwayMessage: in.AwayMessage,
		}, nil
	case proto.InboundTypeAwayMessage:
		if in.Message == "" {
			return core.Command{}, fmt.Errorf("away_message: %w", errMissing("message"))
		}
		message := in.Message
		return core.Command{
			Kind:        core.CommandSetAwayMessage,
			AwayMessage: &message,
		}, nil
	case proto.InboundTypeAddBuddy:
		if in.BuddyUsername == "" {
			return core.Command{}, fmt.Errorf("add_buddy: %w", errMissing("buddyUsername"))
		}
		return core.Command{
			Kind:  core.CommandAddBuddy,
			Buddy: in.BuddyUsername,
		}, nil
	case proto.InboundTypeWarnUser:
		if in.TargetUsername == "" {
			return core.Command{}, fmt.Errorf("warn_user: %w", errMissing("targetUsername"))
		}
		return core.Command{
			Kind:   core.CommandWarnUser,
			Target: in.TargetUsername,
		}, nil
	default:
		return core.Command{}, errUnknownType
	}
}

func errMissing(field string) error {
	return fmt.Errorf("missing required field %q", field)
}

// outboundFromEvent maps a room event onto its wire representation.
func outboundFromEvent(ev *core.Event) any {
	switch ev.Kind {
	case core.EventWelcome:
		users := ev.Users
		if users == nil {
			users = []string{}
		}
		return proto.Welcome{
			Type:     proto.OutboundTypeWelcome,
			Username: ev.Username,
			Users:    users,
		}
	case core.EventBuddyList:
		buddies := make([]proto.BuddyEntry, 0, len(ev.Buddies))
		for _, b := range ev.Buddies {
			buddies = append(buddies, proto.BuddyEntry{
				Username:     b.Username,
				Status:       string(b.Status),
				AwayMessage:  b.AwayMessage,
				WarningLevel: b.WarningLevel,
			})
		}
		return proto.BuddyList{
			Type:    proto.OutboundTypeBuddyList,
			Buddies: buddies,
		}
	case core.EventUserJoined:
		return proto.UserJoined{
			Type:      proto.OutboundTypeUserJoined,
			Username:  ev.Username,
			Status:    string(ev.Status),
			Timestamp: proto.Timestamp(ev.Timestamp),
		}
	case core.EventUserLeft:
		return proto.UserLeft{
			Type:      proto.OutboundTypeUserLeft,
			Username:  ev.Username,
			Timestamp: proto.Timestamp(ev.Timestamp),
		}
	case core.EventMessage:
		return proto.InstantMessage{
			Type:      proto.OutboundTypeMessage,
			From:      ev.From,
			To:        ev.To,
			Message:   ev.Body,
			Timestamp: proto.Timestamp(ev.Timestamp),
		}
	case core.EventMessageDelivered:
		return proto.MessageDelivered{
			Type:      proto.OutboundTypeMessageDelivered,
			To:        ev.To,
			Timestamp: proto.Timestamp(ev.Timestamp),
		}
	case core.EventMessageOffline:
		return proto.MessageOffline{
			Type:    proto.OutboundTypeMessageOffline,
			To:      ev.To,
			Message: ev.Body,
		}
	case core.EventBuddyStatus:
		return proto.BuddyStatus{
			Type:        proto.OutboundTypeBuddyStatus,
			Username:    ev.Username,
			Status:      string(ev.Status),
			AwayMessage: ev.AwayMessage,
			Timestamp:   proto.Timestamp(ev.Timestamp),
		}
	case core.EventWarningReceived:
		return proto.WarningReceived{
			Type:            proto.OutboundTypeWarningReceived,
			From:            ev.From,
			NewWarningLevel: ev.WarningLevel,
		}
	default:
		return nil
	}
}
