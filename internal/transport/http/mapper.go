package http

import (
	"encoding/json"

	"github.com/chatbase/chatbase-server/internal/auth"
	"github.com/chatbase/chatbase-server/internal/core"
	"github.com/chatbase/chatbase-server/internal/proto"
)

func inboundToCommand(claims *auth.Claims, inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeRegister:
		var reg proto.RegisterData
		if err := json.Unmarshal(inbound.Data, &reg); err != nil {
			return nil, nil, err
		}
		if reg.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user_id is required"}, nil
		}
		// The binding identity must match the authenticated one.
		if reg.UserID != claims.UserID {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user_id does not match token"}, nil
		}
		return &core.Command{
			Kind:   core.CommandRegister,
			UserID: reg.UserID,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "recipient is required"}, nil
		}
		if msg.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			To:   msg.To,
			Text: msg.Text,
		}, nil, nil
	case proto.InboundTypeLogout:
		var out proto.LogoutData
		if err := json.Unmarshal(inbound.Data, &out); err != nil {
			return nil, nil, err
		}
		userID := out.UserID
		if userID == "" {
			userID = claims.UserID
		}
		return &core.Command{
			Kind:   core.CommandLogout,
			UserID: userID,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "message",
			Data: proto.EventMessage{
				ID:   event.Message.ID,
				From: event.Message.From,
				Text: event.Message.Text,
				TS:   event.Message.CreatedAt.Unix(),
			},
		}
	case core.EventPresenceChanged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "user_status",
			Data: proto.EventUserStatus{
				UserID: event.UserID,
				Online: event.Online,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
