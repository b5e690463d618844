package services

import (
	"context"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/runtime"
)

type IChatService interface {
	PostMessage(ctx context.Context, username, text string, room domain.RoomID) (domain.Message, error)
	History() ([]domain.Message, error)
	Admit(connectionID string, identity domain.Identity, sink runtime.EventSink)
	JoinRoom(ctx context.Context, connectionID string, room domain.RoomID)
	Typing(ctx context.Context, connectionID, username string, room domain.RoomID)
	StopTyping(ctx context.Context, connectionID, username string, room domain.RoomID)
	Disconnect(ctx context.Context, connectionID string)
}

// ChatService is the thin application layer between the transports and
// the engine. Request validation lives here so the orchestrator only
// ever sees well-formed input.
type ChatService struct {
	orchestrator *runtime.Orchestrator
}

func NewChatService(orchestrator *runtime.Orchestrator) *ChatService {
	return &ChatService{orchestrator: orchestrator}
}

func (s *ChatService) PostMessage(ctx context.Context, username, text string, room domain.RoomID) (domain.Message, error) {
	req := auth.PostMessageRequest{Username: username, Text: text, Room: string(room)}
	if err := auth.ValidatePostMessage(req); err != nil {
		return domain.Message{}, err
	}
	return s.orchestrator.PostMessage(ctx, username, text, room)
}

func (s *ChatService) History() ([]domain.Message, error) {
	return s.orchestrator.History()
}

func (s *ChatService) Admit(connectionID string, identity domain.Identity, sink runtime.EventSink) {
	s.orchestrator.Admit(connectionID, identity, sink)
}

func (s *ChatService) JoinRoom(ctx context.Context, connectionID string, room domain.RoomID) {
	s.orchestrator.JoinRoom(ctx, connectionID, room)
}

func (s *ChatService) Typing(ctx context.Context, connectionID, username string, room domain.RoomID) {
	s.orchestrator.Typing(ctx, connectionID, username, room)
}

func (s *ChatService) StopTyping(ctx context.Context, connectionID, username string, room domain.RoomID) {
	s.orchestrator.StopTyping(ctx, connectionID, username, room)
}

func (s *ChatService) Disconnect(ctx context.Context, connectionID string) {
	s.orchestrator.Disconnect(ctx, connectionID)
}
