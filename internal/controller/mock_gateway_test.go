package controller

import (
	"context"

	"github.com/tmorgan318/ravenshade/pkg/state"
)

// MockGateway is a scripted Gateway implementation for controller tests.
type MockGateway struct {
	StartGameFunc      func(ctx context.Context, playerName, playerRole string) (*state.Snapshot, error)
	SubmitDialogueFunc func(ctx context.Context, npcIndex int, dialogue, choiceLabel string) (*state.Snapshot, error)
	SubmitChoiceFunc   func(ctx context.Context, choiceText string) (*state.Snapshot, error)
	RequestMoveFunc    func(ctx context.Context, connections []string, chosenLocation string) (*state.MoveResult, error)
	PollStatusFunc     func(ctx context.Context) (bool, error)

	// Track calls for assertions
	StartGameCalls      int
	SubmitDialogueCalls []SubmitDialogueCall
	SubmitChoiceCalls   []string
	RequestMoveCalls    []RequestMoveCall
	PollStatusCalls     int
}

type SubmitDialogueCall struct {
	NPCIndex    int
	Dialogue    string
	ChoiceLabel string
}

type RequestMoveCall struct {
	Connections []string
	Destination string
}

func (m *MockGateway) StartGame(ctx context.Context, playerName, playerRole string) (*state.Snapshot, error) {
	m.StartGameCalls++
	if m.StartGameFunc != nil {
		return m.StartGameFunc(ctx, playerName, playerRole)
	}
	return &state.Snapshot{}, nil
}

func (m *MockGateway) SubmitDialogue(ctx context.Context, npcIndex int, dialogue, choiceLabel string) (*state.Snapshot, error) {
	m.SubmitDialogueCalls = append(m.SubmitDialogueCalls, SubmitDialogueCall{
		NPCIndex:    npcIndex,
		Dialogue:    dialogue,
		ChoiceLabel: choiceLabel,
	})
	if m.SubmitDialogueFunc != nil {
		return m.SubmitDialogueFunc(ctx, npcIndex, dialogue, choiceLabel)
	}
	return &state.Snapshot{}, nil
}

func (m *MockGateway) SubmitChoice(ctx context.Context, choiceText string) (*state.Snapshot, error) {
	m.SubmitChoiceCalls = append(m.SubmitChoiceCalls, choiceText)
	if m.SubmitChoiceFunc != nil {
		return m.SubmitChoiceFunc(ctx, choiceText)
	}
	return &state.Snapshot{}, nil
}

func (m *MockGateway) RequestMove(ctx context.Context, connections []string, chosenLocation string) (*state.MoveResult, error) {
	m.RequestMoveCalls = append(m.RequestMoveCalls, RequestMoveCall{
		Connections: connections,
		Destination: chosenLocation,
	})
	if m.RequestMoveFunc != nil {
		return m.RequestMoveFunc(ctx, connections, chosenLocation)
	}
	return &state.MoveResult{}, nil
}

func (m *MockGateway) PollStatus(ctx context.Context) (bool, error) {
	m.PollStatusCalls++
	if m.PollStatusFunc != nil {
		return m.PollStatusFunc(ctx)
	}
	return false, nil
}
