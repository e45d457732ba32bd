package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tmorgan318/ravenshade/internal/logger"
	"github.com/tmorgan318/ravenshade/pkg/state"
)

// ErrorResponse matches the backend's error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Gateway issues the five remote game operations and normalizes their
// responses. It never retries; recovery is the caller's decision.
type Gateway struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func New(client *http.Client, baseURL string, log *slog.Logger) *Gateway {
	return &Gateway{
		client:  client,
		baseURL: baseURL,
		logger:  log,
	}
}

type startGameRequest struct {
	PlayerName string `json:"player_name"`
	PlayerRole string `json:"player_role"`
}

// StartGame begins a new session and returns the initial snapshot.
func (g *Gateway) StartGame(ctx context.Context, playerName, playerRole string) (*state.Snapshot, error) {
	if playerName == "" {
		return nil, &ValidationError{Field: "player name"}
	}
	if playerRole == "" {
		return nil, &ValidationError{Field: "player role"}
	}

	var snap state.Snapshot
	req := startGameRequest{PlayerName: playerName, PlayerRole: playerRole}
	if err := g.post(ctx, "/v1/game/start", req, &snap); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	return &snap, nil
}

type dialogueRequest struct {
	NPCIndex int    `json:"npc_index"`
	Dialogue string `json:"dialogue"`
	Choice   string `json:"choice,omitempty"`
}

// SubmitDialogue sends a line of free-text dialogue to the NPC at the
// given index within the currently displayed NPC list.
func (g *Gateway) SubmitDialogue(ctx context.Context, npcIndex int, dialogue, choiceLabel string) (*state.Snapshot, error) {
	if dialogue == "" {
		return nil, &ValidationError{Field: "dialogue"}
	}

	var snap state.Snapshot
	req := dialogueRequest{NPCIndex: npcIndex, Dialogue: dialogue, Choice: choiceLabel}
	if err := g.post(ctx, "/v1/game/dialogue", req, &snap); err != nil {
		return nil, fmt.Errorf("failed to submit dialogue: %w", err)
	}
	return &snap, nil
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

// SubmitChoice submits a generic (non-move, non-talk) action choice.
func (g *Gateway) SubmitChoice(ctx context.Context, choiceText string) (*state.Snapshot, error) {
	var snap state.Snapshot
	if err := g.post(ctx, "/v1/game/choice", choiceRequest{Choice: choiceText}, &snap); err != nil {
		return nil, fmt.Errorf("failed to submit choice: %w", err)
	}
	return &snap, nil
}

type moveRequest struct {
	Connections []string `json:"connections"`
	Destination string   `json:"destination"`
}

// RequestMove asks the backend to relocate the player. The response is
// partial: location, NPCs and choices only, no narrative.
func (g *Gateway) RequestMove(ctx context.Context, connections []string, chosenLocation string) (*state.MoveResult, error) {
	var result state.MoveResult
	req := moveRequest{Connections: connections, Destination: chosenLocation}
	if err := g.post(ctx, "/v1/game/move", req, &result); err != nil {
		return nil, fmt.Errorf("failed to request move: %w", err)
	}
	return &result, nil
}

type statusResponse struct {
	IsProcessing bool `json:"is_processing"`
}

// PollStatus reports whether the backend is mid-generation. It is
// side-effect-free and cheap enough to call on a fixed interval.
func (g *Gateway) PollStatus(ctx context.Context) (bool, error) {
	requestID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/game/status", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		return false, &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, transportError(resp.StatusCode, body)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return false, fmt.Errorf("failed to parse status response: %w", err)
	}
	return status.IsProcessing, nil
}

// post issues a JSON POST and decodes a 200 response into out.
func (g *Gateway) post(ctx context.Context, path string, payload any, out any) error {
	requestID := uuid.New().String()
	log := logger.WithRequestID(g.logger, requestID)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Debug("sending request", "path", path)
	resp, err := g.client.Do(req)
	if err != nil {
		logger.WithError(log, err).Debug("request failed", "path", path)
		return &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Debug("request rejected", "path", path, "status", resp.StatusCode)
		return transportError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func transportError(statusCode int, body []byte) *TransportError {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error != "" {
		return &TransportError{StatusCode: statusCode, Message: errorResp.Error}
	}
	return &TransportError{StatusCode: statusCode, Message: string(body)}
}
