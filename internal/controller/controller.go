package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmorgan318/ravenshade/internal/store"
	"github.com/tmorgan318/ravenshade/pkg/state"
)

// Phase is the controller's network state. Pure UI-state changes (NPC
// selection, choice toggling, narrative/followup flips) never move it.
type Phase int

const (
	Idle Phase = iota
	AwaitingStart
	AwaitingAction
	AwaitingMovePhase1
	AwaitingMovePhase2
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingStart:
		return "awaiting_start"
	case AwaitingAction:
		return "awaiting_action"
	case AwaitingMovePhase1:
		return "awaiting_move_phase1"
	case AwaitingMovePhase2:
		return "awaiting_move_phase2"
	default:
		return "unknown"
	}
}

// Gateway is the remote surface the controller drives. Satisfied by
// *gateway.Gateway.
type Gateway interface {
	StartGame(ctx context.Context, playerName, playerRole string) (*state.Snapshot, error)
	SubmitDialogue(ctx context.Context, npcIndex int, dialogue, choiceLabel string) (*state.Snapshot, error)
	SubmitChoice(ctx context.Context, choiceText string) (*state.Snapshot, error)
	RequestMove(ctx context.Context, connections []string, chosenLocation string) (*state.MoveResult, error)
	PollStatus(ctx context.Context) (bool, error)
}

var (
	// ErrBusy rejects a player action fired while another is in flight.
	ErrBusy = errors.New("an action is already in progress")

	// ErrNoNPCSelected rejects dialogue submission without a selected NPC.
	ErrNoNPCSelected = errors.New("no character is selected")

	// ErrNoChoiceSelected rejects choice submission with nothing selected.
	ErrNoChoiceSelected = errors.New("no choice is selected")

	// ErrNoPendingMove rejects CompleteMove outside the move flow.
	ErrNoPendingMove = errors.New("no move is in progress")
)

// ToggleOutcome tells the render layer what a choice toggle means next.
type ToggleOutcome int

const (
	// ToggledOff: the choice was deselected; nothing further happens.
	ToggledOff ToggleOutcome = iota
	// OpenedMoveMenu: a move choice was selected; the destination submenu
	// is now open and waits for a pick. No network call was made.
	OpenedMoveMenu
	// SelectedTalk: a talk choice was selected; the player should pick an
	// NPC to address. No network call was made.
	SelectedTalk
	// ReadyToSubmit: a generic choice was selected and may be submitted.
	ReadyToSubmit
)

// Controller drives player actions against the gateway and is the only
// writer of the store besides the bootstrap. One instance serves one
// session; it is not safe for concurrent use, matching the single
// event-loop scheduling of the client.
type Controller struct {
	gw     Gateway
	store  *store.Store
	logger *slog.Logger

	phase Phase

	// Move flow scratch, valid only between phases 1 and 2.
	pendingMove *state.MoveResult
	moveDest    string
}

func New(gw Gateway, st *store.Store, log *slog.Logger) *Controller {
	return &Controller{
		gw:     gw,
		store:  st,
		logger: log,
		phase:  AwaitingStart,
	}
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// StartGame performs the bootstrap call. On failure the machine stays in
// AwaitingStart; the session is unusable until a retry succeeds.
func (c *Controller) StartGame(ctx context.Context, playerName, playerRole string) error {
	if c.phase != AwaitingStart {
		return ErrBusy
	}

	c.store.SetActionPending(true)
	defer c.store.SetActionPending(false)

	snap, err := c.gw.StartGame(ctx, playerName, playerRole)
	if err != nil {
		return err
	}

	c.store.Replace(*snap)
	c.phase = Idle
	c.logger.Info("game started", "location", snap.Location.Name, "npcs", len(snap.NPCs))
	return nil
}

// SelectNPC opens the dialogue input for the NPC at index i. Pure
// UI-state change.
func (c *Controller) SelectNPC(i int) {
	c.store.SelectNPC(i)
}

// ClearNPCSelection closes the dialogue input. Pure UI-state change.
func (c *Controller) ClearNPCSelection() {
	c.store.ClearNPCSelection()
}

// SubmitDialogue sends the pending dialogue to the selected NPC. On
// failure the selection and pending text stay intact so the player can
// retry without re-selecting.
func (c *Controller) SubmitDialogue(ctx context.Context, dialogue string) error {
	if c.phase != Idle {
		return ErrBusy
	}
	npcIndex := c.store.SelectedNPC()
	if npcIndex == store.NoSelection {
		return ErrNoNPCSelected
	}

	var choiceLabel string
	if i := c.store.SelectedChoice(); i != store.NoSelection {
		choiceLabel = c.store.Snapshot().Choices[i].Label
	}

	c.phase = AwaitingAction
	c.store.SetActionPending(true)

	snap, err := c.gw.SubmitDialogue(ctx, npcIndex, dialogue, choiceLabel)
	c.phase = Idle
	c.store.SetActionPending(false)
	if err != nil {
		return err
	}

	c.store.Replace(*snap)
	c.store.ClearNPCSelection()
	c.store.ClearChoiceSelection()
	return nil
}

// ToggleChoice flips the selection state of the choice at index i and
// classifies what should happen next. Never issues a network call by
// itself: move choices open the destination submenu, talk choices hand
// off to NPC selection, and generic choices are submitted by a separate
// SubmitSelectedChoice call.
func (c *Controller) ToggleChoice(i int) (ToggleOutcome, error) {
	if c.phase != Idle {
		return ToggledOff, ErrBusy
	}

	selected := c.store.ToggleChoice(i)
	if !selected {
		c.store.CloseMoveMenu()
		return ToggledOff, nil
	}

	snap := c.store.Snapshot()
	switch snap.Choices[i].Kind {
	case state.ChoiceMove:
		c.store.OpenMoveMenu()
		return OpenedMoveMenu, nil
	case state.ChoiceTalk:
		c.store.CloseMoveMenu()
		return SelectedTalk, nil
	default:
		c.store.CloseMoveMenu()
		return ReadyToSubmit, nil
	}
}

// SubmitSelectedChoice sends the currently selected generic choice. On
// failure the button stays selected and the machine returns to Idle.
func (c *Controller) SubmitSelectedChoice(ctx context.Context) error {
	if c.phase != Idle {
		return ErrBusy
	}
	i := c.store.SelectedChoice()
	if i == store.NoSelection {
		return ErrNoChoiceSelected
	}
	label := c.store.Snapshot().Choices[i].Label

	c.phase = AwaitingAction
	c.store.SetActionPending(true)

	snap, err := c.gw.SubmitChoice(ctx, label)
	c.phase = Idle
	c.store.SetActionPending(false)
	if err != nil {
		return err
	}

	c.store.Replace(*snap)
	c.store.ClearChoiceSelection()
	c.store.ClearNPCSelection()
	return nil
}

// BeginMove runs phase 1 of the move flow: request the relocation, then
// make the destination visible immediately with a placeholder narrative
// so the UI never appears frozen. On failure the prior choice-button
// state is restored and nothing changes.
func (c *Controller) BeginMove(ctx context.Context, destination string) error {
	if c.phase != Idle {
		return ErrBusy
	}

	snap := c.store.Snapshot()
	prevChoice := c.store.SelectedChoice()

	c.phase = AwaitingMovePhase1
	c.store.SetActionPending(true)

	move, err := c.gw.RequestMove(ctx, snap.Location.Connections, destination)
	if err != nil {
		c.phase = Idle
		c.store.SetActionPending(false)
		c.store.RestoreChoiceSelection(prevChoice)
		return err
	}

	interim := state.Snapshot{
		Location:  move.Location,
		NPCs:      move.NPCs,
		Choices:   move.Choices,
		Timestamp: move.Timestamp,
		Narrative: fmt.Sprintf("Moving to %s...", destination),
	}
	c.store.Replace(interim)
	c.store.CloseMoveMenu()
	c.store.ClearChoiceSelection()
	c.store.ClearNPCSelection()

	c.pendingMove = move
	c.moveDest = destination
	c.phase = AwaitingMovePhase2
	c.logger.Debug("move phase 1 complete", "destination", destination)
	return nil
}

// CompleteMove runs phase 2: obtain the arrival narrative and merge it
// with the phase-1 result. If it fails, the relocation stands (it
// already happened) and the narrative becomes an error notice instead of
// the placeholder.
func (c *Controller) CompleteMove(ctx context.Context) error {
	if c.phase != AwaitingMovePhase2 || c.pendingMove == nil {
		return ErrNoPendingMove
	}

	move := *c.pendingMove
	dest := c.moveDest
	c.pendingMove = nil
	c.moveDest = ""

	arrival, err := c.gw.SubmitChoice(ctx, fmt.Sprintf("Arrived at %s", dest))
	c.phase = Idle
	c.store.SetActionPending(false)
	if err != nil {
		failed := state.Snapshot{
			Location:  move.Location,
			NPCs:      move.NPCs,
			Choices:   move.Choices,
			Timestamp: move.Timestamp,
			Narrative: fmt.Sprintf("You arrive at %s, but the story falters. Please try another action.", dest),
		}
		c.store.Replace(failed)
		return err
	}

	c.store.MergeAfterMove(move, *arrival)
	c.logger.Debug("move complete", "destination", dest)
	return nil
}

// ToggleNarrative flips the visible text between the saved narrative and
// followup slots. Pure UI-state change, never a network call.
func (c *Controller) ToggleNarrative() {
	c.store.ToggleFollowup()
}
