package store

import (
	"sync"
	"time"

	"github.com/tmorgan318/ravenshade/pkg/state"
)

// NoSelection marks an empty NPC or choice selection.
const NoSelection = -1

// Store owns the single canonical snapshot of the visible world plus the
// transient UI selection state. Everything flows through Replace and
// MergeAfterMove; nothing else mutates the snapshot.
type Store struct {
	mu sync.RWMutex

	snap state.Snapshot
	gen  uint64

	// Saved slots. Narrative and followup are retained after display so
	// the player can toggle between them without re-fetching.
	savedNarrative string
	savedFollowup  string
	showFollowup   bool

	// UI selection state. Never sent to the backend except as parameters
	// of the next action.
	selectedNPC     int
	selectedChoice  int
	moveMenuOpen    bool
	pendingDialogue string

	// Busy indicator inputs. The visible flag is the OR of both, so the
	// controller and the poller never clobber each other's writes.
	actionPending    bool
	serverProcessing bool
}

func New() *Store {
	return &Store{
		selectedNPC:    NoSelection,
		selectedChoice: NoSelection,
	}
}

// Replace swaps the snapshot wholesale. Narrative and followup are
// captured into the saved slots only when the incoming fields are
// non-empty; an absent field keeps the prior saved value. Selection of a
// view (narrative vs followup) resets to narrative.
func (s *Store) Replace(snap state.Snapshot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Narrative != "" {
		s.savedNarrative = snap.Narrative
	}
	if snap.Followup != "" {
		s.savedFollowup = snap.Followup
	}
	if snap.Timestamp == 0 {
		snap.Timestamp = time.Now().Unix()
	}

	s.snap = snap
	s.gen++
	s.showFollowup = false

	// Selections that pointed into the old snapshot may no longer exist.
	if s.selectedChoice >= len(snap.Choices) {
		s.selectedChoice = NoSelection
	}
	if s.selectedNPC >= len(snap.NPCs) {
		s.selectedNPC = NoSelection
	}
	return s.gen
}

// MergeAfterMove combines the two phases of a move: location, NPCs,
// choices and timestamp come from the move result; narrative, followup
// and the rest come from the arrival response.
func (s *Store) MergeAfterMove(move state.MoveResult, narrative state.Snapshot) uint64 {
	combined := narrative
	combined.Location = move.Location
	combined.NPCs = move.NPCs
	combined.Choices = move.Choices
	combined.Timestamp = move.Timestamp
	return s.Replace(combined)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() state.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Generation returns a counter that advances on every Replace. Stale
// asynchronous results compare against it before applying.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// ContainsLocation reports whether name is the current location.
func (s *Store) ContainsLocation(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Location.Name == name
}

// ContainsNPC reports whether an NPC with the given name is in the
// current snapshot.
func (s *Store) ContainsNPC(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.HasNPC(name)
}

// SavedNarrative returns the retained narrative slot.
func (s *Store) SavedNarrative() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedNarrative
}

// SavedFollowup returns the retained followup slot.
func (s *Store) SavedFollowup() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedFollowup
}

// ToggleFollowup flips between the two saved text slots. With no saved
// followup it is a no-op and the narrative stays active.
func (s *Store) ToggleFollowup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedFollowup == "" {
		s.showFollowup = false
		return
	}
	s.showFollowup = !s.showFollowup
}

// ShowingFollowup reports which saved slot is active.
func (s *Store) ShowingFollowup() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showFollowup
}

// ActiveText returns the text of the currently active saved slot.
func (s *Store) ActiveText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.showFollowup && s.savedFollowup != "" {
		return s.savedFollowup
	}
	return s.savedNarrative
}

// SelectNPC marks the NPC at index i as selected. Out-of-range indexes
// clear the selection.
func (s *Store) SelectNPC(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.snap.NPCs) {
		s.selectedNPC = NoSelection
		return
	}
	s.selectedNPC = i
}

func (s *Store) SelectedNPC() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedNPC
}

func (s *Store) ClearNPCSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedNPC = NoSelection
	s.pendingDialogue = ""
}

// ToggleChoice selects the choice at index i, implicitly deselecting any
// other. Toggling the already-selected choice clears the selection; the
// return value reports whether a choice is selected afterwards.
func (s *Store) ToggleChoice(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i == s.selectedChoice {
		s.selectedChoice = NoSelection
		return false
	}
	if i < 0 || i >= len(s.snap.Choices) {
		s.selectedChoice = NoSelection
		return false
	}
	s.selectedChoice = i
	return true
}

func (s *Store) SelectedChoice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedChoice
}

func (s *Store) ClearChoiceSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedChoice = NoSelection
}

// RestoreChoiceSelection puts back a previously captured selection, used
// when a move aborts in phase 1.
func (s *Store) RestoreChoiceSelection(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < NoSelection || i >= len(s.snap.Choices) {
		i = NoSelection
	}
	s.selectedChoice = i
}

func (s *Store) OpenMoveMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveMenuOpen = true
}

func (s *Store) CloseMoveMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveMenuOpen = false
}

func (s *Store) MoveMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveMenuOpen
}

func (s *Store) SetPendingDialogue(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDialogue = text
}

func (s *Store) PendingDialogue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingDialogue
}

// SetActionPending records whether a player-triggered request is in
// flight.
func (s *Store) SetActionPending(pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionPending = pending
}

// SetServerProcessing records the server-reported processing flag from
// the status poller.
func (s *Store) SetServerProcessing(processing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverProcessing = processing
}

// Busy reports whether the processing indicator should be visible:
// true while an action is pending or the server reports work in
// progress.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actionPending || s.serverProcessing
}
