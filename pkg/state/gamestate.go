package state

import (
	"encoding/json"
	"strings"
)

// Location is a place in the manor as the backend reveals it to the
// client. The world graph itself is backend-owned; the client only ever
// sees the current location and its outgoing connection names.
type Location struct {
	Name        string   `json:"name"`
	Description string   `json:"visual_description,omitempty"`
	Plot        string   `json:"plot,omitempty"`
	Connections []string `json:"connections,omitempty"`
}

// NPC is a character present at the current location. Motive is
// narrative-only data passed through for display; the client never
// interprets it.
type NPC struct {
	Name        string `json:"name"`
	Description string `json:"visual_description,omitempty"`
	Motive      string `json:"motive,omitempty"`
}

// NPCResponse is the transient result of a dialogue exchange. It lives
// for exactly one render cycle and is replaced wholesale by the next
// snapshot.
type NPCResponse struct {
	Name   string `json:"name"`
	Action string `json:"action,omitempty"`
	Speech string `json:"speech,omitempty"`
}

// Choice label prefixes used by the backend. Classification happens once
// at ingestion; nothing else in the client re-parses labels.
const (
	MovePrefix = "Move to"
	TalkPrefix = "Talk to"
)

// ChoiceKind tags a choice by what picking it means for the client.
type ChoiceKind int

const (
	ChoiceGeneric ChoiceKind = iota
	ChoiceMove
	ChoiceTalk
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceMove:
		return "move"
	case ChoiceTalk:
		return "talk"
	default:
		return "generic"
	}
}

// Choice is a single player option. On the wire it is an opaque string;
// the kind is derived from the label when the choice is decoded.
type Choice struct {
	Label string
	Kind  ChoiceKind
}

// ParseChoice classifies a raw choice label by its prefix.
func ParseChoice(label string) Choice {
	c := Choice{Label: label}
	switch {
	case strings.HasPrefix(label, MovePrefix):
		c.Kind = ChoiceMove
	case strings.HasPrefix(label, TalkPrefix):
		c.Kind = ChoiceTalk
	}
	return c
}

func (c Choice) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Label)
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	*c = ParseChoice(label)
	return nil
}

// Snapshot is the complete canonical game state at a point in time. It is
// produced by the backend on every successful action and replaced
// wholesale in the store, except after a move, where location fields and
// narrative fields arrive in two phases and are merged.
type Snapshot struct {
	Location     Location      `json:"current_location"`
	NPCs         []NPC         `json:"available_npcs,omitempty"`
	NPCResponses []NPCResponse `json:"npc_responses,omitempty"`
	Choices      []Choice      `json:"default_choices,omitempty"`
	Narrative    string        `json:"narrative,omitempty"`
	Followup     string        `json:"followup,omitempty"`
	EventSummary string        `json:"event_summary,omitempty"`

	// Timestamp is used only as the asset cache-busting token. It carries
	// no ordering meaning.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// MoveResult is the partial state returned by the move endpoint: the
// destination is known before the arrival narrative has been generated.
type MoveResult struct {
	Location  Location `json:"current_location"`
	NPCs      []NPC    `json:"available_npcs,omitempty"`
	Choices   []Choice `json:"default_choices,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// HasNPC reports whether a character with the given name is present at
// the current location.
func (s *Snapshot) HasNPC(name string) bool {
	for _, npc := range s.NPCs {
		if npc.Name == name {
			return true
		}
	}
	return false
}
