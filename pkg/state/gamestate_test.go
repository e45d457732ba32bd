package state

import (
	"encoding/json"
	"testing"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected ChoiceKind
	}{
		{"move choice", "Move to a new location (Study, Ballroom)", ChoiceMove},
		{"talk choice", "Talk to someone (Lady Ravenshade)", ChoiceTalk},
		{"generic choice", "Explore the area", ChoiceGeneric},
		{"move mid-label is generic", "Consider a Move to the Study", ChoiceGeneric},
		{"lowercase prefix is generic", "move to the study", ChoiceGeneric},
		{"empty label", "", ChoiceGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseChoice(tt.label)
			if c.Kind != tt.expected {
				t.Errorf("ParseChoice(%q).Kind = %v, want %v", tt.label, c.Kind, tt.expected)
			}
			if c.Label != tt.label {
				t.Errorf("ParseChoice(%q).Label = %q, want original label", tt.label, c.Label)
			}
		})
	}
}

func TestSnapshotUnmarshal(t *testing.T) {
	payload := `{
		"current_location": {
			"name": "Grand Foyer",
			"visual_description": "A sweeping staircase under a dusty chandelier.",
			"connections": ["Study", "Ballroom"]
		},
		"available_npcs": [
			{"name": "Lady Ravenshade", "visual_description": "A widow in black lace.", "motive": "protect the estate"}
		],
		"npc_responses": [
			{"name": "Lady Ravenshade", "action": "narrows her eyes", "speech": "I saw nothing."}
		],
		"default_choices": ["Explore the area", "Talk to someone (Lady Ravenshade)", "Move to a new location (Study, Ballroom)"],
		"narrative": "Narrative: The foyer is silent.",
		"followup": "Update: She is hiding something.",
		"event_summary": "Game started at Grand Foyer.",
		"timestamp": 1700000000
	}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("failed to unmarshal snapshot: %v", err)
	}

	if snap.Location.Name != "Grand Foyer" {
		t.Errorf("Location.Name = %q, want Grand Foyer", snap.Location.Name)
	}
	if len(snap.Location.Connections) != 2 || snap.Location.Connections[0] != "Study" {
		t.Errorf("unexpected connections: %v", snap.Location.Connections)
	}
	if len(snap.NPCs) != 1 || snap.NPCs[0].Motive != "protect the estate" {
		t.Errorf("unexpected NPCs: %+v", snap.NPCs)
	}
	if len(snap.NPCResponses) != 1 || snap.NPCResponses[0].Action != "narrows her eyes" {
		t.Errorf("unexpected NPC responses: %+v", snap.NPCResponses)
	}

	wantKinds := []ChoiceKind{ChoiceGeneric, ChoiceTalk, ChoiceMove}
	if len(snap.Choices) != len(wantKinds) {
		t.Fatalf("got %d choices, want %d", len(snap.Choices), len(wantKinds))
	}
	for i, k := range wantKinds {
		if snap.Choices[i].Kind != k {
			t.Errorf("choice %d kind = %v, want %v", i, snap.Choices[i].Kind, k)
		}
	}
}

func TestChoiceMarshalRoundTrip(t *testing.T) {
	c := ParseChoice("Move to a new location")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"Move to a new location"` {
		t.Errorf("choice should marshal as its bare label, got %s", data)
	}
}

func TestMoveResultUnmarshal(t *testing.T) {
	payload := `{
		"current_location": {"name": "Study", "connections": ["Grand Foyer"]},
		"available_npcs": [{"name": "Dr. Hargrove"}],
		"default_choices": ["Explore the area"],
		"timestamp": 42
	}`

	var mr MoveResult
	if err := json.Unmarshal([]byte(payload), &mr); err != nil {
		t.Fatalf("failed to unmarshal move result: %v", err)
	}
	if mr.Location.Name != "Study" || mr.Timestamp != 42 {
		t.Errorf("unexpected move result: %+v", mr)
	}
}

func TestHasNPC(t *testing.T) {
	snap := Snapshot{NPCs: []NPC{{Name: "Edmund"}, {Name: "Clara"}}}
	if !snap.HasNPC("Clara") {
		t.Error("expected Clara to be present")
	}
	if snap.HasNPC("Victor") {
		t.Error("did not expect Victor to be present")
	}
}
