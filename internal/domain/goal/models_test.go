package goal

import (
	"encoding/json"
	"testing"
)

func TestWire_ToGoal(t *testing.T) {
	raw := `{"id":"g1","name":"Reserva","targetAmount":null,"currentAmount":150,"color":null,"progressPercentage":999,"status":"completed","endDate":null,"createdAt":"2025-01-10T10:00:00Z","updatedAt":"2025-02-01T10:00:00Z"}`

	var w Wire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	g := w.ToGoal()

	if !g.TargetAmount.IsZero() {
		t.Errorf("TargetAmount = %s, want 0", g.TargetAmount)
	}
	if g.Status != StatusCompleted {
		t.Errorf("Status = %q, want COMPLETED", g.Status)
	}
	if !g.Progress().IsZero() {
		t.Errorf("Progress() with zero target = %s, want 0", g.Progress())
	}
	if g.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", g.EndDate)
	}
	if g.Color != DefaultColor {
		t.Errorf("Color = %q, want %q", g.Color, DefaultColor)
	}
}

func TestWire_ToGoalColor(t *testing.T) {
	color := func(s string) *string { return &s }

	tests := []struct {
		name  string
		color *string
		want  string
	}{
		{"missing", nil, DefaultColor},
		{"blank", color("  "), DefaultColor},
		{"set", color("#40C057"), "#40C057"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Wire{ID: "g1", Color: tt.color}.ToGoal()
			if g.Color != tt.want {
				t.Errorf("Color = %q, want %q", g.Color, tt.want)
			}
		})
	}
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		target, current, want string
	}{
		{"1000", "250", "25"},
		{"3", "1", "33.33"},
		{"100", "150", "100"},
		{"0", "10", "0"},
	}

	for _, tt := range tests {
		g := newGoal(tt.target, tt.current, StatusActive)
		if got := g.Progress(); !got.Equal(d(tt.want)) {
			t.Errorf("Progress(%s/%s) = %s, want %s", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestList_Sorted(t *testing.T) {
	list := List{
		{ID: "done-status", TargetAmount: d("100"), CurrentAmount: d("10"), Status: StatusCompleted},
		{ID: "a", TargetAmount: d("100"), CurrentAmount: d("10"), Status: StatusActive},
		{ID: "reached", TargetAmount: d("100"), CurrentAmount: d("100"), Status: StatusActive},
		{ID: "b", TargetAmount: d("100"), CurrentAmount: d("0"), Status: StatusActive},
	}

	sorted := list.Sorted()

	want := []string{"a", "b", "done-status", "reached"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("Sorted()[%d] = %s, want %s", i, sorted[i].ID, id)
		}
	}
	if list[0].ID != "done-status" {
		t.Error("Sorted() modified the receiver")
	}
}
