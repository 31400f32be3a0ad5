package schedule

import (
	"errors"
	"testing"
)

func TestNewResolver_RejectsCycle(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "A", Successor: "B"},
		{Predecessor: "B", Successor: "A"},
	}
	_, err := NewResolver(rules)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cyc.Cycle) < 3 {
		t.Fatalf("expected the cycle to be named, got %v", cyc.Cycle)
	}
}

func TestNewResolver_AcceptsDAGWithAnchors(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: AnchorStart, Successor: "briefing"},
		{Predecessor: "briefing", Successor: "interview", GapMinutes: 10},
		{Predecessor: "interview", Successor: AnchorEnd},
	}
	if _, err := NewResolver(rules); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEarliestStart_MaxOverPredecessors(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "briefing", Successor: "interview", GapMinutes: 15},
		{Predecessor: "aptitude", Successor: "interview", GapMinutes: 0},
	}
	r, err := NewResolver(rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := &Candidate{ID: "ENG-001", JobCode: "ENG", Activities: []string{"briefing", "aptitude", "interview"}}
	placed := map[string]ScheduleItem{
		"briefing": {Activity: "briefing", Start: 540, End: 570},
		"aptitude": {Activity: "aptitude", Start: 580, End: 640},
	}
	got := r.EarliestStart(c, "interview", 540, placed)
	if got != 640 {
		t.Fatalf("expected earliest start 640, got %d", got)
	}
}

func TestEarliestStart_NoScheduledPredecessorFallsBackToWindow(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "briefing", Successor: "interview", GapMinutes: 15},
	}
	r, _ := NewResolver(rules)
	c := &Candidate{ID: "ENG-001", JobCode: "ENG", Activities: []string{"briefing", "interview"}}
	got := r.EarliestStart(c, "interview", 540, nil)
	if got != 540 {
		t.Fatalf("expected window start 540, got %d", got)
	}
}

func TestEarliestStart_StartAnchorAddsGap(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: AnchorStart, Successor: "interview", GapMinutes: 30},
	}
	r, _ := NewResolver(rules)
	got := r.EarliestStart(nil, "interview", 540, nil)
	if got != 570 {
		t.Fatalf("expected 570, got %d", got)
	}
}

func TestTopoOrder_RespectsRulesAndInputOrder(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "briefing", Successor: "interview"},
		{Predecessor: "interview", Successor: "debrief"},
	}
	r, _ := NewResolver(rules)
	got := r.TopoOrder([]string{"debrief", "interview", "aptitude", "briefing"})
	want := []string{"aptitude", "briefing", "interview", "debrief"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestTopoOrder_EndAnchoredSortsLast(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "debrief", Successor: AnchorEnd},
	}
	r, _ := NewResolver(rules)
	got := r.TopoOrder([]string{"debrief", "interview", "aptitude"})
	if got[len(got)-1] != "debrief" {
		t.Fatalf("expected debrief last, got %v", got)
	}
}

func TestAdjacentRule_FoundOnlyWhenFlagged(t *testing.T) {
	rules := []PrecedenceRule{
		{Predecessor: "prep", Successor: "interview", GapMinutes: 0, Adjacent: true},
		{Predecessor: "briefing", Successor: "debrief", GapMinutes: 5},
	}
	r, _ := NewResolver(rules)
	rule, ok := r.AdjacentRule("interview")
	if !ok || rule.Predecessor != "prep" {
		t.Fatalf("expected adjacent rule prep->interview, got %+v ok=%v", rule, ok)
	}
	if _, ok := r.AdjacentRule("debrief"); ok {
		t.Fatalf("debrief rule is not adjacent")
	}
}
