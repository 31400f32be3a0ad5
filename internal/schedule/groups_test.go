package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func mustResolver(t *testing.T, rules []PrecedenceRule) *Resolver {
	t.Helper()
	r, err := NewResolver(rules)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	return r
}

func makeCandidates(job string, n int, activities ...string) []Candidate {
	out := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Candidate{
			ID:         fmt.Sprintf("%s-%03d", job, i+1),
			JobCode:    job,
			Activities: activities,
		})
	}
	return out
}

func windowStartOnly(w OperatingWindow) func(string) Minutes {
	return func(string) Minutes { return w.Start }
}

func TestFormGroups_StableEvenChunking(t *testing.T) {
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 30, MinCapacity: 4, MaxCapacity: 4}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 10, "group_exercise"))
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	sizes := []int{len(groups[0].Members), len(groups[1].Members), len(groups[2].Members)}
	if !reflect.DeepEqual(sizes, []int{4, 3, 3}) {
		t.Fatalf("expected sizes [4 3 3], got %v", sizes)
	}
	if groups[0].Members[0] != "ENG-001" || groups[2].Members[2] != "ENG-010" {
		t.Fatalf("expected members in candidate id order, got %v / %v", groups[0].Members, groups[2].Members)
	}
}

func TestPlanSlots_BalancedDistribution(t *testing.T) {
	// Window 09:00-18:00, duration 30, five groups: available = 510,
	// ideal interval 127.5 inside the clamp bounds, slots floored to
	// 09:00, 11:07, 13:15, 15:22, 17:30.
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 30, MinCapacity: 4, MaxCapacity: 4}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 1080}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 20, "group_exercise"))
	if len(groups) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(groups))
	}
	if err := gs.PlanSlots(groups, act, window, LunchBreak{}, "2026-09-14", windowStartOnly(window), nil); err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []string{"09:00", "11:07", "13:15", "15:22", "17:30"}
	for i, grp := range groups {
		if grp.Start.Clock() != want[i] {
			t.Fatalf("slot %d: got %s want %s", i, grp.Start.Clock(), want[i])
		}
		if grp.End != grp.Start+30 {
			t.Fatalf("slot %d: end %s does not match duration", i, grp.End.Clock())
		}
	}
}

func TestPlanSlots_LunchConflictBumpsToLunchEnd(t *testing.T) {
	// Four groups over 09:00-18:00 put the second raw slot at 11:50,
	// which crosses into the 12:00-13:00 lunch block.
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 30, MinCapacity: 4, MaxCapacity: 5}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 1080}
	lunch := LunchBreak{Start: 720, End: 780}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 20, "group_exercise"))
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	if err := gs.PlanSlots(groups, act, window, lunch, "2026-09-14", windowStartOnly(window), nil); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if groups[1].Start != lunch.End {
		t.Fatalf("expected bumped slot at exactly %s, got %s", lunch.End.Clock(), groups[1].Start.Clock())
	}
}

func TestPlanSlots_IntervalClampedToMaxGap(t *testing.T) {
	// Two groups over a nine-hour window would be 510 minutes apart;
	// the clamp caps the interval at 180.
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 30, MinCapacity: 4, MaxCapacity: 10}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 1080}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 20, "group_exercise"))
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if err := gs.PlanSlots(groups, act, window, LunchBreak{}, "2026-09-14", windowStartOnly(window), nil); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if groups[1].Start-groups[0].Start != 180 {
		t.Fatalf("expected clamped 180-minute interval, got %d", groups[1].Start-groups[0].Start)
	}
}

func TestPlanSlots_SequentialFallbackBelowThresholds(t *testing.T) {
	// Min capacity under the distribution threshold: groups pack
	// back to back with the fixed buffer instead.
	act := Activity{Name: "form_review", Mode: ModeBatched, Duration: 30, MinCapacity: 2, MaxCapacity: 3}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 1080}
	policy := DefaultPolicy()
	gs := NewGroupScheduler(policy, mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 6, "form_review"))
	if err := gs.PlanSlots(groups, act, window, LunchBreak{}, "2026-09-14", windowStartOnly(window), nil); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if groups[0].Start != 540 {
		t.Fatalf("first group should start at window start, got %s", groups[0].Start.Clock())
	}
	wantSecond := Minutes(540) + act.Duration + policy.SequentialBuffer
	if groups[1].Start != wantSecond {
		t.Fatalf("second group: got %s want %s", groups[1].Start.Clock(), wantSecond.Clock())
	}
}

func TestPlanSlots_PrecedencePushesGroupToMostConstrainedMember(t *testing.T) {
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 30, MinCapacity: 4, MaxCapacity: 4}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 1080}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 4, "group_exercise"))
	earliest := func(id string) Minutes {
		if id == "ENG-003" {
			return 600
		}
		return 540
	}
	if err := gs.PlanSlots(groups, act, window, LunchBreak{}, "2026-09-14", earliest, nil); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if groups[0].Start != 600 {
		t.Fatalf("group cannot start before its most-constrained member: got %s", groups[0].Start.Clock())
	}
}

func TestPlanSlots_OverflowFailsWithContext(t *testing.T) {
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 120, MinCapacity: 2, MaxCapacity: 4}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 540, End: 720}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 8, "group_exercise"))
	err := gs.PlanSlots(groups, act, window, LunchBreak{}, "2026-09-14", windowStartOnly(window), nil)
	if err == nil {
		t.Fatalf("expected scheduling failure")
	}
	var sf *SchedulingFailureError
	if !errors.As(err, &sf) {
		t.Fatalf("expected *SchedulingFailureError, got %T", err)
	}
	if sf.Activity != "group_exercise" || sf.Date != "2026-09-14" || sf.GroupID == "" {
		t.Fatalf("failure must name activity, group and date: %+v", sf)
	}
}

func TestPlanSlots_Deterministic(t *testing.T) {
	act := Activity{Name: "group_exercise", Mode: ModeBatched, Duration: 45, MinCapacity: 4, MaxCapacity: 6}
	window := OperatingWindow{JobCode: "ENG", Date: "2026-09-14", Start: 510, End: 1050}
	lunch := LunchBreak{Start: 720, End: 780}
	gs := NewGroupScheduler(DefaultPolicy(), mustResolver(t, nil))

	run := func() []Minutes {
		groups := gs.FormGroups(act, "ENG", makeCandidates("ENG", 17, "group_exercise"))
		if err := gs.PlanSlots(groups, act, window, lunch, "2026-09-14", windowStartOnly(window), nil); err != nil {
			t.Fatalf("plan: %v", err)
		}
		out := make([]Minutes, len(groups))
		for i, g := range groups {
			out[i] = g.Start
		}
		return out
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("slot computation must be idempotent: %v vs %v", first, second)
	}
}
