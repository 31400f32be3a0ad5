package services

import (
	"testing"

	"github.com/yungbote/interviewday-backend/internal/schedule"
)

func baseRequest() SolveRequest {
	return SolveRequest{
		Dates: []string{"2026-09-01"},
		Activities: []ActivityInput{
			{Name: "prep", Mode: "individual", DurationMinutes: 5, RoomType: "Prep"},
			{Name: "interview", Mode: "individual", DurationMinutes: 15, RoomType: "Interview"},
			{Name: "group_exercise", Mode: "batched", DurationMinutes: 60, RoomType: "Exercise", MinCapacity: 4, MaxCapacity: 6},
		},
		JobCodes: []JobCodeInput{
			{Code: "ENG", CandidateCount: 3, Activities: map[string]bool{"prep": true, "interview": true, "group_exercise": true}},
		},
		RoomTemplates: []RoomTemplateInput{
			{RoomType: "Prep", Count: 2, Capacity: 1},
			{RoomType: "Interview", Count: 2, Capacity: 1},
			{RoomType: "Exercise", Count: 1, Capacity: 6},
		},
		Windows: []WindowInput{
			{JobCode: "ENG", Date: "2026-09-01", Start: "09:00", End: "18:00"},
		},
		Lunch: &LunchInput{Start: "12:00", End: "13:00"},
		Rules: []RuleInput{
			{Predecessor: "prep", Successor: "interview", Adjacent: true},
		},
	}
}

func TestBuildDayInputsExpandsRequest(t *testing.T) {
	days, err := buildDayInputs(baseRequest())
	if err != nil {
		t.Fatalf("buildDayInputs: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	day := days[0]
	if day.Date != "2026-09-01" {
		t.Errorf("date = %q", day.Date)
	}
	if len(day.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(day.Candidates))
	}
	if day.Candidates[0].ID != "ENG-001" || day.Candidates[2].ID != "ENG-003" {
		t.Errorf("candidate ids = %q, %q", day.Candidates[0].ID, day.Candidates[2].ID)
	}
	if got := len(day.Rooms); got != 5 {
		t.Fatalf("expected 5 rooms, got %d", got)
	}
	if day.Lunch.Start != 720 || day.Lunch.End != 780 {
		t.Errorf("lunch = %d-%d", day.Lunch.Start, day.Lunch.End)
	}
	w, ok := day.Windows["ENG"]
	if !ok {
		t.Fatalf("missing ENG window")
	}
	if w.Start != 540 || w.End != 1080 {
		t.Errorf("window = %d-%d", w.Start, w.End)
	}
}

func TestBuildDayInputsActivityOrderDrivesCandidateOrder(t *testing.T) {
	// Required activity lists follow the configured activity order,
	// regardless of map iteration.
	days, err := buildDayInputs(baseRequest())
	if err != nil {
		t.Fatalf("buildDayInputs: %v", err)
	}
	want := []string{"prep", "interview", "group_exercise"}
	got := days[0].Candidates[0].Activities
	if len(got) != len(want) {
		t.Fatalf("activities = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("activities = %v, want %v", got, want)
		}
	}
}

func TestBuildDayInputsRejectsUnknownActivity(t *testing.T) {
	req := baseRequest()
	req.JobCodes[0].Activities["case_study"] = true
	if _, err := buildDayInputs(req); err == nil {
		t.Fatal("expected error for unknown activity")
	}
}

func TestBuildDayInputsRejectsMissingWindow(t *testing.T) {
	req := baseRequest()
	req.Dates = append(req.Dates, "2026-09-02")
	if _, err := buildDayInputs(req); err == nil {
		t.Fatal("expected error for date without windows")
	}
}

func TestBuildDayInputsRejectsBadClock(t *testing.T) {
	req := baseRequest()
	req.Windows[0].Start = "9am"
	if _, err := buildDayInputs(req); err == nil {
		t.Fatal("expected error for malformed clock")
	}
}

func TestExpandRoomsSuffixEligibility(t *testing.T) {
	rooms, err := expandRooms([]RoomTemplateInput{
		{
			RoomType: "Interview",
			Count:    3,
			Capacity: 1,
			JobCodeSuffixes: map[string]string{
				"ENG": "AB",
				"FIN": "C",
			},
		},
	})
	if err != nil {
		t.Fatalf("expandRooms: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
	byID := make(map[string]schedule.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	a := byID["Interview-A"]
	if !a.EligibleFor("ENG", "Interview") {
		t.Error("Interview-A should accept ENG")
	}
	if a.EligibleFor("FIN", "Interview") {
		t.Error("Interview-A should reject FIN")
	}
	c := byID["Interview-C"]
	if !c.EligibleFor("FIN", "Interview") {
		t.Error("Interview-C should accept FIN")
	}
	if c.EligibleFor("ENG", "Interview") {
		t.Error("Interview-C should reject ENG")
	}
}

func TestExpandRoomsOpenEligibilityWithoutSuffixMap(t *testing.T) {
	rooms, err := expandRooms([]RoomTemplateInput{
		{RoomType: "Prep", Count: 2, Capacity: 1},
	})
	if err != nil {
		t.Fatalf("expandRooms: %v", err)
	}
	for _, r := range rooms {
		if !r.EligibleFor("ANY", "Prep") {
			t.Errorf("room %s should accept any job code", r.ID)
		}
	}
}
