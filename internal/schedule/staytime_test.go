package schedule

import (
	"math"
	"testing"
)

func TestCandidateStayTimes_SpansFirstToLast(t *testing.T) {
	items := []ScheduleItem{
		{CandidateID: "ENG-001", JobCode: "ENG", Date: "2026-09-14", Activity: "prep", Start: 540, End: 545},
		{CandidateID: "ENG-001", JobCode: "ENG", Date: "2026-09-14", Activity: "interview", Start: 545, End: 560},
		{CandidateID: "ENG-001", JobCode: "ENG", Date: "2026-09-14", Activity: "group_exercise", Start: 900, End: 960},
		{CandidateID: "ENG-002", JobCode: "ENG", Date: "2026-09-14", Activity: "interview", Start: 600, End: 615},
	}
	stays := CandidateStayTimes(items)
	if stays["ENG-001"] != 420 {
		t.Fatalf("ENG-001: expected 420 minutes, got %d", stays["ENG-001"])
	}
	if stays["ENG-002"] != 15 {
		t.Fatalf("ENG-002: expected 15 minutes, got %d", stays["ENG-002"])
	}
}

func TestEvaluateStayTimes_Statistics(t *testing.T) {
	// Four candidates with stay times 60, 120, 180, 240.
	var items []ScheduleItem
	for i, stay := range []Minutes{60, 120, 180, 240} {
		id := string(rune('A' + i))
		items = append(items,
			ScheduleItem{CandidateID: id, JobCode: "ENG", Date: "2026-09-14", Activity: "first", Start: 540, End: 570},
			ScheduleItem{CandidateID: id, JobCode: "ENG", Date: "2026-09-14", Activity: "last", Start: 540 + stay - 30, End: 540 + stay},
		)
	}
	summaries := EvaluateStayTimes(items)
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Candidates != 4 || s.MinMinutes != 60 || s.MaxMinutes != 240 {
		t.Fatalf("unexpected extrema: %+v", s)
	}
	if s.Mean != 150 {
		t.Fatalf("expected mean 150, got %f", s.Mean)
	}
	if s.Median != 150 {
		t.Fatalf("expected median 150, got %f", s.Median)
	}
	want := math.Sqrt((90*90 + 30*30 + 30*30 + 90*90) / 4.0)
	if math.Abs(s.StdDev-want) > 1e-9 {
		t.Fatalf("expected stddev %f, got %f", want, s.StdDev)
	}
}

func TestEvaluateStayTimes_GroupsByDateAndJobCode(t *testing.T) {
	items := []ScheduleItem{
		{CandidateID: "ENG-001", JobCode: "ENG", Date: "2026-09-14", Activity: "interview", Start: 540, End: 600},
		{CandidateID: "OPS-001", JobCode: "OPS", Date: "2026-09-14", Activity: "interview", Start: 540, End: 570},
		{CandidateID: "ENG-002", JobCode: "ENG", Date: "2026-09-15", Activity: "interview", Start: 540, End: 630},
	}
	summaries := EvaluateStayTimes(items)
	if len(summaries) != 3 {
		t.Fatalf("expected three summaries, got %d", len(summaries))
	}
	if summaries[0].Date != "2026-09-14" || summaries[0].JobCode != "ENG" {
		t.Fatalf("summaries must be sorted by date then job code: %+v", summaries[0])
	}
	if summaries[2].Date != "2026-09-15" {
		t.Fatalf("expected the later date last: %+v", summaries[2])
	}
}
