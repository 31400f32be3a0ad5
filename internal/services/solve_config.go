package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/interviewday-backend/internal/schedule"
)

// buildDayInputs validates the request at the boundary and expands it
// into one immutable DayInput per date. The engine never sees raw
// request data.
func buildDayInputs(req SolveRequest) ([]schedule.DayInput, error) {
	activities := make([]schedule.Activity, 0, len(req.Activities))
	activityOrder := make([]string, 0, len(req.Activities))
	byName := make(map[string]schedule.Activity, len(req.Activities))
	for _, in := range req.Activities {
		if _, dup := byName[in.Name]; dup {
			return nil, fmt.Errorf("duplicate activity %q", in.Name)
		}
		if in.MaxCapacity > 0 && in.MinCapacity > in.MaxCapacity {
			return nil, fmt.Errorf("activity %q: min capacity %d exceeds max %d", in.Name, in.MinCapacity, in.MaxCapacity)
		}
		act := schedule.Activity{
			Name:        in.Name,
			Mode:        schedule.ActivityMode(in.Mode),
			Duration:    schedule.Minutes(in.DurationMinutes),
			RoomType:    in.RoomType,
			MinCapacity: in.MinCapacity,
			MaxCapacity: in.MaxCapacity,
		}
		activities = append(activities, act)
		activityOrder = append(activityOrder, in.Name)
		byName[in.Name] = act
	}

	jobCodes, candidates, err := expandCandidates(req.JobCodes, activityOrder, byName)
	if err != nil {
		return nil, err
	}

	rooms, err := expandRooms(req.RoomTemplates)
	if err != nil {
		return nil, err
	}

	rules := make([]schedule.PrecedenceRule, 0, len(req.Rules))
	for _, in := range req.Rules {
		for _, name := range []string{in.Predecessor, in.Successor} {
			if name == schedule.AnchorStart || name == schedule.AnchorEnd {
				continue
			}
			if _, known := byName[name]; !known {
				return nil, fmt.Errorf("precedence rule references unknown activity %q", name)
			}
		}
		rules = append(rules, schedule.PrecedenceRule{
			Predecessor: in.Predecessor,
			Successor:   in.Successor,
			GapMinutes:  schedule.Minutes(in.GapMinutes),
			Adjacent:    in.Adjacent,
		})
	}

	var lunch schedule.LunchBreak
	if req.Lunch != nil {
		start, err := schedule.ParseClock(req.Lunch.Start)
		if err != nil {
			return nil, fmt.Errorf("lunch start: %w", err)
		}
		end, err := schedule.ParseClock(req.Lunch.End)
		if err != nil {
			return nil, fmt.Errorf("lunch end: %w", err)
		}
		if end <= start {
			return nil, fmt.Errorf("lunch block must end after it starts")
		}
		lunch = schedule.LunchBreak{Start: start, End: end}
	}

	windows := make(map[string]map[string]schedule.OperatingWindow, len(req.Dates))
	for _, in := range req.Windows {
		start, err := schedule.ParseClock(in.Start)
		if err != nil {
			return nil, fmt.Errorf("window for %s on %s: %w", in.JobCode, in.Date, err)
		}
		end, err := schedule.ParseClock(in.End)
		if err != nil {
			return nil, fmt.Errorf("window for %s on %s: %w", in.JobCode, in.Date, err)
		}
		if end <= start {
			return nil, fmt.Errorf("window for %s on %s must end after it starts", in.JobCode, in.Date)
		}
		if windows[in.Date] == nil {
			windows[in.Date] = make(map[string]schedule.OperatingWindow)
		}
		windows[in.Date][in.JobCode] = schedule.OperatingWindow{
			JobCode: in.JobCode,
			Date:    in.Date,
			Start:   start,
			End:     end,
		}
	}

	days := make([]schedule.DayInput, 0, len(req.Dates))
	for _, date := range req.Dates {
		dayWindows := windows[date]
		if dayWindows == nil {
			return nil, fmt.Errorf("no operating windows defined for date %s", date)
		}
		for _, jc := range jobCodes {
			if _, ok := dayWindows[jc.Code]; !ok {
				return nil, fmt.Errorf("no operating window for job code %s on %s", jc.Code, date)
			}
		}
		days = append(days, schedule.DayInput{
			Date:       date,
			Activities: activities,
			JobCodes:   jobCodes,
			Candidates: candidates,
			Rooms:      rooms,
			Rules:      rules,
			Windows:    dayWindows,
			Lunch:      lunch,
		})
	}
	return days, nil
}

// expandCandidates derives each job code's ordered activity set from the
// configured activity order, then mints its candidate rows.
func expandCandidates(inputs []JobCodeInput, activityOrder []string, byName map[string]schedule.Activity) ([]schedule.JobCode, []schedule.Candidate, error) {
	var jobCodes []schedule.JobCode
	var candidates []schedule.Candidate
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.Code] {
			return nil, nil, fmt.Errorf("duplicate job code %q", in.Code)
		}
		seen[in.Code] = true

		for name := range in.Activities {
			if _, known := byName[name]; !known {
				return nil, nil, fmt.Errorf("job code %s requires unknown activity %q", in.Code, name)
			}
		}
		var required []string
		for _, name := range activityOrder {
			if in.Activities[name] {
				required = append(required, name)
			}
		}
		if len(required) == 0 {
			return nil, nil, fmt.Errorf("job code %s requires no activities", in.Code)
		}

		jobCodes = append(jobCodes, schedule.JobCode{
			Code:           in.Code,
			CandidateCount: in.CandidateCount,
			Activities:     required,
		})
		for i := 0; i < in.CandidateCount; i++ {
			candidates = append(candidates, schedule.Candidate{
				ID:         fmt.Sprintf("%s-%03d", in.Code, i+1),
				JobCode:    in.Code,
				Activities: required,
			})
		}
	}
	return jobCodes, candidates, nil
}

const roomSuffixes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// expandRooms turns each room template into concrete suffixed instances.
// Job-code eligibility comes from the template's suffix mapping.
func expandRooms(templates []RoomTemplateInput) ([]schedule.Room, error) {
	var rooms []schedule.Room
	seen := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		if seen[tpl.RoomType] {
			return nil, fmt.Errorf("duplicate room template for type %q", tpl.RoomType)
		}
		seen[tpl.RoomType] = true
		if tpl.Count > len(roomSuffixes) {
			return nil, fmt.Errorf("room type %q: at most %d instances supported", tpl.RoomType, len(roomSuffixes))
		}
		for i := 0; i < tpl.Count; i++ {
			suffix := string(roomSuffixes[i])
			var eligible map[string]bool
			if len(tpl.JobCodeSuffixes) > 0 {
				eligible = make(map[string]bool)
				for job, letters := range tpl.JobCodeSuffixes {
					if strings.Contains(letters, suffix) {
						eligible[job] = true
					}
				}
			}
			rooms = append(rooms, schedule.Room{
				ID:       fmt.Sprintf("%s-%s", tpl.RoomType, suffix),
				RoomType: tpl.RoomType,
				Suffix:   suffix,
				Capacity: tpl.Capacity,
				JobCodes: eligible,
			})
		}
	}
	return rooms, nil
}
