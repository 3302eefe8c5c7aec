package timeclock

import (
	"fmt"
	"time"
)

// transitions lists the legal successors of each punch type. The first entry
// is the default path of the cycle entry → lunch_start → lunch_end → exit.
var transitions = map[RecordType][]RecordType{
	RecordEntry:      {RecordLunchStart, RecordExit},
	RecordLunchStart: {RecordLunchEnd},
	RecordLunchEnd:   {RecordExit},
	RecordExit:       {RecordEntry},
}

// PunchState describes what an employee may punch next.
type PunchState struct {
	Next           RecordType   `json:"next"`
	Allowed        []RecordType `json:"allowed"`
	RequiresChoice bool         `json:"requires_choice"`
	Anomaly        *Anomaly     `json:"anomaly,omitempty"`
}

// EvaluatePunch derives the punch state from the employee's most recent
// record. A record from a day other than now's day is ignored, so every day
// starts at entry. An unrecognized stored type restarts the cycle and is
// reported as an anomaly.
func EvaluatePunch(last *Record, now time.Time, loc *time.Location) PunchState {
	today := DateOf(now, loc)
	if last == nil || DateOf(last.RecordedAt, loc) != today {
		return PunchState{Next: RecordEntry, Allowed: []RecordType{RecordEntry}}
	}

	allowed, ok := transitions[last.Type]
	if !ok {
		return PunchState{
			Next:    RecordEntry,
			Allowed: []RecordType{RecordEntry},
			Anomaly: &Anomaly{
				Date:        today,
				Kind:        AnomalyUnknownType,
				Description: fmt.Sprintf("unrecognized record type %q", last.Type),
			},
		}
	}

	return PunchState{
		Next:           allowed[0],
		Allowed:        append([]RecordType(nil), allowed...),
		RequiresChoice: last.Type == RecordEntry || last.Type == RecordLunchStart,
	}
}

// NextPunchType is the default next punch type for the employee.
func NextPunchType(last *Record, now time.Time, loc *time.Location) RecordType {
	return EvaluatePunch(last, now, loc).Next
}

// ResolvePunch picks the type to append. An empty choice takes the default
// path; anything else must be one of the currently legal types.
func ResolvePunch(last *Record, chosen RecordType, now time.Time, loc *time.Location) (RecordType, error) {
	state := EvaluatePunch(last, now, loc)
	if chosen == "" {
		return state.Next, nil
	}
	if !chosen.Valid() {
		return "", invalid("record_type", "unknown record type %q", chosen)
	}
	for _, t := range state.Allowed {
		if t == chosen {
			return chosen, nil
		}
	}
	return "", invalid("record_type", "%s is not allowed now, expected one of %v", chosen, state.Allowed)
}
