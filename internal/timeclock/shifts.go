package timeclock

import (
	"fmt"
	"time"
)

// IncompleteShifts reports, for every day, a started cycle that was never
// closed: an entry without exit, or a lunch_start without lunch_end.
func IncompleteShifts(records []Record, loc *time.Location) []Anomaly {
	var out []Anomaly
	for _, b := range Buckets(records, loc) {
		if b.Has(RecordEntry) && !b.Has(RecordExit) {
			out = append(out, Anomaly{Date: b.Date, Kind: AnomalyMissingExit, Description: "missing exit"})
		}
		if b.Has(RecordLunchStart) && !b.Has(RecordLunchEnd) {
			out = append(out, Anomaly{Date: b.Date, Kind: AnomalyMissingLunchEnd, Description: "missing lunch_end"})
		}
	}
	return out
}

// Irregularities replays each day's punches against the punch cycle and
// reports unknown types and punches that do not follow their predecessor,
// such as the duplicates two terminals can produce.
func Irregularities(records []Record, loc *time.Location) []Anomaly {
	var out []Anomaly
	for _, b := range Buckets(records, loc) {
		var prev *Record
		for i := range b.Records {
			r := b.Records[i]
			at := r.RecordedAt.In(locOrLocal(loc)).Format("15:04")

			if !r.Type.Valid() {
				out = append(out, Anomaly{
					Date:        b.Date,
					Kind:        AnomalyUnknownType,
					Description: fmt.Sprintf("unrecognized record type %q at %s", r.Type, at),
				})
				continue
			}

			expected := []RecordType{RecordEntry}
			if prev != nil {
				expected = transitions[prev.Type]
			}
			if !containsType(expected, r.Type) {
				desc := fmt.Sprintf("%s at %s is not expected first in the day", r.Type, at)
				if prev != nil {
					desc = fmt.Sprintf("%s at %s after %s", r.Type, at, prev.Type)
				}
				out = append(out, Anomaly{Date: b.Date, Kind: AnomalyOutOfSequence, Description: desc})
			}
			prev = &b.Records[i]
		}
	}
	return out
}

func containsType(types []RecordType, t RecordType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
