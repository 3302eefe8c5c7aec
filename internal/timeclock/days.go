package timeclock

import (
	"sort"
	"time"
)

// DayBucket holds one calendar day of punches in chronological order.
type DayBucket struct {
	Date    Date
	Records []Record
}

// Has reports whether any punch of type t was recorded that day.
func (b DayBucket) Has(t RecordType) bool {
	for _, r := range b.Records {
		if r.Type == t {
			return true
		}
	}
	return false
}

// SortRecords returns a copy of records ordered by timestamp, ties broken by Seq.
func SortRecords(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].RecordedAt.Equal(sorted[j].RecordedAt) {
			return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

// Buckets partitions records by local calendar day. Buckets come back in
// ascending date order and never rely on the caller's ordering.
func Buckets(records []Record, loc *time.Location) []DayBucket {
	var buckets []DayBucket
	index := make(map[Date]int)
	for _, r := range SortRecords(records) {
		day := DateOf(r.RecordedAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(buckets)
			index[day] = i
			buckets = append(buckets, DayBucket{Date: day})
		}
		buckets[i].Records = append(buckets[i].Records, r)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})
	return buckets
}

// LastRecordOn returns the latest punch recorded on day, or nil.
func LastRecordOn(records []Record, day Date, loc *time.Location) *Record {
	for _, b := range Buckets(records, loc) {
		if b.Date == day {
			last := b.Records[len(b.Records)-1]
			return &last
		}
	}
	return nil
}

// WorkedDays returns the days in [start, end] holding at least one entry punch.
func WorkedDays(records []Record, start, end Date, loc *time.Location) map[Date]struct{} {
	worked := make(map[Date]struct{})
	for _, b := range Buckets(records, loc) {
		if b.Date.Within(start, end) && b.Has(RecordEntry) {
			worked[b.Date] = struct{}{}
		}
	}
	return worked
}

// Absences lists, in ascending order, every non-Sunday day in [start, end]
// without an entry punch.
func Absences(records []Record, start, end Date, loc *time.Location) []Date {
	worked := WorkedDays(records, start, end, loc)
	var absent []Date
	for day := start; !day.After(end); day = day.AddDays(1) {
		if day.Weekday() == time.Sunday {
			continue
		}
		if _, ok := worked[day]; !ok {
			absent = append(absent, day)
		}
	}
	return absent
}

// DaysInPeriod is the inclusive number of calendar days in [start, end].
func DaysInPeriod(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return start.DaysUntil(end) + 1
}
