package timeclock

import "testing"

func TestIncompleteShifts(t *testing.T) {
	complete := []Record{
		punch(1, RecordEntry, "2024-03-05", "08:00"),
		punch(2, RecordExit, "2024-03-05", "17:00"),
	}
	if got := IncompleteShifts(complete, testLoc); len(got) != 0 {
		t.Fatalf("expected no anomalies, got %v", got)
	}

	open := []Record{punch(1, RecordEntry, "2024-03-05", "08:00")}
	got := IncompleteShifts(open, testLoc)
	if len(got) != 1 {
		t.Fatalf("expected one anomaly, got %v", got)
	}
	if got[0].Description != "missing exit" || got[0].Date.String() != "2024-03-05" {
		t.Fatalf("unexpected anomaly %+v", got[0])
	}
}

func TestIncompleteShiftsReportsEveryDay(t *testing.T) {
	records := []Record{
		punch(1, RecordEntry, "2024-03-04", "08:00"),
		punch(2, RecordLunchStart, "2024-03-04", "13:00"),
		punch(3, RecordEntry, "2024-03-06", "08:00"),
	}
	got := IncompleteShifts(records, testLoc)
	if len(got) != 3 {
		t.Fatalf("expected 3 anomalies, got %v", got)
	}
	if got[0].Kind != AnomalyMissingExit || got[1].Kind != AnomalyMissingLunchEnd || got[2].Date.String() != "2024-03-06" {
		t.Fatalf("unexpected anomalies %v", got)
	}
}

func TestIrregularitiesToleratesDuplicates(t *testing.T) {
	records := []Record{
		punch(1, RecordEntry, "2024-03-05", "08:00"),
		punch(2, RecordEntry, "2024-03-05", "08:00"),
		punch(3, RecordExit, "2024-03-05", "17:00"),
		punch(4, RecordType("break"), "2024-03-05", "18:00"),
	}
	got := Irregularities(records, testLoc)
	if len(got) != 2 {
		t.Fatalf("expected 2 irregularities, got %v", got)
	}
	if got[0].Kind != AnomalyOutOfSequence {
		t.Fatalf("expected out of sequence first, got %+v", got[0])
	}
	if got[1].Kind != AnomalyUnknownType {
		t.Fatalf("expected unknown type second, got %+v", got[1])
	}
}

func TestIrregularitiesAcceptShiftWithoutLunch(t *testing.T) {
	records := []Record{
		punch(1, RecordEntry, "2024-03-05", "08:00"),
		punch(2, RecordExit, "2024-03-05", "12:00"),
		punch(3, RecordEntry, "2024-03-05", "14:00"),
		punch(4, RecordLunchStart, "2024-03-05", "15:00"),
		punch(5, RecordLunchEnd, "2024-03-05", "15:30"),
		punch(6, RecordExit, "2024-03-05", "19:00"),
	}
	if got := Irregularities(records, testLoc); len(got) != 0 {
		t.Fatalf("expected a clean day, got %v", got)
	}
}
