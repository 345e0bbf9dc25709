package timeslot

import "fmt"

// TimeSlot is closed reference data seeded by migration. Start and end times are
// encoded as HHMM integers; ids are allocated in ascending start-time order.
type TimeSlot struct {
	ID        int    `db:"id" json:"id"`
	StartTime int    `db:"start_time" json:"start_time"`
	EndTime   int    `db:"end_time" json:"end_time"`
	PartOfDay string `db:"part_of_day" json:"part_of_day"`
}

// Label renders the slot as "HH:MM–HH:MM (partOfDay)".
func (ts TimeSlot) Label() string {
	return fmt.Sprintf("%s–%s (%s)", formatTime(ts.StartTime), formatTime(ts.EndTime), ts.PartOfDay)
}

// Adjacent reports whether next starts exactly when this slot ends.
func (ts TimeSlot) Adjacent(next TimeSlot) bool {
	return ts.EndTime == next.StartTime
}

func formatTime(hhmm int) string {
	return fmt.Sprintf("%02d:%02d", hhmm/100, hhmm%100)
}
