package entity

// DayPart is the half-day unit requests and planning entries refer to.
// FullDay is only valid on requests; it always expands to both halves and
// never persists on a ScheduleSlot.
type DayPart string

const (
	DayPartMorning   DayPart = "morning"
	DayPartAfternoon DayPart = "afternoon"
	DayPartFullDay   DayPart = "full_day"
)

// IsValid reports whether the value is one of the known day parts.
func (p DayPart) IsValid() bool {
	return p == DayPartMorning || p == DayPartAfternoon || p == DayPartFullDay
}

// IsHalf reports whether the part is a single half-day.
func (p DayPart) IsHalf() bool {
	return p == DayPartMorning || p == DayPartAfternoon
}

// Halves expands the part into concrete half-days.
func (p DayPart) Halves() []DayPart {
	if p == DayPartFullDay {
		return []DayPart{DayPartMorning, DayPartAfternoon}
	}
	return []DayPart{p}
}

// Covers reports whether the part includes the given half-day.
func (p DayPart) Covers(half DayPart) bool {
	if p == DayPartFullDay {
		return half.IsHalf()
	}
	return p == half
}
