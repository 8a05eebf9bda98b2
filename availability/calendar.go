package availability

// CalendarDay is one rendered cell of the availability calendar.
type CalendarDay struct {
	Date           DateOnly       `json:"date"`
	Classification Classification `json:"classification"`
	Selectable     bool           `json:"selectable"`
}

// CalendarDays classifies every date of the horizon for the calendar surface.
func CalendarDays(horizon []DateOnly, available, taken DateSet) []CalendarDay {
	days := make([]CalendarDay, 0, len(horizon))
	for _, d := range horizon {
		c := ClassifyDate(d, available, taken)
		days = append(days, CalendarDay{
			Date:           d,
			Classification: c,
			Selectable:     c == Available,
		})
	}
	return days
}

// MonthOccupancy counts the horizon days of one calendar month.
type MonthOccupancy struct {
	Label string `json:"label"` // "2024-06"
	Free  int    `json:"free"`
	Taken int    `json:"taken"`
}

// Occupancy groups the horizon by month, in horizon order.
func Occupancy(horizon []DateOnly, taken DateSet) []MonthOccupancy {
	var out []MonthOccupancy
	for _, d := range horizon {
		label := d.String()[:7]
		if len(out) == 0 || out[len(out)-1].Label != label {
			out = append(out, MonthOccupancy{Label: label})
		}
		if taken.Contains(d) {
			out[len(out)-1].Taken++
		} else {
			out[len(out)-1].Free++
		}
	}
	return out
}
