package source

import "fmt"

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthOf maps a day of the year (1-366) to a month index 0-11. Day 366
// falls in December.
func MonthOf(day int) (int, error) {
	if day < 1 || day > MaxDay {
		return 0, fmt.Errorf("day %d out of range 1-%d", day, MaxDay)
	}
	remaining := day
	for m, n := range daysInMonth {
		if remaining <= n {
			return m, nil
		}
		remaining -= n
	}
	return 11, nil
}

// MonthName returns the lowercase English month name for index m.
func MonthName(m int) string {
	return monthNames[m]
}
