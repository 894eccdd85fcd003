package report

import "time"

const (
	vatDueDay = 21
	citDueDay = 30
)

type Deadline struct {
	Filing string
	Due    time.Time
}

// NextDeadlines returns the next VAT return (21st of every month) and CIT
// return (30 June) on or after now's calendar day.
func NextDeadlines(now time.Time) []Deadline {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	vat := time.Date(now.Year(), now.Month(), vatDueDay, 0, 0, 0, 0, loc)
	if vat.Before(today) {
		vat = vat.AddDate(0, 1, 0)
	}

	cit := time.Date(now.Year(), time.June, citDueDay, 0, 0, 0, 0, loc)
	if cit.Before(today) {
		cit = cit.AddDate(1, 0, 0)
	}

	return []Deadline{
		{Filing: "VAT", Due: vat},
		{Filing: "CIT", Due: cit},
	}
}
