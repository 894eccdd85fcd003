package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDeadlines(t *testing.T) {
	type TC struct {
		name string
		now  time.Time
		vat  time.Time
		cit  time.Time
	}

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tcs := []TC{
		{name: "before both", now: day(2026, 3, 2), vat: day(2026, 3, 21), cit: day(2026, 6, 30)},
		{name: "on the VAT day", now: time.Date(2026, 3, 21, 17, 0, 0, 0, time.UTC), vat: day(2026, 3, 21), cit: day(2026, 6, 30)},
		{name: "after the VAT day", now: day(2026, 10, 22), vat: day(2026, 11, 21), cit: day(2027, 6, 30)},
		{name: "december rolls the year", now: day(2026, 12, 25), vat: day(2027, 1, 21), cit: day(2027, 6, 30)},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDeadlines(tc.now)

			assert.Equal(t, []Deadline{{Filing: "VAT", Due: tc.vat}, {Filing: "CIT", Due: tc.cit}}, got)
		})
	}
}
