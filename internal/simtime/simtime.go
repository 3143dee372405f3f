// Package simtime tracks the in-simulation calendar. One scheduler step is
// one month; the clock is a world resource advanced by the late-update phase
// so every system in a step observes the same date.
package simtime

import "fmt"

// MonthsPerYear is the length of the simulated year.
const MonthsPerYear = 12

// Date is the current simulation date. Months and years are 1-based.
type Date struct {
	Month int
	Year  int
}

// NewDate creates a clock set to the first month of the first year.
func NewDate() *Date {
	return &Date{Month: 1, Year: 1}
}

// Advance moves the clock forward one month, rolling the year over.
func (d *Date) Advance() {
	d.Month++
	if d.Month > MonthsPerYear {
		d.Month = 1
		d.Year++
	}
}

// TotalMonths returns the number of whole months elapsed since the start of
// the run.
func (d *Date) TotalMonths() int {
	return (d.Year-1)*MonthsPerYear + (d.Month - 1)
}

// String renders the date for logs, e.g. "Month 3, Year 2".
func (d *Date) String() string {
	return fmt.Sprintf("Month %d, Year %d", d.Month, d.Year)
}
