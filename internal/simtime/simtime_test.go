package simtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate_Advance_RollsOverYear(t *testing.T) {
	d := NewDate()
	assert.Equal(t, 1, d.Month)
	assert.Equal(t, 1, d.Year)

	for i := 0; i < MonthsPerYear; i++ {
		d.Advance()
	}
	assert.Equal(t, 1, d.Month)
	assert.Equal(t, 2, d.Year)
}

func TestDate_TotalMonths(t *testing.T) {
	d := NewDate()
	assert.Equal(t, 0, d.TotalMonths())

	for i := 0; i < 14; i++ {
		d.Advance()
	}
	assert.Equal(t, 14, d.TotalMonths())
	assert.Equal(t, 3, d.Month)
	assert.Equal(t, 2, d.Year)
}

func TestDate_String(t *testing.T) {
	d := &Date{Month: 3, Year: 2}
	assert.Equal(t, "Month 3, Year 2", d.String())
}
