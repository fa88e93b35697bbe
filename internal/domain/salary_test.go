package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSalaryFloor(t *testing.T) {
	cases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"150 000 - 250 000 ₽", 150000, true},
		{"от 200 000 ₽", 200000, true},
		{"180 000 – 220 000 руб.", 180000, true},
		{"2000-3000 $", 2000, true},
		{"3k-5k $", 3000, true},
		{"120 тыс. ₽", 120000, true},
		{"1 500 000 ₽", 1500000, true},
		{"50 000 KZT", 50000, true},
		{"30 000 kr", 30000, true},
		{"до 300 000 ₽", 0, false},
		{"По договорённости", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseSalaryFloor(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVacancyMatchesSalary(t *testing.T) {
	v := &Vacancy{SalaryFrom: SalaryFloorPtr("150 000 ₽")}
	assert.False(t, v.MatchesSalary(200000))
	assert.True(t, v.MatchesSalary(150000))

	tenge := &Vacancy{SalaryFrom: SalaryFloorPtr("50 000 KZT")}
	assert.False(t, tenge.MatchesSalary(200000))

	unparsable := &Vacancy{SalaryFrom: SalaryFloorPtr("По договорённости")}
	assert.True(t, unparsable.MatchesSalary(1_000_000))
}

func TestPageMeta(t *testing.T) {
	p := Page{Limit: 2, Offset: 1}.Normalize()
	start, end := p.Bounds(5)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)
	assert.True(t, NewPageMeta(p, 5).HasMore)
	assert.False(t, NewPageMeta(p, 3).HasMore)

	start, end = Page{Limit: 10, Offset: 50}.Normalize().Bounds(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	assert.Equal(t, DefaultPageLimit, Page{}.Normalize().Limit)
	assert.Equal(t, MaxPageLimit, Page{Limit: 1000}.Normalize().Limit)
}

func TestApplicationStatusValid(t *testing.T) {
	assert.True(t, ApplicationStatusInterview.Valid())
	assert.False(t, ApplicationStatus("accepted").Valid())
}
