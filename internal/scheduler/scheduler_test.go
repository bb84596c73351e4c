package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDailyRunTime(t *testing.T) {
	s := &Scheduler{}

	tests := []struct {
		input string
		want  string
	}{
		{"02:00", "0 2 * * *"},
		{"14:30", "30 14 * * *"},
		{"00:00", "0 0 * * *"},
		{"23:59", "59 23 * * *"},
		{"24:00", "0 2 * * *"},
		{"12:60", "0 2 * * *"},
		{"garbage", "0 2 * * *"},
		{"", "0 2 * * *"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.parseDailyRunTime(tt.input), "input %q", tt.input)
	}
}
