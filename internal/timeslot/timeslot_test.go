package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTime(s)
	require.NoError(t, err)
	return v
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, TimeOfDay(9*60), mustParse(t, "09:00"))
	assert.Equal(t, TimeOfDay(23*60+30), mustParse(t, "23:30"))
	assert.Equal(t, TimeOfDay(14*60+5), mustParse(t, "14:05:00"))

	_, err := ParseTime("25:00")
	assert.Error(t, err)

	_, err = ParseTime("nine")
	assert.Error(t, err)
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "09:00", mustParse(t, "09:00").String())
	assert.Equal(t, "23:59", TimeOfDay(23*60+59).String())
}

func TestOverlapsBoundaryCases(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint before", "09:00", "10:00", "11:00", "12:00", false},
		{"disjoint after", "11:00", "12:00", "09:00", "10:00", false},
		{"touching endpoints back-to-back", "09:00", "11:00", "11:00", "13:00", false},
		{"touching endpoints reversed", "11:00", "13:00", "09:00", "11:00", false},
		{"partial overlap at start", "09:00", "11:00", "10:00", "12:00", true},
		{"partial overlap at end", "10:00", "12:00", "09:00", "11:00", true},
		{"fully nested", "09:00", "13:00", "10:00", "11:00", true},
		{"fully surrounding", "10:00", "11:00", "09:00", "13:00", true},
		{"identical intervals", "09:00", "11:00", "09:00", "11:00", true},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(mustParse(t, tc.s1), mustParse(t, tc.e1), mustParse(t, tc.s2), mustParse(t, tc.e2))
			assert.Equal(t, tc.want, got)
			// Overlap is symmetric
			assert.Equal(t, tc.want, Overlaps(mustParse(t, tc.s2), mustParse(t, tc.e2), mustParse(t, tc.s1), mustParse(t, tc.e1)))
		})
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 2.0, Duration(mustParse(t, "09:00"), mustParse(t, "11:00")))
	assert.Equal(t, 1.5, Duration(mustParse(t, "10:00"), mustParse(t, "11:30")))
}

func TestInPast(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	yesterday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, InPast(yesterday, mustParse(t, "23:00"), now))
	assert.False(t, InPast(tomorrow, mustParse(t, "00:00"), now))

	assert.True(t, InPast(today, mustParse(t, "09:00"), now))
	assert.False(t, InPast(today, mustParse(t, "10:00"), now))
	assert.False(t, InPast(today, mustParse(t, "10:01"), now))
}

func TestScanAndValue(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("09:30:00"))
	assert.Equal(t, mustParse(t, "09:30"), tod)

	require.NoError(t, tod.Scan([]byte("14:00:00")))
	assert.Equal(t, mustParse(t, "14:00"), tod)

	require.NoError(t, tod.Scan(time.Date(2025, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeOfDay(18*60+45), tod)

	v, err := mustParse(t, "08:05").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:05:00", v)
}
