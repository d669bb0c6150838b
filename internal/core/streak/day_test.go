package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	assert.Equal(t, int64(0), Day(time.Date(1970, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(1), Day(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)))

	a := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Day(a), Day(b), "Time of day must not change the calendar day")
	assert.Equal(t, Day(a)-1, Day(a.AddDate(0, 0, -1)))
}

func TestParseDay(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		rome = time.FixedZone("CEST", 2*60*60)
	}

	tests := []struct {
		name  string
		value string
		loc   *time.Location
		want  string
	}{
		{"Date only", "2024-06-10", time.UTC, "2024-06-10"},
		{"RFC3339 UTC", "2024-06-10T08:00:00Z", time.UTC, "2024-06-10"},
		{"RFC3339 with nanos", "2024-06-10T08:00:00.123456Z", time.UTC, "2024-06-10"},
		{"Timestamp shifted into local day", "2024-06-09T23:30:00Z", rome, "2024-06-10"},
		{"Offset timestamp normalized to UTC day", "2024-06-10T01:00:00+02:00", time.UTC, "2024-06-09"},
		{"Local timestamp without zone", "2024-06-10T22:00:00", rome, "2024-06-10"},
		{"Space separated timestamp", "2024-06-10 22:00:00", time.UTC, "2024-06-10"},
		{"Surrounding whitespace", "  2024-06-10 ", time.UTC, "2024-06-10"},
		{"Nil location defaults to UTC", "2024-06-10", nil, "2024-06-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.value, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, 0, got.Minute())
		})
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, value := range []string{"", "   ", "10/06/2024", "2024-13-01", "not-a-date"} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseDay(value, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidHistoryEntry)
		})
	}
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)

	got := Midnight(ts, time.FixedZone("PLUS2", 2*60*60))
	assert.Equal(t, 11, got.Day(), "23:30 UTC is already the next day at +02:00")
	assert.Equal(t, 0, got.Hour())

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), Midnight(ts, nil))
}
