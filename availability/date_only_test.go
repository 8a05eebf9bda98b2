package availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateOnly(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"pure date", "2024-06-10", "2024-06-10", false},
		{"utc midnight", "2024-06-10T00:00:00.000Z", "2024-06-10", false},
		{"utc late evening", "2024-06-10T23:30:00Z", "2024-06-10", false},
		{"positive offset shifts to previous utc day", "2024-06-10T01:00:00+02:00", "2024-06-09", false},
		{"negative offset shifts to next utc day", "2024-06-10T22:00:00-05:00", "2024-06-11", false},
		{"surrounding whitespace", " 2024-06-10 ", "2024-06-10", false},
		{"empty", "", "", true},
		{"garbage", "10.06.2024", "", true},
		{"invalid day", "2024-02-30", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseDateOnly(test.input)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got.String())
		})
	}
}

func TestDateOnly_AddDays(t *testing.T) {
	assert.Equal(t, "2024-03-01", MustParseDateOnly("2024-02-29").AddDays(1).String())
	assert.Equal(t, "2024-02-29", MustParseDateOnly("2024-03-01").AddDays(-1).String())
	assert.Equal(t, "2025-01-01", MustParseDateOnly("2024-12-31").AddDays(1).String())
	assert.Equal(t, "2024-09-08", MustParseDateOnly("2024-06-10").AddDays(90).String())
}

func TestDateOnly_AddDaysIgnoresDST(t *testing.T) {
	// 2024-03-31 is the EU DST switch; calendar arithmetic must not care.
	oslo, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	local := time.Date(2024, 3, 30, 12, 0, 0, 0, oslo)
	assert.Equal(t, "2024-04-01", FromTime(local).AddDays(2).String())
}

func TestDateOnly_CompareAndDaysUntil(t *testing.T) {
	a := MustParseDateOnly("2024-06-10")
	b := MustParseDateOnly("2024-07-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(NewDateOnly(2024, time.June, 10)))
	assert.Equal(t, 21, a.DaysUntil(b))
	assert.Equal(t, -21, b.DaysUntil(a))
}

func TestNewDateOnly_Normalizes(t *testing.T) {
	assert.Equal(t, "2024-03-01", NewDateOnly(2024, time.February, 30).String())
}

func TestDateOnly_JSON(t *testing.T) {
	type payload struct {
		CheckIn DateOnly `json:"checkIn"`
	}

	data, err := json.Marshal(payload{CheckIn: MustParseDateOnly("2024-06-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkIn":"2024-06-10"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"checkIn":"2024-06-10T00:00:00.000Z"}`), &p))
	assert.Equal(t, MustParseDateOnly("2024-06-10"), p.CheckIn)

	assert.Error(t, json.Unmarshal([]byte(`{"checkIn":"tomorrow"}`), &p))
}

func TestDateOnly_IsZero(t *testing.T) {
	assert.True(t, DateOnly{}.IsZero())
	assert.False(t, MustParseDateOnly("2024-06-10").IsZero())
}
