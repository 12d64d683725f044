package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlotDate(t *testing.T) {
	t.Run("ISO date is kept", func(t *testing.T) {
		date, err := NormalizeSlotDate("2024-11-21")
		require.NoError(t, err)
		assert.Equal(t, "2024-11-21", date)
	})

	t.Run("Frontend date is converted", func(t *testing.T) {
		date, err := NormalizeSlotDate(" 21_11_2024 ")
		require.NoError(t, err)
		assert.Equal(t, "2024-11-21", date)
	})

	t.Run("Impossible dates are rejected", func(t *testing.T) {
		for _, raw := range []string{"", "2024-02-30", "31_04_2024", "21/11/2024", "tomorrow"} {
			_, err := NormalizeSlotDate(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestNormalizeSlotTime(t *testing.T) {
	cases := map[string]string{
		"10:00 AM": "10:00 AM",
		"09:30 am": "9:30 AM",
		"9:30PM":   "9:30 PM",
		"12:05 pm": "12:05 PM",
	}
	for raw, expected := range cases {
		normalized, err := NormalizeSlotTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, normalized)
	}

	for _, raw := range []string{"", "13:00 PM", "10:60 AM", "10:00", "noon"} {
		_, err := NormalizeSlotTime(raw)
		assert.Error(t, err, raw)
	}
}

func TestSlotLess(t *testing.T) {
	assert.True(t, SlotLess("2024-11-21", "9:30 AM", "2024-11-21", "10:00 AM"))
	assert.True(t, SlotLess("2024-11-21", "12:00 PM", "2024-11-21", "1:00 PM"))
	assert.False(t, SlotLess("2024-11-22", "9:00 AM", "2024-11-21", "5:00 PM"))
	assert.Equal(t, 0, SlotTimeMinutes("12:00 AM"))
	assert.Equal(t, -1, SlotTimeMinutes("garbage"))
}

func TestValidateStructSlotTags(t *testing.T) {
	type bookingInput struct {
		SlotDate string `json:"slotDate" validate:"required,slot_date"`
		SlotTime string `json:"slotTime" validate:"required,slot_time"`
	}

	assert.NoError(t, ValidateStruct(bookingInput{SlotDate: "21_11_2024", SlotTime: "10:00 AM"}))

	err := ValidateStruct(bookingInput{SlotDate: "2024-11-21", SlotTime: "25:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slotTime")
}
