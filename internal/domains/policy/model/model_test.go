package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plek/internal/domains/policy/model"
)

func TestDefault(t *testing.T) {
	p := model.Default()

	assert.Equal(t, model.SingletonID, p.ID)
	assert.Equal(t, 30, p.BookingOpeningDays)
	assert.Equal(t, 4, p.MaxBookingDurationHours)
	assert.Equal(t, 15, p.MinGapBetweenBookingsMinutes)
	assert.Equal(t, "08:00", p.WorkingHoursStart)
	assert.Equal(t, "19:00", p.WorkingHoursEnd)
	assert.False(t, p.AllowBackdatedBookings)
	assert.False(t, p.EnableAutoApproval)
	assert.Equal(t, 48, p.ApprovalWindowHours)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value    string
		wantHour int
		wantMin  int
		wantErr  bool
	}{
		{value: "08:00", wantHour: 8},
		{value: "19:30", wantHour: 19, wantMin: 30},
		{value: "00:00"},
		{value: "23:59", wantHour: 23, wantMin: 59},
		{value: "24:00", wantErr: true},
		{value: "09:60", wantErr: true},
		{value: "morning", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hour, minute, err := model.ParseClock(tt.value)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMin, minute)
		})
	}
}

func TestWorkingWindow(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	p := model.Default()

	day := time.Date(2026, 3, 11, 3, 30, 0, 0, time.UTC) // 09:00 IST
	open, closeAt, err := p.WorkingWindow(day, loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, loc), open)
	assert.Equal(t, time.Date(2026, 3, 11, 19, 0, 0, 0, loc), closeAt)
}

func TestWorkingWindow_CrossesDateBoundary(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	p := model.Default()

	// 22:00 UTC is already the next day in Kolkata; the window anchors to
	// the local date.
	day := time.Date(2026, 3, 11, 22, 0, 0, 0, time.UTC)
	open, _, err := p.WorkingWindow(day, loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 12, 8, 0, 0, 0, loc), open)
}

func TestWorkingWindow_InvalidClock(t *testing.T) {
	p := model.Default()
	p.WorkingHoursStart = "late"

	_, _, err := p.WorkingWindow(time.Now(), time.UTC)
	assert.Error(t, err)
}
