package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		id            int
		track         int
		angle         int
		expectError   bool
		errorContains string
	}{
		{name: "valid task", id: 1, track: 5, angle: 90, expectError: false},
		{name: "zero id is the sentinel and invalid for construction", id: 0, track: 5, angle: 0, expectError: true, errorContains: "positive"},
		{name: "negative id", id: -1, track: 5, angle: 0, expectError: true, errorContains: "positive"},
		{name: "negative track", id: 1, track: -1, angle: 0, expectError: true, errorContains: "track"},
		{name: "angle too large", id: 1, track: 5, angle: 360, expectError: true, errorContains: "angle"},
		{name: "angle negative", id: 1, track: 5, angle: -1, expectError: true, errorContains: "angle"},
		{name: "boundary angle 359 is valid", id: 1, track: 5, angle: 359, expectError: false},
		{name: "boundary angle 0 is valid", id: 1, track: 5, angle: 0, expectError: false},
		{name: "track zero is valid", id: 1, track: 0, angle: 0, expectError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := New(tt.id, tt.track, tt.angle)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, got)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID())
			assert.Equal(t, tt.track, got.Track())
			assert.Equal(t, tt.angle, got.Angle())
		})
	}
}

func TestEqual(t *testing.T) {
	a, err := New(1, 5, 0)
	require.NoError(t, err)
	b, err := New(1, 9, 270)
	require.NoError(t, err)
	c, err := New(2, 5, 0)
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "equality is by id regardless of track/angle")
	assert.False(t, a.Equal(c))
}
