package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := NewCallStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := NewCallStatus("done")
	assert.Error(t, err)
	_, err = NewCallStatus("")
	assert.Error(t, err)
}

func TestCallStatus_IsOnGraph(t *testing.T) {
	tests := []struct {
		from CallStatus
		to   CallStatus
		want bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusInProgress, StatusWaitingForPart, true},
		{StatusWaitingForPart, StatusResolved, true},
		{StatusResolved, StatusClosed, true},
		{StatusClosed, StatusInProgress, true},
		{StatusNew, StatusResolved, false},
		{StatusClosed, StatusNew, false},
		{StatusResolved, StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.IsOnGraph(tt.to))
		})
	}
}

func TestCallStatus_IsOpen(t *testing.T) {
	assert.True(t, StatusNew.IsOpen())
	assert.True(t, StatusWaitingForPart.IsOpen())
	assert.False(t, StatusResolved.IsOpen())
	assert.False(t, StatusClosed.IsOpen())
}
