package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func TestFindCurrentFirstMatchWins(t *testing.T) {
	t1 := day(2024, time.June, 1)
	t2 := t1.Add(48 * time.Hour)
	submissions := []models.Submission{
		{ID: 10, TaskID: 1, UploadedAt: t1, FileURL: "first"},
		{ID: 11, TaskID: 1, UploadedAt: t2, FileURL: "second"},
	}

	current, ok := FindCurrent(submissions, 1)
	require.True(t, ok)
	require.Equal(t, uint(10), current.ID)

	reversed := []models.Submission{submissions[1], submissions[0]}
	current, ok = FindCurrent(reversed, 1)
	require.True(t, ok)
	require.Equal(t, uint(11), current.ID, "order of the input decides, not the timestamp")
}

func TestFindCurrentSkipsOtherTasks(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, TaskID: 5},
		{ID: 2, TaskID: 6},
	}

	current, ok := FindCurrent(submissions, 6)
	require.True(t, ok)
	require.Equal(t, uint(2), current.ID)
}

func TestFindCurrentMissing(t *testing.T) {
	_, ok := FindCurrent([]models.Submission{{ID: 1, TaskID: 5}}, 9)
	require.False(t, ok)

	_, ok = FindCurrent(nil, 9)
	require.False(t, ok)
}
