package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestValidateNumber(t *testing.T) {
	cases := []struct {
		number string
		valid  bool
	}{
		{"", true},
		{"JS-1042", true},
		{"PRNT-1", true},
		{"js-1042", false},
		{"J-1", false},
		{"JS1042", false},
		{"JS-1234567", false},
	}
	for _, tc := range cases {
		j := &Job{Number: tc.number}
		err := j.ValidateNumber()
		if tc.valid {
			assert.NoError(t, err, "number=%q", tc.number)
		} else {
			assert.ErrorIs(t, err, ErrValidation, "number=%q", tc.number)
		}
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "JS-7", (&Job{ID: "0123456789", Number: "JS-7"}).DisplayID())
	assert.Equal(t, "01234567", (&Job{ID: "0123456789"}).DisplayID())
	assert.Equal(t, "abc", (&Job{ID: "abc"}).DisplayID())
}

func TestJobStart_FromPending(t *testing.T) {
	j := &Job{Status: JobPending}
	require.NoError(t, j.Start(testNow))
	assert.Equal(t, JobInProgress, j.Status)
	assert.Equal(t, testNow, j.UpdatedAt)
}

func TestJobStart_AlreadyInProgress(t *testing.T) {
	j := &Job{Status: JobInProgress}
	require.NoError(t, j.Start(testNow))
	assert.Equal(t, JobInProgress, j.Status)
	assert.True(t, j.UpdatedAt.IsZero(), "no-op start should not touch UpdatedAt")
}

func TestJobStart_Terminal(t *testing.T) {
	for _, s := range []JobStatus{JobCompleted, JobCancelled} {
		j := &Job{Status: s}
		err := j.Start(testNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, s, j.Status, "status should not change")
	}
}

func TestJobComplete(t *testing.T) {
	for _, s := range []JobStatus{JobPending, JobInProgress} {
		j := &Job{Status: s}
		require.NoError(t, j.Complete(testNow))
		assert.Equal(t, JobCompleted, j.Status)
		require.NotNil(t, j.CompletedAt)
		assert.Equal(t, testNow, *j.CompletedAt)
	}
}

func TestJobComplete_AlreadyCompleted(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	j := &Job{Status: JobCompleted, CompletedAt: &earlier}
	require.NoError(t, j.Complete(testNow))
	assert.Equal(t, earlier, *j.CompletedAt, "should not overwrite existing CompletedAt")
}

func TestJobComplete_Cancelled(t *testing.T) {
	j := &Job{Status: JobCancelled}
	err := j.Complete(testNow)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, JobCancelled, j.Status)
}

func TestJobCancel(t *testing.T) {
	cases := []struct {
		from JobStatus
		ok   bool
	}{
		{JobPending, true},
		{JobInProgress, true},
		{JobCompleted, false},
		{JobCancelled, false},
	}
	for _, tc := range cases {
		j := &Job{Status: tc.from}
		err := j.Cancel(testNow)
		if tc.ok {
			require.NoError(t, err, "from=%s", tc.from)
			assert.Equal(t, JobCancelled, j.Status)
		} else {
			assert.ErrorIs(t, err, ErrConflict, "from=%s", tc.from)
			assert.Equal(t, tc.from, j.Status)
		}
	}
}

func TestTransitionTo(t *testing.T) {
	j := &Job{Status: JobPending}
	require.NoError(t, j.TransitionTo(JobPending, testNow))
	require.NoError(t, j.TransitionTo(JobInProgress, testNow))
	assert.ErrorIs(t, j.TransitionTo(JobPending, testNow), ErrConflict)
	require.NoError(t, j.TransitionTo(JobCompleted, testNow))
	assert.Equal(t, JobCompleted, j.Status)

	err := j.TransitionTo(JobStatus("shipped"), testNow)
	assert.ErrorIs(t, err, ErrValidation)
}
