package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/testutil"
)

func TestJobRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)

	job := &model.Job{
		Title:       "Backend Engineer",
		QueuePrefix: "A",
		IsActive:    true,
	}

	err := repo.Create(job)
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestJobRepository_ListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	testutil.TestJob(t, db, testutil.WithTitle("Active 1"))
	testutil.TestJob(t, db, testutil.WithTitle("Active 2"))
	testutil.TestJob(t, db, testutil.WithTitle("Inactive"), testutil.WithActive(false))

	jobs, err := repo.ListActive()
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	all, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestJobRepository_UpdateFields_Deactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	job := testutil.TestJob(t, db)

	err := repo.UpdateFields(job.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	found, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}
