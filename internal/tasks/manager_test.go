package tasks

import (
	"context"
	"testing"

	"github.com/iceymoss/sentinelpost/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTask struct{ id string }

func (t *noopTask) Run(ctx context.Context, params map[string]any) error { return nil }
func (t *noopTask) Identifier() string                                   { return t.id }

type recordedJob struct {
	cron   string
	params map[string]any
	source string
}

type recordingScheduler struct {
	jobs map[string]recordedJob
}

func (s *recordingScheduler) AddJob(cronExpr, taskName, uniqueJobName string, params map[string]any, source string) error {
	if s.jobs == nil {
		s.jobs = make(map[string]recordedJob)
	}
	s.jobs[uniqueJobName] = recordedJob{cron: cronExpr, params: params, source: source}
	return nil
}

func TestRegisterAutoSchedulesThroughApplyAutoJobs(t *testing.T) {
	RegisterAuto("test:self_starting", "0 * * * * *",
		func() core.Task { return &noopTask{id: "test:self_starting"} },
		map[string]any{"batch": 3})

	sched := &recordingScheduler{}
	ApplyAutoJobs(sched)

	job, ok := sched.jobs["test:self_starting"]
	require.True(t, ok, "auto-registered task must be scheduled")
	assert.Equal(t, "0 * * * * *", job.cron)
	assert.Equal(t, SourceSystem, job.source)
	assert.Equal(t, 3, job.params["batch"])

	// also reachable through the normal pool for manual triggering
	task, err := GetTask("test:self_starting")
	require.NoError(t, err)
	assert.Equal(t, "test:self_starting", task.Identifier())
}

func TestGetTaskUnknownName(t *testing.T) {
	_, err := GetTask("no:such_task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
