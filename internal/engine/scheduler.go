package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
	"github.com/iceymoss/sentinelpost/internal/tasks"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron       *cron.Cron
	Stats      *StatManager
	registered map[string]struct {
		task   core.Task
		params map[string]any
	}
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		Stats: NewStatManager(),
		registered: make(map[string]struct {
			task   core.Task
			params map[string]any
		}),
	}
}

// AddJob registers a task under a cron expression
func (s *Scheduler) AddJob(cronExpr, taskName, uniqueJobName string, params map[string]any, source string) error {
	if _, exists := s.registered[uniqueJobName]; exists {
		return fmt.Errorf("job '%s' already scheduled", uniqueJobName)
	}

	taskInstance, err := tasks.GetTask(taskName)
	if err != nil {
		return err
	}

	s.Stats.Set(uniqueJobName, &JobStats{
		Name:       uniqueJobName,
		CronExpr:   cronExpr,
		Status:     "Idle",
		LastResult: "Pending",
		Source:     source,
	})

	// keep a reference for manual triggering
	s.registered[uniqueJobName] = struct {
		task   core.Task
		params map[string]any
	}{taskInstance, params}

	wrapper := func() {
		s.runTaskWithStats(uniqueJobName, taskInstance, params)
	}

	entryID, err := s.cron.AddFunc(cronExpr, wrapper)
	if err == nil {
		stat := s.Stats.Get(uniqueJobName)
		stat.rawNext = s.cron.Entry(entryID).Next
		stat.NextRunTime = stat.rawNext.Format("2006-01-02 15:04:05")
	}
	return err
}

// runTaskWithStats executes the task and records the outcome
func (s *Scheduler) runTaskWithStats(name string, task core.Task, params map[string]any) {
	stat := s.Stats.Get(name)

	stat.Status = "Running"
	stat.LastRunTime = time.Now().Format("2006-01-02 15:04:05")
	stat.RunCount++

	log.Printf("🚀 [Schedule] Starting job: %s", name)

	// generous timeout, image generation can run for minutes per article
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	err := task.Run(ctx, params)

	if err != nil {
		stat.LastResult = fmt.Sprintf("Error: %v", err)
		stat.Status = "Error"
		log.Printf("❌ [Schedule] Job failed: %s, err: %v", name, err)
	} else {
		stat.LastResult = "Success"
		stat.Status = "Idle"
		log.Printf("✅ [Schedule] Job finished: %s", name)
	}
}

// ManualRun triggers the named job immediately
func (s *Scheduler) ManualRun(uniqueJobName string) error {
	reg, ok := s.registered[uniqueJobName]
	if !ok {
		return fmt.Errorf("job not found")
	}
	go s.runTaskWithStats(uniqueJobName, reg.task, reg.params)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
