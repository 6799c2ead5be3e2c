package tasks

import (
	"fmt"
	"log"
	"sync"

	"github.com/iceymoss/sentinelpost/internal/core"
)

const (
	SourceSystem = "SYSTEM"
	SourceYAML   = "YAML"
)

type Scheduler interface {
	AddJob(cronExpr, taskName, uniqueJobName string, params map[string]any, source string) error
}

// ApplyAutoJobs registers every task that asked to start automatically.
func ApplyAutoJobs(sched Scheduler) {
	mu.RLock()
	defer mu.RUnlock()

	for _, job := range autoJobs {
		err := sched.AddJob(job.Cron, job.Name, job.Name, job.Params, SourceSystem)
		if err != nil {
			log.Printf("❌ [AutoLoad] Failed to load %s: %v", job.Name, err)
		} else {
			log.Printf("✅ [AutoLoad] Loaded: %s [%s]", job.Name, job.Cron)
		}
	}
}

// AutoJob describes a self-starting task
type AutoJob struct {
	Name    string           // unique task id
	Cron    string           // cron expression
	Creator core.TaskCreator // constructor
	Params  map[string]any   // default parameters
}

var (
	registry = make(map[string]core.TaskCreator) // config-driven tasks
	autoJobs = make([]*AutoJob, 0)               // self-starting tasks
	mu       sync.RWMutex
)

// Register makes a task available to config-driven jobs.
func Register(name string, creator core.TaskCreator) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = creator
}

// RegisterAuto registers a task and schedules it automatically. A task file
// calls this once in init() and gets both the logic and the schedule wired.
func RegisterAuto(name string, cron string, creator core.TaskCreator, defaultParams map[string]any) {
	mu.Lock()
	defer mu.Unlock()

	// also in the normal pool so the web UI can trigger it manually
	registry[name] = creator

	autoJobs = append(autoJobs, &AutoJob{
		Name:    name,
		Cron:    cron,
		Creator: creator,
		Params:  defaultParams,
	})
}

func GetTask(name string) (core.Task, error) {
	mu.RLock()
	defer mu.RUnlock()
	creator, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("task implementation '%s' not found", name)
	}
	return creator(), nil
}
