package core

import "context"

// TaskCreator is the constructor signature for background tasks
type TaskCreator func() Task

// Task background job interface
type Task interface {
	// Run executes the task logic.
	// params carries dynamic parameters from the config file.
	Run(ctx context.Context, params map[string]any) error

	// Identifier returns the unique task id (used in logs)
	Identifier() string
}
