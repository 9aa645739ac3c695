package tasks

import (
	"errors"
	"fmt"
)

// Ошибки реестра. Проверяются через errors.Is.
var (
	ErrEmptyDescription     = errors.New("description cannot be empty")
	ErrInvalidDeadline      = errors.New("invalid deadline")
	ErrDuplicateDescription = errors.New("task already exists")
	ErrTaskNotFound         = errors.New("task not found")
	ErrAlreadyCompleted     = errors.New("task already completed")
	ErrNoCompletedTasks     = errors.New("no completed tasks to clear")
	ErrEmptyRegistry        = errors.New("no tasks available")
)

// TaskError несёт полезную нагрузку ошибки (id и/или описание задачи)
// и разворачивается в одну из sentinel-ошибок выше.
type TaskError struct {
	Err         error
	ID          int
	Description string
}

func (e *TaskError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTaskNotFound):
		return fmt.Sprintf("task with ID %d not found", e.ID)
	case errors.Is(e.Err, ErrDuplicateDescription):
		return fmt.Sprintf("task \"%s\" already exists", e.Description)
	case errors.Is(e.Err, ErrAlreadyCompleted):
		return fmt.Sprintf("task \"%s\" is already completed", e.Description)
	default:
		return e.Err.Error()
	}
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func notFound(id int) error {
	return &TaskError{Err: ErrTaskNotFound, ID: id}
}
