package errors

import (
	"errors"
	"fmt"
)

type InvalidPoolSizeError struct {
	size int
}

func NewInvalidPoolSizeError(size int) *InvalidPoolSizeError {
	return &InvalidPoolSizeError{size: size}
}

func (e *InvalidPoolSizeError) Error() string {
	return fmt.Sprintf("invalid pool size %d: must be a positive integer", e.size)
}

func (e *InvalidPoolSizeError) Size() int {
	return e.size
}

func IsInvalidPoolSizeError(err error) bool {
	var e *InvalidPoolSizeError
	return errors.As(err, &e)
}

type PoolShutDownError struct{}

func NewPoolShutDownError() *PoolShutDownError {
	return &PoolShutDownError{}
}

func (e *PoolShutDownError) Error() string {
	return "thread pool is shut down"
}

func IsPoolShutDownError(err error) bool {
	var e *PoolShutDownError
	return errors.As(err, &e)
}

type SupervisorShutDownError struct{}

func NewSupervisorShutDownError() *SupervisorShutDownError {
	return &SupervisorShutDownError{}
}

func (e *SupervisorShutDownError) Error() string {
	return "task supervisor is shut down"
}

func IsSupervisorShutDownError(err error) bool {
	var e *SupervisorShutDownError
	return errors.As(err, &e)
}

// IsShutDownError reports whether err was returned by a dispatcher that no
// longer accepts jobs, whichever execution model produced it.
func IsShutDownError(err error) bool {
	return IsPoolShutDownError(err) || IsSupervisorShutDownError(err)
}

type InvalidJobError struct{}

func NewInvalidJobError() *InvalidJobError {
	return &InvalidJobError{}
}

func (e *InvalidJobError) Error() string {
	return "job must not be nil"
}

func IsInvalidJobError(err error) bool {
	var e *InvalidJobError
	return errors.As(err, &e)
}

// JobPanickedError carries the recovered value of a job that panicked.
// Executor is the worker ordinal in the pool model and -1 for supervised tasks.
type JobPanickedError struct {
	JobID    uint64
	Executor int
	Value    any
	Stack    []byte
}

func NewJobPanickedError(jobID uint64, executor int, value any, stack []byte) *JobPanickedError {
	return &JobPanickedError{
		JobID:    jobID,
		Executor: executor,
		Value:    value,
		Stack:    stack,
	}
}

func (e *JobPanickedError) Error() string {
	return fmt.Sprintf("job %d panicked: %v", e.JobID, e.Value)
}

// Unwrap exposes the panic value when the job panicked with an error.
func (e *JobPanickedError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func IsJobPanickedError(err error) bool {
	var e *JobPanickedError
	return errors.As(err, &e)
}

type UnauthorizedError struct{}

func NewUnauthorizedError() *UnauthorizedError {
	return &UnauthorizedError{}
}

func (e *UnauthorizedError) Error() string {
	return "admin API rejected the credentials"
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
