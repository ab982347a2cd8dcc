package scheduler

// AsDispatcher exposes a TaskSupervisor through the Dispatcher interface.
// Handles are not retained by the caller; Shutdown still drains every task.
func AsDispatcher(s *TaskSupervisor) Dispatcher {
	return supervisorDispatcher{s}
}

type supervisorDispatcher struct {
	*TaskSupervisor
}

func (d supervisorDispatcher) Submit(job Job) error {
	_, err := d.TaskSupervisor.Submit(job)
	return err
}

var (
	_ Dispatcher = supervisorDispatcher{}
	_ Observable = supervisorDispatcher{}
)
