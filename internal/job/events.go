package job

// Summary is the payload of the finished event.
type Summary struct {
	JobID      string
	Converted  int   // number of successfully converted files
	SavedBytes int64 // original minus output bytes; negative when outputs grew
}

// EventSink receives job-level events pushed by the [Controller]. Progress
// and ETA fire once per successfully completed task, in completion order;
// TaskError fires once per failed task; Finished fires exactly once, and
// only when every task completed successfully.
//
// Events are delivered while the job's lock is held so their ordering
// guarantees hold under concurrent completions. Implementations must return
// promptly and must not call back into the Controller.
type EventSink interface {
	Progress(percent int)
	ETA(formatted string)
	TaskError(message string)
	Finished(s Summary)
}
