// Package jobs talks to the extraction job service, which crawls ratings
// for series the data service does not know yet.
package jobs

import "fmt"

// Status is the lifecycle of an extraction job.
type Status int

const (
	NotProcessed Status = iota
	Processing
	CompletedSucceeded
	CompletedFailed
)

// Wire messages for each Status.
const (
	NotProcessedMsg       = "Not processed"
	ProcessingMsg         = "Processing"
	CompletedSucceededMsg = "Completed successfully"
	CompletedFailedMsg    = "Failed to complete"
)

var statusMsgs = map[Status]string{
	NotProcessed:       NotProcessedMsg,
	Processing:         ProcessingMsg,
	CompletedSucceeded: CompletedSucceededMsg,
	CompletedFailed:    CompletedFailedMsg,
}

func (s Status) String() string {
	if msg, ok := statusMsgs[s]; ok {
		return msg
	}
	return fmt.Sprintf("Type Unknown %d", s)
}

// Done reports whether the job has finished, successfully or not.
func (s Status) Done() bool {
	return s == CompletedSucceeded || s == CompletedFailed
}

// ParseStatus maps a wire message back to a Status.
func ParseStatus(msg string) (Status, error) {
	for s, m := range statusMsgs {
		if m == msg {
			return s, nil
		}
	}
	return 0, fmt.Errorf("jobs: unknown status %q", msg)
}

// Job is one extraction job as reported by the service.
type Job struct {
	ID     int
	Name   string
	Status Status
}

type wireJob struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (w wireJob) job() (Job, error) {
	st, err := ParseStatus(w.Status)
	if err != nil {
		return Job{}, err
	}
	return Job{ID: w.ID, Name: w.Name, Status: st}, nil
}
