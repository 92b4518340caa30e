package jobqueue

import (
	"time"
)

// DefaultQueuePrefix is the queue-family prefix under which sub-queues
// are persisted when no custom prefix is configured. Unrelated queue
// families never collide because every storage key carries the prefix.
const DefaultQueuePrefix = "job_queues"

// Job is the unit of work flowing through the queue: one chat turn (or
// equivalent request) addressed to a logical job. Items that share a
// JobID are processed strictly one at a time in arrival order; items
// with distinct JobIDs may be processed in parallel.
type Job struct {
	// JobID namespaces the logical conversation or task this item
	// belongs to. Must be non-empty and stable for the life of the job.
	JobID string `json:"job_id"`

	// Content is the user-visible request body, typically a chat turn.
	Content string `json:"content"`

	// FilesInbox lists object keys of files uploaded alongside the
	// request, resolvable through the inbox storage.
	FilesInbox []string `json:"files_inbox,omitempty"`

	// Parent references the message this item replies to, if any.
	Parent string `json:"parent,omitempty"`

	// WorkflowCode and WorkflowName select an optional workflow to run
	// instead of the default chat processing.
	WorkflowCode string `json:"workflow_code,omitempty"`
	WorkflowName string `json:"workflow_name,omitempty"`

	// Profile is the owning identity the work is performed on behalf of.
	Profile string `json:"profile"`

	// ReceivedAt marks insertion order. Together with JobID it forms
	// the item's identity for deduplication and ordering.
	ReceivedAt time.Time `json:"received_at"`
}

// NewJob creates a job item stamped with the current time.
func NewJob(jobID, content, profile string) Job {
	return Job{
		JobID:      jobID,
		Content:    content,
		Profile:    profile,
		ReceivedAt: time.Now().UTC(),
	}
}

// Equal reports whether two items denote the same unit of work.
// Identity is (JobID, ReceivedAt); content is deliberately ignored so a
// re-pushed duplicate compares equal to the original.
func (j Job) Equal(other Job) bool {
	return j.JobID == other.JobID && j.ReceivedAt.Equal(other.ReceivedAt)
}

// Before reports arrival ordering between two items of the same job.
func (j Job) Before(other Job) bool {
	return j.ReceivedAt.Before(other.ReceivedAt)
}
