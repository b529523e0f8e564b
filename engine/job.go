package engine

import (
	"encoding/json"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

type JobType string

const (
	// Publish a post to all of its target platforms at runAt.
	JobScheduledPublish JobType = "scheduled_publish"
)

// JobPayload carries the data a worker needs to execute a job. The post id is
// a reference only; the job holds no independent post state after execution.
type JobPayload struct {
	PostId string `json:"postId"`
}

// Job is a deferred unit of work. Jobs live in the scheduler's memory until
// their runAt elapses, then travel the event bus JSON-encoded. There is no
// cross-restart durability; a durable broker backed scheduler would be wired
// behind the same contract.
type Job struct {
	Id      string     `json:"id"`
	Type    JobType    `json:"type"`
	Payload JobPayload `json:"payload"`
	RunAt   time.Time  `json:"runAt"`
}

func (j *Job) Marshal() ([]byte, error) {
	return json.Marshal(j)
}

func UnmarshalJob(data []byte) (*Job, error) {
	job := Job{}
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// PostPublishedEvent is the payload of TOPIC_POST_PUBLISHED messages.
type PostPublishedEvent struct {
	PostId string      `json:"postId"`
	Post   *model.Post `json:"post"`
}

func (e *PostPublishedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalPostPublishedEvent(data []byte) (*PostPublishedEvent, error) {
	event := PostPublishedEvent{}
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
