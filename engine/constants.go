package engine

const (
	// Scheduled jobs whose runAt has elapsed, awaiting a worker.
	TOPIC_PENDING_JOB = "topic.pending_job"

	// Post lifecycle events emitted by the publish orchestrator after every
	// call that re-derived aggregate status.
	TOPIC_POST_PUBLISHED = "topic.post_published"

	DDOG_POST_PUBLISHED_COUNTER = "brandmanager.post.published"
	DDOG_TARGET_STATE_COUNTER   = "brandmanager.target.state"
)
