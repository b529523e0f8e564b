package modules

import (
	"context"
	"testing"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/publisher"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workerFixture wires scheduler, worker and a real orchestrator onto one
// in-process event bus, the same topology cmd/server assembles.
type workerFixture struct {
	store     *store.FakeStore
	twitter   *publisher.FakePublisher
	scheduler *Scheduler
	events    <-chan *message.Message
	cancel    context.CancelFunc
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()

	fakeStore := store.NewFakeStore()
	twitter := publisher.NewFakePublisher(publisher.Success("t123"))
	registry := publisher.NewRegistry()
	registry.Register(model.PlatformTwitter, twitter)

	eventBus := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	events, err := eventBus.Subscribe(context.Background(), engine.TOPIC_POST_PUBLISHED)
	require.NoError(t, err)

	orchestrator := publisher.NewOrchestrator(
		publisher.OrchestratorConfig{Name: "orchestrator", PublishTimeout: time.Second},
		registry,
		fakeStore,
		store.NewUserConnectionProvider(fakeStore),
		eventBus,
	)

	scheduler := NewScheduler(SchedulerConfig{Name: "scheduler"}, eventBus)
	worker := NewWorker(WorkerConfig{Name: "worker"}, eventBus, fakeStore, orchestrator)

	ctx, cancel := context.WithCancel(context.Background())
	go worker.RunModule(ctx)
	t.Cleanup(func() {
		cancel()
		scheduler.Shutdown()
	})

	return &workerFixture{
		store:     fakeStore,
		twitter:   twitter,
		scheduler: scheduler,
		events:    events,
		cancel:    cancel,
	}
}

func (f *workerFixture) createPost(t *testing.T, platforms ...model.PlatformName) *model.Post {
	t.Helper()
	id := uuid.New().String()
	post := &model.Post{
		Id:          id,
		ContentText: "Scheduled launch",
		Targets:     model.NewPendingTargets(id, platforms),
		Status:      model.PostStatusScheduled,
	}
	require.NoError(t, f.store.CreatePost(post))
	return post
}

func (f *workerFixture) receiveEvent(t *testing.T, within time.Duration) *engine.PostPublishedEvent {
	t.Helper()
	select {
	case msg := <-f.events:
		msg.Ack()
		event, err := engine.UnmarshalPostPublishedEvent(msg.Payload)
		require.NoError(t, err)
		return event
	case <-time.After(within):
		t.Fatalf("no lifecycle event within %s", within)
	}
	return nil
}

func TestWorker_ExecutesScheduledPublish(t *testing.T) {
	f := newWorkerFixture(t)
	post := f.createPost(t, model.PlatformTwitter)

	runAt := time.Now().Add(500 * time.Millisecond)
	_, err := f.scheduler.Enqueue(
		engine.JobScheduledPublish,
		engine.JobPayload{PostId: post.Id},
		runAt,
	)
	require.NoError(t, err)

	// Before runAt the post is untouched.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, f.twitter.Calls())
	stored, err := f.store.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusScheduled, stored.Status)

	event := f.receiveEvent(t, 2*time.Second)
	assert.Equal(t, post.Id, event.PostId)
	assert.Equal(t, model.PostStatusPosted, event.Post.Status)
	assert.Equal(t, 1, f.twitter.Calls())

	stored, err = f.store.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPosted, stored.Status)
	require.NotNil(t, stored.PostedAt)
	assert.Equal(t, "t123", stored.Target(model.PlatformTwitter).ExternalId)

	// Exactly one publish attempt for one job.
	select {
	case msg := <-f.events:
		t.Fatalf("unexpected extra event: %s", string(msg.Payload))
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWorker_DropsJobForDeletedPost(t *testing.T) {
	f := newWorkerFixture(t)

	_, err := f.scheduler.Enqueue(
		engine.JobScheduledPublish,
		engine.JobPayload{PostId: uuid.New().String()},
		time.Now(),
	)
	require.NoError(t, err)

	select {
	case msg := <-f.events:
		t.Fatalf("event for deleted post: %s", string(msg.Payload))
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, 0, f.twitter.Calls())
}

// A job whose dispatch errors is consumed, and the worker keeps serving
// subsequent jobs.
func TestWorker_SurvivesDispatchError(t *testing.T) {
	f := newWorkerFixture(t)

	// No targets at all makes the orchestrator reject the dispatch.
	broken := f.createPost(t)
	_, err := f.scheduler.Enqueue(
		engine.JobScheduledPublish,
		engine.JobPayload{PostId: broken.Id},
		time.Now(),
	)
	require.NoError(t, err)

	healthy := f.createPost(t, model.PlatformTwitter)
	_, err = f.scheduler.Enqueue(
		engine.JobScheduledPublish,
		engine.JobPayload{PostId: healthy.Id},
		time.Now().Add(100*time.Millisecond),
	)
	require.NoError(t, err)

	event := f.receiveEvent(t, 2*time.Second)
	assert.Equal(t, healthy.Id, event.PostId)
	assert.Equal(t, model.PostStatusPosted, event.Post.Status)
}

func TestWorker_IgnoresUnknownJobType(t *testing.T) {
	f := newWorkerFixture(t)
	post := f.createPost(t, model.PlatformTwitter)

	_, err := f.scheduler.Enqueue(
		engine.JobType("sweep_expired"),
		engine.JobPayload{PostId: post.Id},
		time.Now(),
	)
	require.NoError(t, err)

	select {
	case msg := <-f.events:
		t.Fatalf("unknown job type produced an event: %s", string(msg.Payload))
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, 0, f.twitter.Calls())
}
