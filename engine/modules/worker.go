package modules

import (
	"context"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/publisher"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

type WorkerConfig struct {
	// Name of the worker.
	Name string
}

// PublishDispatcher is the slice of the orchestrator the worker depends on.
type PublishDispatcher interface {
	PublishNow(ctx context.Context, postID string, platforms []model.PlatformName) (map[model.PlatformName]publisher.PublishResult, *model.Post, error)
}

// Worker consumes pending jobs off the event bus and executes scheduled
// publishes through the real orchestrator, so a scheduled post gets genuine
// per-platform outcomes rather than a blanket success.
type Worker struct {
	Config WorkerConfig

	EventBus   *gochannel.GoChannel
	Store      store.PostStore
	Dispatcher PublishDispatcher
}

// Return a new instance of Worker.
func NewWorker(config WorkerConfig, e *gochannel.GoChannel, postStore store.PostStore, dispatcher PublishDispatcher) *Worker {
	return &Worker{
		Config:     config,
		EventBus:   e,
		Store:      postStore,
		Dispatcher: dispatcher,
	}
}

func (w *Worker) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.EventBus.Subscribe(ctx, engine.TOPIC_PENDING_JOB)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		job, err := engine.UnmarshalJob(msg.Payload)
		if err != nil {
			Logger.Log.Errorf("fail to unmarshal job from event bus: %s", err)
			continue
		}

		w.handleJob(ctx, job)
	}

	return nil
}

// handleJob executes one job. Every return path consumes the job: scheduled
// jobs are fire-and-forget and have no caller left to notify, so failures
// surface only through the post state and the logs.
func (w *Worker) handleJob(ctx context.Context, job *engine.Job) {
	if job.Type != engine.JobScheduledPublish {
		Logger.Log.Errorf("worker received job %s with unknown type %s, dropping", job.Id, job.Type)
		return
	}

	post, err := w.Store.GetPost(job.Payload.PostId)
	if errors.Is(err, store.ErrPostNotFound) {
		// The post was deleted between scheduling and firing. The original
		// requester already got an acknowledgment at enqueue time, so this
		// is not an error condition.
		Logger.Log.Debugf("post %s no longer exists, dropping job %s", job.Payload.PostId, job.Id)
		return
	}
	if err != nil {
		Logger.Log.Errorf("fail to load post %s for job %s: %s", job.Payload.PostId, job.Id, err)
		return
	}

	// Re-publish to every originally requested platform; partial re-dispatch
	// to only the previously failed ones is not supported.
	if _, _, err := w.Dispatcher.PublishNow(ctx, post.Id, post.TargetPlatforms()); err != nil {
		Logger.Log.Errorf("scheduled publish of post %s failed: %s", post.Id, err)
	}
}

func (w *Worker) Name() string {
	return w.Config.Name
}

func (w *Worker) Shutdown() {
	Logger.Log.Infoln("Module ", w.Config.Name, " gracefully shutdown")
}
