package publisher

import (
	"context"
	"sync"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

const DefaultPublishTimeout = 15 * time.Second

type OrchestratorConfig struct {
	// Name of the orchestrator.
	Name string

	// PublishTimeout bounds each single platform publish attempt.
	PublishTimeout time.Duration
}

// Orchestrator fans a publish request out to the requested platforms,
// records each outcome onto the post's platform targets and re-derives the
// aggregate status from the full target snapshot. Platforms are independent:
// one failing never prevents, delays or rolls back the others.
type Orchestrator struct {
	Config OrchestratorConfig

	registry    *Registry
	store       store.PostStore
	credentials CredentialProvider
	eventBus    *gochannel.GoChannel

	// Per-post mutual exclusion around the write-and-aggregate step. The
	// network calls themselves run outside any lock. Entries are refcounted
	// and evicted once no publish for that post is in flight, so the table
	// does not grow with the lifetime post count.
	m         sync.Mutex
	postLocks map[string]*postLock
}

type postLock struct {
	mu   sync.Mutex
	refs int
}

func NewOrchestrator(
	config OrchestratorConfig,
	registry *Registry,
	postStore store.PostStore,
	credentials CredentialProvider,
	eventBus *gochannel.GoChannel,
) *Orchestrator {
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultPublishTimeout
	}
	return &Orchestrator{
		Config:      config,
		registry:    registry,
		store:       postStore,
		credentials: credentials,
		eventBus:    eventBus,
		postLocks:   make(map[string]*postLock),
	}
}

func (o *Orchestrator) acquirePostLock(postID string) *postLock {
	o.m.Lock()
	lock, ok := o.postLocks[postID]
	if !ok {
		lock = &postLock{}
		o.postLocks[postID] = lock
	}
	lock.refs++
	o.m.Unlock()

	lock.mu.Lock()
	return lock
}

func (o *Orchestrator) releasePostLock(postID string, lock *postLock) {
	lock.mu.Unlock()

	o.m.Lock()
	defer o.m.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.postLocks, postID)
	}
}

// activePostLocks counts posts with a publish currently in flight.
func (o *Orchestrator) activePostLocks() int {
	o.m.Lock()
	defer o.m.Unlock()
	return len(o.postLocks)
}

type platformAttempt struct {
	name   model.PlatformName
	result PublishResult
}

// PublishNow publishes the post to every requested platform concurrently and
// returns the per-platform results together with the updated post. Partial
// failure is a normal outcome: the error return is reserved for validation
// failures, a missing post and storage faults, never for a platform saying
// no.
func (o *Orchestrator) PublishNow(ctx context.Context, postID string, platforms []model.PlatformName) (map[model.PlatformName]PublishResult, *model.Post, error) {
	if len(platforms) == 0 {
		return nil, nil, ErrEmptyPlatforms
	}
	for _, name := range platforms {
		if _, ok := o.registry.Lookup(name); !ok {
			return nil, nil, errors.Errorf("unknown platform: %s", name)
		}
	}

	post, err := o.store.GetPost(postID)
	if err != nil {
		return nil, nil, err
	}
	content, err := post.Content()
	if err != nil {
		return nil, nil, err
	}

	userID := ""
	if post.UserID != nil {
		userID = *post.UserID
	}

	// Fan out one attempt per platform. The call completes once the slowest
	// platform resolves, bounding total latency to one attempt instead of
	// their sum.
	var wg sync.WaitGroup
	ch := make(chan platformAttempt, len(platforms))
	for _, name := range platforms {
		wg.Add(1)
		go func(name model.PlatformName) {
			defer wg.Done()
			ch <- platformAttempt{name: name, result: o.attempt(ctx, name, content, userID)}
		}(name)
	}
	wg.Wait()
	close(ch)

	results := map[model.PlatformName]PublishResult{}
	for attempt := range ch {
		results[attempt.name] = attempt.result
	}

	post, err = o.recordResults(postID, results)
	if err != nil {
		return results, nil, err
	}

	// Emit the lifecycle event only after all writes are durably applied.
	if err := o.publishLifecycleEvent(post); err != nil {
		Logger.Log.Errorf("fail to publish lifecycle event for post %s: %s", post.Id, err)
	}

	return results, post, nil
}

func (o *Orchestrator) attempt(ctx context.Context, name model.PlatformName, content model.PostContent, userID string) PublishResult {
	publisher, ok := o.registry.Lookup(name)
	if !ok {
		return Failure("unknown platform: " + string(name))
	}

	conn, err := o.credentials.ConnectionFor(userID, name)
	if err != nil {
		return Failure("fail to resolve credential: " + err.Error())
	}

	attemptCtx, cancel := context.WithTimeout(ctx, o.Config.PublishTimeout)
	defer cancel()
	return publisher.Publish(attemptCtx, content, conn)
}

// recordResults applies the per-platform outcomes and the aggregation rule
// under the post's lock, re-reading the post so concurrent calls for the same
// post serialize on a fresh snapshot instead of clobbering each other.
func (o *Orchestrator) recordResults(postID string, results map[model.PlatformName]PublishResult) (*model.Post, error) {
	lock := o.acquirePostLock(postID)
	defer o.releasePostLock(postID, lock)

	post, err := o.store.GetPost(postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for name, result := range results {
		target := post.EnsureTarget(name)
		if result.Success {
			target.MarkPosted(result.ExternalId, now)
		} else {
			target.MarkFailed(result.Error)
		}
	}

	post.Status = model.DeriveStatus(post.Targets, post.Status)
	if post.Status == model.PostStatusPosted && post.PostedAt == nil {
		post.PostedAt = &now
	}

	if err := o.store.UpdatePost(post); err != nil {
		return nil, errors.Wrapf(err, "fail to record publish results for post %s", postID)
	}
	return post, nil
}

func (o *Orchestrator) publishLifecycleEvent(post *model.Post) error {
	event := engine.PostPublishedEvent{PostId: post.Id, Post: post}
	data, err := event.Marshal()
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return o.eventBus.Publish(engine.TOPIC_POST_PUBLISHED, msg)
}
