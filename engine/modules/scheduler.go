package modules

import (
	"context"
	"sync"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type SchedulerConfig struct {
	// Name of the scheduler.
	Name string
}

// Scheduler is the in-memory delay queue. Each enqueued job is held until its
// runAt elapses, then published exactly once onto the pending job topic for a
// worker to consume. The internal job table is owned exclusively by the
// scheduler; jobs do not survive a process restart.
type Scheduler struct {
	Config SchedulerConfig

	EventBus *gochannel.GoChannel

	m       sync.RWMutex
	jobs    map[string]*engine.Job
	timers  map[string]*time.Timer
	stopped bool
}

// Return a new instance of Scheduler.
func NewScheduler(config SchedulerConfig, e *gochannel.GoChannel) *Scheduler {
	return &Scheduler{
		Config:   config,
		EventBus: e,
		jobs:     make(map[string]*engine.Job),
		timers:   make(map[string]*time.Timer),
	}
}

// Enqueue registers a job to fire at runAt. A runAt already in the past is
// eligible immediately; the delay floor is zero, never negative. The returned
// job is the caller's acknowledgment, there is no way to await its outcome.
func (s *Scheduler) Enqueue(jobType engine.JobType, payload engine.JobPayload, runAt time.Time) (*engine.Job, error) {
	job := &engine.Job{
		Id:      uuid.NewString(),
		Type:    jobType,
		Payload: payload,
		RunAt:   runAt,
	}

	delay := time.Until(runAt)
	if delay < 0 {
		delay = 0
	}

	s.m.Lock()
	if s.stopped {
		s.m.Unlock()
		return nil, errors.New("scheduler is shut down")
	}
	s.jobs[job.Id] = job
	s.timers[job.Id] = time.AfterFunc(delay, func() { s.fire(job) })
	s.m.Unlock()

	Logger.Log.Infof("enqueued job %s (%s) to run at %s", job.Id, job.Type, job.RunAt)
	return job, nil
}

func (s *Scheduler) fire(job *engine.Job) {
	s.m.Lock()
	// A timer that fired during Shutdown gets here after its Stop returned
	// false; the stopped flag keeps it from publishing into a dead engine.
	if s.stopped {
		s.m.Unlock()
		return
	}
	delete(s.jobs, job.Id)
	delete(s.timers, job.Id)
	s.m.Unlock()

	data, err := job.Marshal()
	if err != nil {
		Logger.Log.Errorf("fail to marshal job %s: %s", job.Id, err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.EventBus.Publish(engine.TOPIC_PENDING_JOB, msg); err != nil {
		Logger.Log.Errorf("fail to publish job %s onto event bus: %s", job.Id, err)
	}
}

// PendingJobs counts jobs whose runAt has not elapsed yet.
func (s *Scheduler) PendingJobs() int {
	s.m.RLock()
	defer s.m.RUnlock()
	return len(s.jobs)
}

func (s *Scheduler) RunModule(ctx context.Context) error {
	// Timers fire on their own goroutines; the module itself only has to
	// stay alive until shutdown.
	<-ctx.Done()
	return nil
}

func (s *Scheduler) Name() string {
	return s.Config.Name
}

func (s *Scheduler) Shutdown() {
	s.m.Lock()
	defer s.m.Unlock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
		delete(s.jobs, id)
	}
}
