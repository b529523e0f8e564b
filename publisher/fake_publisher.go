package publisher

import (
	"context"
	"sync"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

// FakePublisher is a test-only Publisher with a canned result and an optional
// artificial delay, used to force interleavings in concurrency tests.
type FakePublisher struct {
	m sync.Mutex

	// Result returned by every Publish call.
	Result PublishResult

	// Delay before returning, to simulate slow platform I/O.
	Delay time.Duration

	calls int
}

func NewFakePublisher(result PublishResult) *FakePublisher {
	return &FakePublisher{Result: result}
}

func (p *FakePublisher) Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return Failure("timeout")
		}
	}

	p.m.Lock()
	p.calls++
	p.m.Unlock()
	return p.Result
}

// Calls reports how many publish attempts reached this fake.
func (p *FakePublisher) Calls() int {
	p.m.Lock()
	defer p.m.Unlock()
	return p.calls
}
