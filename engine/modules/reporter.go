package modules

import (
	"context"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ReporterConfig struct {
	Name string
}

// StatsdClient is the slice of the datadog-go client the reporter uses,
// satisfied by *statsd.Client.
type StatsdClient interface {
	Incr(name string, tags []string, rate float64) error
}

// Reporter's job is to listen to post lifecycle events and aggregate results,
// sending to Datadog (Or other service if there's any) for monitoring purpose.
type Reporter struct {
	Config ReporterConfig

	Statsd StatsdClient

	EventBus *gochannel.GoChannel
}

func NewReporter(config ReporterConfig, statsd StatsdClient, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
	}
}

// PostPublishedTags builds the counter tags for one lifecycle event.
func PostPublishedTags(event *engine.PostPublishedEvent) []string {
	return []string{"status:" + string(event.Post.Status)}
}

// TargetStateTags builds per-target tags for the target state counter.
func TargetStateTags(event *engine.PostPublishedEvent) [][]string {
	tags := [][]string{}
	for _, target := range event.Post.Targets {
		tags = append(tags, []string{
			"platform:" + string(target.Name),
			"state:" + string(target.State),
		})
	}
	return tags
}

// Report one lifecycle event's metrics to datadog.
func ReportPostPublished(event *engine.PostPublishedEvent, client StatsdClient) {
	if err := client.Incr(engine.DDOG_POST_PUBLISHED_COUNTER, PostPublishedTags(event), 1); err != nil {
		Logger.Log.Infoln("cannot report post published counter")
	}
	for _, tags := range TargetStateTags(event) {
		if err := client.Incr(engine.DDOG_TARGET_STATE_COUNTER, tags, 1); err != nil {
			Logger.Log.Infoln("cannot report target state counter")
		}
	}
}

func (r *Reporter) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, engine.TOPIC_POST_PUBLISHED)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		event, err := engine.UnmarshalPostPublishedEvent(msg.Payload)
		if err != nil {
			Logger.Log.Errorf("fail to unmarshal lifecycle event: %s", err)
			continue
		}

		ReportPostPublished(event, r.Statsd)
	}

	return nil
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {
	Logger.Log.Infoln("Module ", r.Config.Name, " gracefully shutdown")
}
