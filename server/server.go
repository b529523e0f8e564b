package server

import (
	"context"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/file_store"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/publisher"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	"github.com/gin-gonic/gin"
)

// Error codes carried alongside http statuses in error responses.
const (
	ErrorInvalidRequest = 40001
	ErrorNotFound       = 40401
	ErrorInternal       = 50001
	ErrorAuthFail       = 40101
)

// PublishDispatcher is the slice of the orchestrator the http layer needs.
type PublishDispatcher interface {
	PublishNow(ctx context.Context, postID string, platforms []model.PlatformName) (map[model.PlatformName]publisher.PublishResult, *model.Post, error)
}

// ScheduleQueue is the slice of the scheduler the http layer needs.
type ScheduleQueue interface {
	Enqueue(jobType engine.JobType, payload engine.JobPayload, runAt time.Time) (*engine.Job, error)
}

// SeenStatusStore tracks which published posts a user's dashboard already saw.
type SeenStatusStore interface {
	GetPostsSeenStatus(postIds []string, userId string) ([]bool, error)
	SetPostsSeenStatus(postIds []string, userId string, seen bool) error
}

// Server glues the REST surface onto the publishing engine. Every field is an
// interface so handler tests run against fakes without a database or bus.
type Server struct {
	Posts      store.PostStore
	Users      store.UserStore
	Dispatcher PublishDispatcher
	Queue      ScheduleQueue
	Files      file_store.MediaFileStore

	// SeenStatus is nil when no redis is configured; the seen endpoints then
	// answer 503.
	SeenStatus SeenStatusStore
}

func NewServer(
	posts store.PostStore,
	users store.UserStore,
	dispatcher PublishDispatcher,
	queue ScheduleQueue,
	files file_store.MediaFileStore,
	seenStatus SeenStatusStore,
) *Server {
	return &Server{
		Posts:      posts,
		Users:      users,
		Dispatcher: dispatcher,
		Queue:      queue,
		Files:      files,
		SeenStatus: seenStatus,
	}
}

// RegisterRoutes binds every handler onto the router.
func (s *Server) RegisterRoutes(router gin.IRouter) {
	router.POST("/post", s.CreatePost)
	router.POST("/post/manual", s.CreateManualPost)
	router.GET("/post", s.ListPosts)
	router.GET("/post/status", s.GetPostsSeenStatus)
	router.POST("/post/status", s.SetPostsSeenStatus)
	router.GET("/post/:id", s.GetPost)
	router.PUT("/post/:id", s.UpdatePost)
	router.DELETE("/post/:id", s.DeletePost)
	router.POST("/post/:id/publish", s.PublishPost)
	router.POST("/post/:id/schedule", s.SchedulePost)

	router.POST("/user", s.CreateUser)
	router.GET("/user/:id", s.GetUser)
	router.POST("/user/:id/connection", s.UpsertConnection)
	router.DELETE("/user/:id/connection/:platform", s.DisconnectPlatform)

	router.POST("/upload", s.UploadMedia)
	router.GET("/analytics/summary", s.AnalyticsSummary)
}
