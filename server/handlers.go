package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

type createPostRequest struct {
	Text      string        `json:"text"`
	Media     []model.Media `json:"media"`
	Platforms []string      `json:"platforms"`
	Tags      []string      `json:"tags"`
}

type updatePostRequest struct {
	Text      string        `json:"text"`
	Media     []model.Media `json:"media"`
	Platforms []string      `json:"platforms"`
	Tags      []string      `json:"tags"`
}

type publishPostRequest struct {
	// Platforms defaults to every target the post was created with.
	Platforms []string `json:"platforms"`
}

type schedulePostRequest struct {
	// ScheduledFor accepts most human date formats, not just RFC3339.
	ScheduledFor string `json:"scheduledFor"`
}

func abortWithError(c *gin.Context, status int, code int, err error) {
	c.JSON(status, gin.H{"code": code, "msg": err.Error()})
	c.Abort()
}

// currentUser reads the caller identity the middleware stashed in the "sub"
// header. Empty means anonymous.
func currentUser(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

// buildPost validates a create request and assembles the draft post.
func buildPost(c *gin.Context, req *createPostRequest) (*model.Post, error) {
	if err := model.ValidateContentText(req.Text); err != nil {
		return nil, err
	}
	platforms, err := model.ParsePlatformNames(req.Platforms)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, errors.New("at least one target platform is required")
	}

	id := uuid.New().String()
	post := &model.Post{
		Id:          id,
		ContentText: req.Text,
		Targets:     model.NewPendingTargets(id, platforms),
		Status:      model.PostStatusDraft,
		Tag:         model.JoinTags(req.Tags),
	}
	if sub := currentUser(c); sub != "" {
		post.UserID = &sub
	}
	if err := model.ValidateMedia(req.Media); err != nil {
		return nil, err
	}
	if err := post.SetMediaList(req.Media); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost creates a draft aimed at the requested platforms. Nothing is
// published yet.
func (s *Server) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	post, err := buildPost(c, &req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	if err := s.Posts.CreatePost(post); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// CreateManualPost creates a post and publishes it in the same request, the
// "post right now" path. Per-platform failures still answer 200, the outcome
// lives in the returned targets.
func (s *Server) CreateManualPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	post, err := buildPost(c, &req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}
	if err := s.Posts.CreatePost(post); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}

	results, updated, err := s.Dispatcher.PublishNow(c.Request.Context(), post.Id, post.TargetPlatforms())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": updated, "results": results})
}

func (s *Server) GetPost(c *gin.Context) {
	post, err := s.Posts.GetPost(c.Param("id"))
	if errors.Is(err, store.ErrPostNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) ListPosts(c *gin.Context) {
	q := store.ListPostsQuery{
		UserID: c.Query("userId"),
		Status: model.PostStatus(c.Query("status")),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	posts, total, err := s.Posts.ListPosts(q)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
}

// UpdatePost merges the non-empty request fields into the stored post. A post
// that already reached posted rejects edits.
func (s *Server) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	post, err := s.Posts.GetPost(c.Param("id"))
	if errors.Is(err, store.ErrPostNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	if post.Status == model.PostStatusPosted {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.New("posted posts cannot be edited"))
		return
	}

	patch := model.Post{ContentText: req.Text, Tag: model.JoinTags(req.Tags)}
	if err := copier.CopyWithOption(post, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	if err := model.ValidateContentText(post.ContentText); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}
	if req.Media != nil {
		if err := model.ValidateMedia(req.Media); err != nil {
			abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
			return
		}
		if err := post.SetMediaList(req.Media); err != nil {
			abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
			return
		}
	}
	if req.Platforms != nil {
		platforms, err := model.ParsePlatformNames(req.Platforms)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
			return
		}
		if len(platforms) == 0 {
			abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.New("at least one target platform is required"))
			return
		}
		post.Targets = model.NewPendingTargets(post.Id, platforms)
	}

	if err := s.Posts.UpdatePost(post); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) DeletePost(c *gin.Context) {
	err := s.Posts.DeletePost(c.Param("id"))
	if errors.Is(err, store.ErrPostNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishPost runs a publish attempt right now. A response with failed targets
// is still a 200: the request itself succeeded, the per-platform outcomes are
// data, not transport errors.
func (s *Server) PublishPost(c *gin.Context) {
	// An absent body means "publish to the post's own targets".
	var req publishPostRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	platforms, err := model.ParsePlatformNames(req.Platforms)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}
	if len(platforms) == 0 {
		post, err := s.Posts.GetPost(c.Param("id"))
		if errors.Is(err, store.ErrPostNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
			return
		}
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
			return
		}
		platforms = post.TargetPlatforms()
	}

	results, updated, err := s.Dispatcher.PublishNow(c.Request.Context(), c.Param("id"), platforms)
	if errors.Is(err, store.ErrPostNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": updated, "results": results})
}

// SchedulePost parks the post on the delay queue. A scheduledFor in the past
// is accepted and fires immediately.
func (s *Server) SchedulePost(c *gin.Context) {
	var req schedulePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	runAt, err := dateparse.ParseLocal(req.ScheduledFor)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.Wrap(err, "invalid scheduledFor"))
		return
	}

	post, err := s.Posts.GetPost(c.Param("id"))
	if errors.Is(err, store.ErrPostNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	if post.Status == model.PostStatusPosted {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.New("posted posts cannot be scheduled"))
		return
	}

	// Write only the schedule fields: a full-snapshot UpdatePost here could
	// overwrite target states a concurrently firing publish just recorded.
	if err := s.Posts.SetPostSchedule(post.Id, runAt); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	post.ScheduledFor = &runAt
	post.Status = model.PostStatusScheduled

	job, err := s.Queue.Enqueue(engine.JobScheduledPublish, engine.JobPayload{PostId: post.Id}, runAt)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	Logger.Log.Infof("post %s scheduled for %s as job %s", post.Id, runAt.Format(time.RFC3339), job.Id)
	c.JSON(http.StatusOK, gin.H{"post": post, "jobId": job.Id})
}
