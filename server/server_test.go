package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/engine"
	"github.com/Ishwaqsyed03/Brand-manager/file_store"
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/publisher"
	"github.com/Ishwaqsyed03/Brand-manager/server/middlewares"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDispatcher records the last dispatch and plays back canned outcomes.
type stubDispatcher struct {
	results       map[model.PlatformName]publisher.PublishResult
	post          *model.Post
	err           error
	lastPostID    string
	lastPlatforms []model.PlatformName
}

func (d *stubDispatcher) PublishNow(ctx context.Context, postID string, platforms []model.PlatformName) (map[model.PlatformName]publisher.PublishResult, *model.Post, error) {
	d.lastPostID = postID
	d.lastPlatforms = platforms
	return d.results, d.post, d.err
}

// stubQueue records enqueued jobs.
type stubQueue struct {
	jobs []*engine.Job
}

func (q *stubQueue) Enqueue(jobType engine.JobType, payload engine.JobPayload, runAt time.Time) (*engine.Job, error) {
	job := &engine.Job{Id: uuid.New().String(), Type: jobType, Payload: payload, RunAt: runAt}
	q.jobs = append(q.jobs, job)
	return job, nil
}

// fakeSeenStore is an in-memory stand-in for the redis seen status store.
type fakeSeenStore struct {
	seen map[string]bool
}

func newFakeSeenStore() *fakeSeenStore {
	return &fakeSeenStore{seen: map[string]bool{}}
}

func (f *fakeSeenStore) GetPostsSeenStatus(postIds []string, userId string) ([]bool, error) {
	out := []bool{}
	for _, id := range postIds {
		out = append(out, f.seen[userId+"__"+id])
	}
	return out, nil
}

func (f *fakeSeenStore) SetPostsSeenStatus(postIds []string, userId string, seen bool) error {
	for _, id := range postIds {
		if seen {
			f.seen[userId+"__"+id] = true
		} else {
			delete(f.seen, userId+"__"+id)
		}
	}
	return nil
}

type serverFixture struct {
	store      *store.FakeStore
	dispatcher *stubDispatcher
	queue      *stubQueue
	files      *file_store.FakeFileStore
	seen       *fakeSeenStore
	router     *gin.Engine
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fakeStore := store.NewFakeStore()
	dispatcher := &stubDispatcher{}
	queue := &stubQueue{}
	files := file_store.NewFakeFileStore()
	seen := newFakeSeenStore()

	srv := NewServer(fakeStore, fakeStore, dispatcher, queue, files, seen)
	router := gin.New()
	router.Use(middlewares.HeaderIdentity())
	srv.RegisterRoutes(router)

	return &serverFixture{
		store:      fakeStore,
		dispatcher: dispatcher,
		queue:      queue,
		files:      files,
		seen:       seen,
		router:     router,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) createDraft(t *testing.T, platforms ...model.PlatformName) *model.Post {
	t.Helper()
	id := uuid.New().String()
	post := &model.Post{
		Id:          id,
		ContentText: "Launch day!",
		Targets:     model.NewPendingTargets(id, platforms),
		Status:      model.PostStatusDraft,
	}
	require.NoError(t, f.store.CreatePost(post))
	return post
}

func TestCreatePost(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, "POST", "/post", gin.H{
		"text":      "Launch day!",
		"platforms": []string{"twitter", "linkedin"},
		"tags":      []string{"launch", "product"},
	}, map[string]string{"X-User-Id": "user-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.PostStatusDraft, created.Status)
	assert.Len(t, created.Targets, 2)
	assert.Equal(t, "launch,product", created.Tag)
	require.NotNil(t, created.UserID)
	assert.Equal(t, "user-1", *created.UserID)

	stored, err := f.store.GetPost(created.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TargetStatePending, stored.Target(model.PlatformTwitter).State)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, "POST", "/post", gin.H{"text": "", "platforms": []string{"twitter"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/post", gin.H{"text": "hi", "platforms": []string{"myspace"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/post", gin.H{"text": "hi", "platforms": []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := make([]byte, model.MaxContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	w = f.do(t, "POST", "/post", gin.H{"text": string(long), "platforms": []string{"twitter"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/post", gin.H{
		"text":      "hi",
		"platforms": []string{"twitter"},
		"media":     []gin.H{{"url": "https://cdn.example.com/a.gif", "kind": "gif"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPost_NotFound(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, "GET", "/post/"+uuid.New().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishPost_DefaultsToPostTargets(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter, model.PlatformLinkedIn)

	f.dispatcher.results = map[model.PlatformName]publisher.PublishResult{
		model.PlatformTwitter:  publisher.Success("t123"),
		model.PlatformLinkedIn: publisher.Failure("LinkedIn not connected"),
	}
	f.dispatcher.post = post

	w := f.do(t, "POST", "/post/"+post.Id+"/publish", gin.H{}, nil)
	// Partial failure is a successful request.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, post.Id, f.dispatcher.lastPostID)
	assert.Equal(t, []model.PlatformName{model.PlatformTwitter, model.PlatformLinkedIn}, f.dispatcher.lastPlatforms)
}

func TestPublishPost_Errors(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	w := f.do(t, "POST", "/post/"+post.Id+"/publish", gin.H{"platforms": []string{"myspace"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.dispatcher.err = store.ErrPostNotFound
	w = f.do(t, "POST", "/post/"+post.Id+"/publish", gin.H{"platforms": []string{"twitter"}}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSchedulePost(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	w := f.do(t, "POST", "/post/"+post.Id+"/schedule", gin.H{"scheduledFor": "2030-01-02 15:04:05"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, f.queue.jobs, 1)
	job := f.queue.jobs[0]
	assert.Equal(t, engine.JobScheduledPublish, job.Type)
	assert.Equal(t, post.Id, job.Payload.PostId)
	assert.Equal(t, 2030, job.RunAt.Year())

	stored, err := f.store.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusScheduled, stored.Status)
	require.NotNil(t, stored.ScheduledFor)
}

// Scheduling writes only the schedule fields, so target outcomes recorded by
// a publish racing the schedule request are never overwritten.
func TestSchedulePost_PreservesFreshTargetState(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	// A publish outcome lands while the schedule request is in flight.
	published, err := f.store.GetPost(post.Id)
	require.NoError(t, err)
	published.Target(model.PlatformTwitter).MarkPosted("t123", time.Now())
	require.NoError(t, f.store.UpdatePost(published))

	w := f.do(t, "POST", "/post/"+post.Id+"/schedule", gin.H{"scheduledFor": "2030-01-02 15:04:05"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TargetStatePosted, stored.Target(model.PlatformTwitter).State)
	assert.Equal(t, "t123", stored.Target(model.PlatformTwitter).ExternalId)
	assert.Equal(t, model.PostStatusScheduled, stored.Status)
}

func TestSchedulePost_InvalidDate(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	w := f.do(t, "POST", "/post/"+post.Id+"/schedule", gin.H{"scheduledFor": "not a date"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.queue.jobs)
}

func TestUpdatePost(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	w := f.do(t, "PUT", "/post/"+post.Id, gin.H{"text": "Revised copy"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.GetPost(post.Id)
	require.NoError(t, err)
	assert.Equal(t, "Revised copy", stored.ContentText)
	// Untouched fields survive the merge.
	assert.Len(t, stored.Targets, 1)

	// Replacing platforms resets the target set.
	w = f.do(t, "PUT", "/post/"+post.Id, gin.H{"platforms": []string{"facebook"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored, err = f.store.GetPost(post.Id)
	require.NoError(t, err)
	require.Len(t, stored.Targets, 1)
	assert.Equal(t, model.PlatformFacebook, stored.Targets[0].Name)
}

func TestUpdatePost_PostedIsImmutable(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)
	post.Status = model.PostStatusPosted
	require.NoError(t, f.store.UpdatePost(post))

	w := f.do(t, "PUT", "/post/"+post.Id, gin.H{"text": "too late"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePost(t *testing.T) {
	f := newServerFixture(t)
	post := f.createDraft(t, model.PlatformTwitter)

	w := f.do(t, "DELETE", "/post/"+post.Id, nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "GET", "/post/"+post.Id, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserConnectionLifecycle(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, "POST", "/user", gin.H{"username": "casey", "email": "casey@example.com"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	w = f.do(t, "POST", "/user/"+user.Id+"/connection", gin.H{
		"platform":       "twitter",
		"accessToken":    "secret-token",
		"externalUserId": "tw-1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Tokens never serialize into responses.
	assert.NotContains(t, w.Body.String(), "secret-token")

	w = f.do(t, "GET", "/user/"+user.Id, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.True(t, fetched.Connection(model.PlatformTwitter).Connected)

	w = f.do(t, "DELETE", "/user/"+user.Id+"/connection/twitter", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "GET", "/user/"+user.Id, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.False(t, fetched.Connection(model.PlatformTwitter).Connected)
}

func TestUploadMedia(t *testing.T) {
	f := newServerFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="banner.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Key  string          `json:"key"`
		Url  string          `json:"url"`
		Kind model.MediaKind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.MediaKindImage, resp.Kind)
	assert.Equal(t, []byte("jpeg bytes"), f.files.Stored(resp.Key))
	assert.Equal(t, "https://fake.store/"+resp.Key, resp.Url)
}

func TestUploadMedia_UnsupportedType(t *testing.T) {
	f := newServerFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="doc.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeenStatus(t *testing.T) {
	f := newServerFixture(t)
	identity := map[string]string{"X-User-Id": "user-1"}

	w := f.do(t, "GET", "/post/status?ids=p1,p2", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, "POST", "/post/status", gin.H{"postIds": []string{"p1"}, "seen": true}, identity)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "GET", "/post/status?ids=p1,p2", nil, identity)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Seen map[string]bool `json:"seen"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Seen["p1"])
	assert.False(t, resp.Seen["p2"])

	// Another user's view is independent.
	w = f.do(t, "GET", "/post/status?ids=p1", nil, map[string]string{"X-User-Id": "user-2"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Seen["p1"])
}

func TestAnalyticsSummary(t *testing.T) {
	f := newServerFixture(t)
	f.createDraft(t, model.PlatformTwitter)
	posted := f.createDraft(t, model.PlatformLinkedIn)
	posted.Status = model.PostStatusPosted
	posted.Target(model.PlatformLinkedIn).State = model.TargetStatePosted
	require.NoError(t, f.store.UpdatePost(posted))

	w := f.do(t, "GET", "/analytics/summary", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts   map[model.PostStatus]int64                         `json:"posts"`
		Targets map[model.PlatformName]map[model.TargetState]int64 `json:"targets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Posts[model.PostStatusDraft])
	assert.Equal(t, int64(1), resp.Posts[model.PostStatusPosted])
	assert.Equal(t, int64(1), resp.Targets[model.PlatformLinkedIn][model.TargetStatePosted])
	assert.Equal(t, int64(1), resp.Targets[model.PlatformTwitter][model.TargetStatePending])
}
