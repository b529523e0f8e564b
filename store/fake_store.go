package store

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

// FakeStore is an in-memory PostStore / UserStore for tests and local
// debugging, mirroring the gorm implementation's semantics. Posts are deep
// copied on the way in and out so callers cannot mutate stored state behind
// the store's back.
type FakeStore struct {
	m     sync.RWMutex
	posts map[string]*model.Post
	users map[string]*model.User
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		posts: make(map[string]*model.Post),
		users: make(map[string]*model.User),
	}
}

func copyPost(post *model.Post) *model.Post {
	data, _ := json.Marshal(post)
	dup := model.Post{}
	json.Unmarshal(data, &dup)
	dup.CreatedAt = post.CreatedAt
	return &dup
}

func copyUser(user *model.User) *model.User {
	dup := *user
	dup.Connections = []*model.SocialConnection{}
	for _, c := range user.Connections {
		cc := *c
		dup.Connections = append(dup.Connections, &cc)
	}
	return &dup
}

func (s *FakeStore) CreatePost(post *model.Post) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.posts[post.Id] = copyPost(post)
	return nil
}

func (s *FakeStore) GetPost(id string) (*model.Post, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return copyPost(post), nil
}

func (s *FakeStore) ListPosts(q ListPostsQuery) ([]*model.Post, int64, error) {
	s.m.RLock()
	defer s.m.RUnlock()

	matched := []*model.Post{}
	for _, post := range s.posts {
		if q.UserID != "" && (post.UserID == nil || *post.UserID != q.UserID) {
			continue
		}
		if q.Status != "" && post.Status != q.Status {
			continue
		}
		matched = append(matched, copyPost(post))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*model.Post{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *FakeStore) UpdatePost(post *model.Post) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.posts[post.Id]; !ok {
		return ErrPostNotFound
	}
	s.posts[post.Id] = copyPost(post)
	return nil
}

func (s *FakeStore) SetPostSchedule(id string, runAt time.Time) error {
	s.m.Lock()
	defer s.m.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	at := runAt
	post.ScheduledFor = &at
	post.Status = model.PostStatusScheduled
	return nil
}

func (s *FakeStore) DeletePost(id string) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *FakeStore) CountPostsByStatus() (map[model.PostStatus]int64, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	counts := map[model.PostStatus]int64{}
	for _, post := range s.posts {
		counts[post.Status]++
	}
	return counts, nil
}

func (s *FakeStore) CountTargetsByState() (map[model.PlatformName]map[model.TargetState]int64, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	counts := map[model.PlatformName]map[model.TargetState]int64{}
	for _, post := range s.posts {
		for _, t := range post.Targets {
			if counts[t.Name] == nil {
				counts[t.Name] = map[model.TargetState]int64{}
			}
			counts[t.Name][t.State]++
		}
	}
	return counts, nil
}

func (s *FakeStore) CreateUser(user *model.User) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.users[user.Id] = copyUser(user)
	return nil
}

func (s *FakeStore) GetUser(id string) (*model.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *FakeStore) UpsertConnection(conn *model.SocialConnection) error {
	s.m.Lock()
	defer s.m.Unlock()
	user, ok := s.users[conn.UserID]
	if !ok {
		return ErrUserNotFound
	}
	for i, c := range user.Connections {
		if c.Platform == conn.Platform {
			cc := *conn
			user.Connections[i] = &cc
			return nil
		}
	}
	cc := *conn
	user.Connections = append(user.Connections, &cc)
	return nil
}
