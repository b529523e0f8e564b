// Package store owns persistence for posts and users. The orchestrator and
// the HTTP layer depend only on the interfaces here, so tests can swap in the
// in-memory fake and production wires the gorm implementation.
package store

import (
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/pkg/errors"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
)

// ListPostsQuery filters and paginates post listing. Page is 1-based.
type ListPostsQuery struct {
	UserID string
	Status model.PostStatus
	Page   int
	Limit  int
}

type PostStore interface {
	CreatePost(post *model.Post) error

	// GetPost loads a post with its full target set, or ErrPostNotFound.
	GetPost(id string) (*model.Post, error)

	ListPosts(q ListPostsQuery) (posts []*model.Post, total int64, err error)

	// UpdatePost persists the post and its targets as one write.
	UpdatePost(post *model.Post) error

	// SetPostSchedule records the scheduled time and flips the status to
	// scheduled, touching nothing else. In particular the target snapshot is
	// left alone, so a publish landing concurrently cannot be clobbered by a
	// stale read.
	SetPostSchedule(id string, runAt time.Time) error

	DeletePost(id string) error

	// CountPostsByStatus and CountTargetsByState power the analytics summary.
	CountPostsByStatus() (map[model.PostStatus]int64, error)
	CountTargetsByState() (map[model.PlatformName]map[model.TargetState]int64, error)
}

type UserStore interface {
	CreateUser(user *model.User) error

	// GetUser loads a user with connections, or ErrUserNotFound.
	GetUser(id string) (*model.User, error)

	// UpsertConnection stores one platform credential for a user.
	UpsertConnection(conn *model.SocialConnection) error
}
