package store

import (
	"time"

	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements PostStore and UserStore on top of Postgres.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CreatePost(post *model.Post) error {
	return errors.Wrap(s.DB.Create(post).Error, "fail to create post")
}

func (s *GormStore) GetPost(id string) (*model.Post, error) {
	var post model.Post
	res := s.DB.Preload("Targets").Where("id = ?", id).First(&post)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "fail to load post %s", id)
	}
	return &post, nil
}

func (s *GormStore) ListPosts(q ListPostsQuery) ([]*model.Post, int64, error) {
	query := s.DB.Model(&model.Post{})
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to count posts")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	posts := []*model.Post{}
	err := query.Preload("Targets").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "fail to list posts")
	}
	return posts, total, nil
}

// UpdatePost writes the post row and replaces its target rows in one
// transaction, so a reader never observes a half-applied target snapshot.
func (s *GormStore) UpdatePost(post *model.Post) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Targets").Save(post).Error; err != nil {
			return err
		}
		for _, target := range post.Targets {
			target.PostID = post.Id
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "name"}},
				UpdateAll: true,
			}).Create(target).Error
			if err != nil {
				return err
			}
		}
		return tx.Where("post_id = ?", post.Id).
			Not("name IN ?", targetNames(post)).
			Delete(&model.PlatformTarget{}).Error
	})
}

func targetNames(post *model.Post) []model.PlatformName {
	names := post.TargetPlatforms()
	if len(names) == 0 {
		// gorm renders an empty IN () as invalid SQL.
		return []model.PlatformName{""}
	}
	return names
}

func (s *GormStore) SetPostSchedule(id string, runAt time.Time) error {
	res := s.DB.Model(&model.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"scheduled_for": runAt,
		"status":        model.PostStatusScheduled,
	})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to schedule post %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *GormStore) DeletePost(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to delete post %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *GormStore) CountPostsByStatus() (map[model.PostStatus]int64, error) {
	rows := []struct {
		Status model.PostStatus
		Count  int64
	}{}
	err := s.DB.Model(&model.Post{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to aggregate post status")
	}

	counts := map[model.PostStatus]int64{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (s *GormStore) CountTargetsByState() (map[model.PlatformName]map[model.TargetState]int64, error) {
	rows := []struct {
		Name  model.PlatformName
		State model.TargetState
		Count int64
	}{}
	err := s.DB.Model(&model.PlatformTarget{}).
		Select("name, state, count(*) as count").
		Group("name").Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to aggregate target state")
	}

	counts := map[model.PlatformName]map[model.TargetState]int64{}
	for _, row := range rows {
		if counts[row.Name] == nil {
			counts[row.Name] = map[model.TargetState]int64{}
		}
		counts[row.Name][row.State] = row.Count
	}
	return counts, nil
}

func (s *GormStore) CreateUser(user *model.User) error {
	return errors.Wrap(s.DB.Create(user).Error, "fail to create user")
}

func (s *GormStore) GetUser(id string) (*model.User, error) {
	var user model.User
	res := s.DB.Preload("Connections").Where("id = ?", id).First(&user)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "fail to load user %s", id)
	}
	return &user, nil
}

func (s *GormStore) UpsertConnection(conn *model.SocialConnection) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		UpdateAll: true,
	}).Create(conn).Error
	return errors.Wrap(err, "fail to upsert connection")
}
