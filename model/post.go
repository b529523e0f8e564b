package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxContentLength is the platform-agnostic superset limit applied at post
// creation. Each platform enforces its own ceiling on top of this one.
const MaxContentLength = 280

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
)

type TargetState string

const (
	TargetStatePending TargetState = "pending"
	TargetStatePosted  TargetState = "posted"
	TargetStateFailed  TargetState = "failed"
)

type PlatformName string

const (
	PlatformTwitter   PlatformName = "twitter"
	PlatformLinkedIn  PlatformName = "linkedin"
	PlatformInstagram PlatformName = "instagram"
	PlatformFacebook  PlatformName = "facebook"
)

// AllPlatforms returns every platform this system can publish to.
func AllPlatforms() []PlatformName {
	return []PlatformName{
		PlatformTwitter,
		PlatformLinkedIn,
		PlatformInstagram,
		PlatformFacebook,
	}
}

// ParsePlatformName validates a raw platform string against the known set.
func ParsePlatformName(raw string) (PlatformName, error) {
	name := PlatformName(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range AllPlatforms() {
		if p == name {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown platform: %s", raw)
}

// ParsePlatformNames validates a list of raw platform strings, deduplicating
// while preserving order. An empty result is not an error here, callers that
// require a non-empty target set check that themselves.
func ParsePlatformNames(raw []string) ([]PlatformName, error) {
	seen := map[PlatformName]bool{}
	names := []PlatformName{}
	for _, r := range raw {
		name, err := ParsePlatformName(r)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// DisplayName is the user facing platform name, used verbatim in failure
// reasons such as "LinkedIn not connected".
func (p PlatformName) DisplayName() string {
	switch p {
	case PlatformTwitter:
		return "Twitter"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformInstagram:
		return "Instagram"
	case PlatformFacebook:
		return "Facebook"
	}
	return string(p)
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Media is one attachment on a post, already uploaded and addressable by url.
type Media struct {
	Url      string    `json:"url"`
	Kind     MediaKind `json:"kind"`
	Filename string    `json:"filename,omitempty"`
}

// PostContent is the platform-agnostic payload handed to platform publishers.
type PostContent struct {
	Text  string  `json:"text"`
	Media []Media `json:"media"`
}

/*

Post is the unit of content a user wants distributed to one or more platforms.

Id: primary key, uuid assigned at creation, immutable
ContentText: post's text in plain text, bounded by MaxContentLength
Media: ordered list of Media attachments, serialized as a JSON column
Targets: one PlatformTarget per requested platform, "has-many" relation.
	Each target carries its own publish outcome independently of the others.
ScheduledFor: optional future publish time; nil means publish on request
PostedAt: set the first time the aggregate status becomes "posted"
Status: overall lifecycle state, draft -> scheduled -> {posted | failed}.
	Derived from the full target snapshot by DeriveStatus, written only by the
	publish orchestrator.
Tag: tags serialized into a string separated by ","
*/

type Post struct {
	Id           string `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt    `json:"-"`
	UserID       *string           `json:"userId,omitempty"`
	User         *User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	ContentText  string            `json:"text"`
	Media        datatypes.JSON    `json:"media,omitempty"`
	Targets      []*PlatformTarget `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"targets"`
	ScheduledFor *time.Time        `json:"scheduledFor,omitempty"`
	PostedAt     *time.Time        `json:"postedAt,omitempty"`
	Status       PostStatus        `json:"status"`
	Tag          string            `json:"tag,omitempty"`
}

// PlatformTarget is one platform's publication attempt for a Post. Created in
// pending state for every requested platform, then moved to posted or failed
// by the orchestrator, one transition per publish attempt.
type PlatformTarget struct {
	PostID     string       `gorm:"primaryKey" json:"-"`
	Name       PlatformName `gorm:"primaryKey" json:"name"`
	State      TargetState  `json:"state"`
	ExternalId string       `json:"externalId,omitempty"`
	PostedAt   *time.Time   `json:"postedAt,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func (t *PlatformTarget) MarkPosted(externalId string, at time.Time) {
	t.State = TargetStatePosted
	t.ExternalId = externalId
	t.PostedAt = &at
	// A success clears any failure reason left by an earlier attempt.
	t.Error = ""
}

func (t *PlatformTarget) MarkFailed(reason string) {
	t.State = TargetStateFailed
	t.Error = reason
}

// Reset returns the target to pending ahead of a fresh publish attempt.
func (t *PlatformTarget) Reset() {
	t.State = TargetStatePending
	t.ExternalId = ""
	t.PostedAt = nil
	t.Error = ""
}

// NewPendingTargets builds the initial pending target set for a new post.
func NewPendingTargets(postID string, platforms []PlatformName) []*PlatformTarget {
	targets := []*PlatformTarget{}
	for _, name := range platforms {
		targets = append(targets, &PlatformTarget{
			PostID: postID,
			Name:   name,
			State:  TargetStatePending,
		})
	}
	return targets
}

// Content assembles the publisher payload from the post's text and media.
func (p *Post) Content() (PostContent, error) {
	media, err := p.MediaList()
	if err != nil {
		return PostContent{}, err
	}
	return PostContent{Text: p.ContentText, Media: media}, nil
}

// MediaList deserializes the JSON media column.
func (p *Post) MediaList() ([]Media, error) {
	if len(p.Media) == 0 {
		return []Media{}, nil
	}
	media := []Media{}
	if err := json.Unmarshal(p.Media, &media); err != nil {
		return nil, errors.Wrapf(err, "malformed media on post %s", p.Id)
	}
	return media, nil
}

func (p *Post) SetMediaList(media []Media) error {
	data, err := json.Marshal(media)
	if err != nil {
		return err
	}
	p.Media = datatypes.JSON(data)
	return nil
}

// Target returns the target for the given platform, or nil if the post was
// never aimed at it.
func (p *Post) Target(name PlatformName) *PlatformTarget {
	for _, t := range p.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// EnsureTarget returns the target for the given platform, appending a new
// pending one if the post was not previously aimed at it.
func (p *Post) EnsureTarget(name PlatformName) *PlatformTarget {
	if t := p.Target(name); t != nil {
		return t
	}
	t := &PlatformTarget{PostID: p.Id, Name: name, State: TargetStatePending}
	p.Targets = append(p.Targets, t)
	return t
}

// TargetPlatforms lists every platform this post is aimed at, in target order.
func (p *Post) TargetPlatforms() []PlatformName {
	names := []PlatformName{}
	for _, t := range p.Targets {
		names = append(names, t.Name)
	}
	return names
}

// DeriveStatus computes the aggregate post status from the complete current
// target snapshot:
//   - every target posted -> posted
//   - at least one target failed -> failed
//   - otherwise (some still pending, none failed) -> current status unchanged
//
// The rule is intentionally evaluated over all targets, not just the ones
// touched by the latest publish call, so a platform that failed in an earlier
// call keeps dragging the aggregate to failed until it succeeds.
func DeriveStatus(targets []*PlatformTarget, current PostStatus) PostStatus {
	if len(targets) == 0 {
		return current
	}

	allPosted := true
	anyFailed := false
	for _, t := range targets {
		if t.State != TargetStatePosted {
			allPosted = false
		}
		if t.State == TargetStateFailed {
			anyFailed = true
		}
	}

	if allPosted {
		return PostStatusPosted
	}
	if anyFailed {
		return PostStatusFailed
	}
	return current
}

// ValidateContentText enforces the platform-agnostic length ceiling.
func ValidateContentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("post text must not be empty")
	}
	if len([]rune(text)) > MaxContentLength {
		return errors.Errorf("post text exceeds %d characters", MaxContentLength)
	}
	return nil
}

// ValidateMedia checks that every attachment carries a url and a known kind.
func ValidateMedia(media []Media) error {
	for _, m := range media {
		if m.Url == "" {
			return errors.New("media attachment missing url")
		}
		if m.Kind != MediaKindImage && m.Kind != MediaKindVideo {
			return errors.Errorf("unknown media kind: %s", m.Kind)
		}
	}
	return nil
}

// JoinTags serializes tags into the comma separated Tag column.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func SplitTags(tag string) []string {
	if tag == "" {
		return []string{}
	}
	return strings.Split(tag, ",")
}
