package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the account that owns posts and platform connections. Connection
// management (OAuth dances, token refresh) happens at an outer layer; this
// model only stores the resolved credential per platform.
type User struct {
	Id               string `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt      `json:"-"`
	Username         string              `gorm:"uniqueIndex" json:"username"`
	Email            string              `gorm:"uniqueIndex" json:"email"`
	Name             string              `json:"name,omitempty"`
	AvatarUrl        string              `json:"avatarUrl,omitempty"`
	Bio              string              `json:"bio,omitempty"`
	Connections      []*SocialConnection `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"connections"`
	DefaultPlatforms string              `json:"defaultPlatforms,omitempty"`
	Timezone         string              `json:"timezone,omitempty"`
}

// SocialConnection is one user's stored credential for one platform.
type SocialConnection struct {
	UserID           string       `gorm:"primaryKey" json:"-"`
	Platform         PlatformName `gorm:"primaryKey" json:"platform"`
	Connected        bool         `json:"connected"`
	AccessToken      string       `json:"-"`
	RefreshToken     string       `json:"-"`
	ExternalUserId   string       `json:"externalUserId,omitempty"`
	ExternalUsername string       `json:"externalUsername,omitempty"`
}

// Connection returns the user's credential for the given platform. A missing
// connection comes back as the zero value, which reads as disconnected.
func (u *User) Connection(platform PlatformName) SocialConnection {
	for _, c := range u.Connections {
		if c.Platform == platform {
			return *c
		}
	}
	return SocialConnection{UserID: u.Id, Platform: platform}
}
