package store

import (
	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/pkg/errors"
)

// UserConnectionProvider resolves the stored credential for a user+platform
// pair. A post without an owner, or an owner without a stored connection,
// resolves to a zero-value (disconnected) credential so the platform
// publisher fails with "not connected" instead of the orchestrator erroring.
type UserConnectionProvider struct {
	Users UserStore
}

func NewUserConnectionProvider(users UserStore) *UserConnectionProvider {
	return &UserConnectionProvider{Users: users}
}

func (p *UserConnectionProvider) ConnectionFor(userID string, platform model.PlatformName) (model.SocialConnection, error) {
	if userID == "" {
		return model.SocialConnection{Platform: platform}, nil
	}
	user, err := p.Users.GetUser(userID)
	if errors.Is(err, ErrUserNotFound) {
		return model.SocialConnection{UserID: userID, Platform: platform}, nil
	}
	if err != nil {
		return model.SocialConnection{}, err
	}
	return user.Connection(platform), nil
}
