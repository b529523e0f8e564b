package server

import (
	"net/http"

	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type upsertConnectionRequest struct {
	Platform         string `json:"platform" binding:"required"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExternalUserId   string `json:"externalUserId"`
	ExternalUsername string `json:"externalUsername"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	user := &model.User{
		Id:       uuid.New().String(),
		Username: req.Username,
		Email:    req.Email,
	}
	if err := s.Users.CreateUser(user); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) GetUser(c *gin.Context) {
	user, err := s.Users.GetUser(c.Param("id"))
	if errors.Is(err, store.ErrUserNotFound) {
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpsertConnection stores a platform credential for the user, marking the
// platform connected. Token refresh goes through the same endpoint.
func (s *Server) UpsertConnection(c *gin.Context) {
	var req upsertConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	platform, err := model.ParsePlatformName(req.Platform)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}
	if _, err := s.Users.GetUser(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
			return
		}
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}

	conn := &model.SocialConnection{
		UserID:           c.Param("id"),
		Platform:         platform,
		Connected:        true,
		AccessToken:      req.AccessToken,
		RefreshToken:     req.RefreshToken,
		ExternalUserId:   req.ExternalUserId,
		ExternalUsername: req.ExternalUsername,
	}
	if err := s.Users.UpsertConnection(conn); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, conn)
}

// DisconnectPlatform drops the credential and flips the connection off.
// Publishes to this platform fail with "<Platform> not connected" afterwards.
func (s *Server) DisconnectPlatform(c *gin.Context) {
	platform, err := model.ParsePlatformName(c.Param("platform"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	conn := &model.SocialConnection{
		UserID:    c.Param("id"),
		Platform:  platform,
		Connected: false,
	}
	if err := s.Users.UpsertConnection(conn); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, ErrorNotFound, err)
			return
		}
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.Status(http.StatusNoContent)
}
