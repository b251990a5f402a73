package handler

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/logger"
	"github.com/dkzinn98/gestor-financeiro/internal/middleware"
	"github.com/dkzinn98/gestor-financeiro/internal/models"
	"github.com/dkzinn98/gestor-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler owns registration, login and logout.
type AuthHandler struct {
	DB         *gorm.DB
	Registry   *ledger.Categories
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, registry *ledger.Categories, jwtSecret, issuer string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		Registry:   registry,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,max=255"`
	Password             string `json:"password" binding:"required,min=6,max=72"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	violations := ledger.FieldViolations{}
	if req.Name == "" {
		violations["name"] = append(violations["name"], "required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		violations["email"] = append(violations["email"], "invalid")
	}
	if req.Password != req.PasswordConfirmation {
		violations["password"] = append(violations["password"], "confirmation_mismatch")
	}
	if len(violations) > 0 {
		util.ValidationFailed(c, violations)
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", req.Email).
		Count(&count).Error; err != nil {
		logger.Get().Error("register: lookup email", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "registration failed")
		return
	}
	if count > 0 {
		util.ValidationFailed(c, ledger.FieldViolations{"email": {"already_taken"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		logger.Get().Error("register: hash password", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "registration failed")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		logger.Get().Error("register: create user", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "registration failed")
		return
	}

	if err := h.Registry.EnsureDefaults(c.Request.Context(), user.ID); err != nil {
		logger.Get().Error("register: seed default categories",
			zap.Uint("user_id", user.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "registration failed")
		return
	}

	token, err := h.openSession(&user)
	if err != nil {
		logger.Get().Error("register: open session",
			zap.Uint("user_id", user.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "registration failed")
		return
	}

	logger.Get().Info("user registered", zap.Uint("user_id", user.ID))

	util.Created(c, util.Response{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         toUserResp(&user),
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("LOWER(email) = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid credentials")
		} else {
			logger.Get().Error("login: lookup user", zap.Error(err))
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "login failed")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Get().Debug("login rejected", zap.Uint("user_id", user.ID))
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid credentials")
		return
	}

	// single active token per user: revoke previous sessions on login
	if err := h.DB.Model(&models.Session{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error; err != nil {
		logger.Get().Error("login: revoke sessions",
			zap.Uint("user_id", user.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "login failed")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	_ = h.DB.Save(&user).Error

	token, err := h.openSession(&user)
	if err != nil {
		logger.Get().Error("login: open session",
			zap.Uint("user_id", user.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "login failed")
		return
	}

	logger.Get().Info("user logged in", zap.Uint("user_id", user.ID))

	util.Success(c, util.Response{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         toUserResp(&user),
	})
}

// Logout revokes every live session of the current user.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	if err := h.DB.Model(&models.Session{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error; err != nil {
		logger.Get().Error("logout: revoke sessions",
			zap.Uint("user_id", user.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "logout failed")
		return
	}

	util.Success(c, util.Response{
		"message": "logged out",
	})
}

// openSession creates a session row and signs a JWT bound to it.
func (h *AuthHandler) openSession(user *models.User) (string, error) {
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		return "", err
	}
	return util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, session.ID, h.TokenTTL)
}
