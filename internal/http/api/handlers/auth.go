package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evcatalog/internal/models"
	"evcatalog/internal/ratelimit"
	"evcatalog/internal/security"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "ev_session"

// PrincipalKey is the gin context key holding the verified principal.
const PrincipalKey = "principal"

// loginAttemptLimit bounds login attempts per client IP per minute.
const loginAttemptLimit = 10

// invalidCredentialsMessage is returned for both unknown logins and wrong
// passwords so the response does not leak which one failed.
const invalidCredentialsMessage = "invalid login or password"

// AuthHandler manages login, logout, and session status endpoints.
type AuthHandler struct {
	db       *gorm.DB           // Database handle for auth user lookups.
	sessions *security.Sessions // Session credential issuer/verifier.
	limiter  ratelimit.Limiter  // Login attempt limiter keyed by client IP.
	secure   bool               // Sets the Secure cookie flag in production.
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, sessions *security.Sessions, limiter ratelimit.Limiter, secure bool) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, limiter: limiter, secure: secure}
}

// loginRequest captures the login payload.
type loginRequest struct {
	Login    string `json:"login"`    // Account login name.
	Password string `json:"password"` // Plain-text password, compared against the stored hash.
}

// Login verifies credentials and sets the session cookie on success.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.limiter != nil {
		res, errLimit := h.limiter.Allow(c.Request.Context(), c.ClientIP(), loginAttemptLimit, time.Now())
		if errLimit == nil && !res.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
	}

	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	login := strings.TrimSpace(body.Login)
	if login == "" || body.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentialsMessage})
		return
	}

	var user models.AuthUser
	errFind := h.db.WithContext(c.Request.Context()).Where("login = ?", login).First(&user).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).Error("login: query auth user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentialsMessage})
		return
	}

	if !security.CheckPassword(body.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentialsMessage})
		return
	}

	token, errIssue := h.sessions.Issue(user.ID, user.Login)
	if errIssue != nil {
		log.WithError(errIssue).Error("login: issue session token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.setSessionCookie(c, token, int(h.sessions.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"userId": user.ID, "login": user.Login},
	})
}

// Logout clears the session cookie. The token itself stays valid until
// natural expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Status reports the authenticated principal from the verified credential.
func (h *AuthHandler) Status(c *gin.Context) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"user":            gin.H{"userId": principal.UserID, "login": principal.Login},
	})
}

// setSessionCookie writes the HTTP-only SameSite=Lax session cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", h.secure, true)
}

// PrincipalFromContext returns the principal set by the auth middleware.
func PrincipalFromContext(c *gin.Context) (*security.Principal, bool) {
	value, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*security.Principal)
	return principal, ok
}
