package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpinghands/go-services/internal/config"
	"github.com/helpinghands/go-services/internal/models"
	"github.com/helpinghands/go-services/internal/oidc"
	"github.com/helpinghands/go-services/internal/sessions"
	"github.com/helpinghands/go-services/internal/tokens"
	"github.com/helpinghands/go-services/internal/users"
	"github.com/helpinghands/go-services/pkg/logger"
	"github.com/helpinghands/go-services/pkg/metrics"
)

// LoginRequest covers both login modes: password grant (dev/testing) and
// authorization-code exchange.
type LoginRequest struct {
	Mode        string `json:"mode" binding:"required"` // "password" | "auth_code"
	Username    string `json:"username"`
	Password    string `json:"password"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login exchanges provider credentials for local tokens. The verified identity
// is bound to a local account on first sign-in; returning users are recognized
// by email and never mutated here.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode != "password" && req.Mode != "auth_code" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}
	tokenURL, err := h.tokenEndpoint(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider not configured"})
		return
	}

	var tokenResp *tokenResponse
	if req.Mode == "password" {
		tokenResp, err = exchangeToken(c.Request.Context(), tokenURL, h.cfg.OIDC.ClientID, h.cfg.OIDC.ClientSecret, url.Values{
			"grant_type": {"password"},
			"username":   {req.Username},
			"password":   {req.Password},
		})
	} else {
		if req.Code == "" || req.RedirectURI == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code and redirect_uri required for auth_code mode"})
			return
		}
		tokenResp, err = exchangeToken(c.Request.Context(), tokenURL, h.cfg.OIDC.ClientID, h.cfg.OIDC.ClientSecret, url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {req.Code},
			"redirect_uri": {req.RedirectURI},
		})
	}
	if err != nil {
		logger.Errorf("token exchange failed (mode=%s): %v", req.Mode, err)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed", "details": err.Error()})
		return
	}

	claims, err := h.verifyIDToken(c.Request.Context(), tokenResp.IDToken)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
		return
	}

	u, created, err := h.usersSvc.BindExternalIdentity(c.Request.Context(), claims)
	if err != nil {
		logger.Errorf("account binding error: %v", err)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account binding failed"})
		return
	}
	if u == nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "id token is missing the email claim"})
		return
	}
	if created {
		logger.Infof("created local account for %s", u.Email)
	}

	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.Email, u.ExternalID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"accessToken":     access,
		"refreshToken":    rft,
		"user":            u,
		"isNewUser":       created,
		"profileComplete": u.ProfileComplete(),
		"expiresIn":       int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	// the validated session carries the local user id; only sessions with a
	// bound account need the full profile loaded for the token claims
	var u *models.User
	if sess.UserID != "" {
		u, err = h.usersSvc.GetByEmail(c.Request.Context(), sess.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
			return
		}
	}
	if u == nil {
		u = &models.User{ID: sess.UserID, Email: sess.Email, ExternalID: sess.Sub}
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and (optionally) blacklists the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// tokenEndpoint returns the configured code-exchange endpoint, falling back to
// OIDC discovery against the issuer.
func (h *AuthHandler) tokenEndpoint(ctx context.Context) (string, error) {
	if h.cfg.OIDC.TokenURL != "" {
		return h.cfg.OIDC.TokenURL, nil
	}
	if h.cfg.OIDC.Issuer == "" {
		return "", fmt.Errorf("neither OIDC_TOKEN_URL nor OIDC_ISSUER is set")
	}
	ver, err := oidc.NewVerifier(ctx, h.cfg.OIDC.Issuer, h.cfg.OIDC.ClientID)
	if err != nil {
		return "", err
	}
	return ver.TokenEndpoint(), nil
}

func (h *AuthHandler) verifyIDToken(ctx context.Context, idToken string) (map[string]interface{}, error) {
	ver, err := oidc.NewVerifier(ctx, h.cfg.OIDC.Issuer, h.cfg.OIDC.ClientID)
	if err != nil {
		if strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
			tkn, verr := oidc.NewInsecureVerifier().Verify(ctx, idToken)
			if verr != nil {
				return nil, verr
			}
			var claims map[string]interface{}
			if cerr := tkn.Claims(&claims); cerr != nil {
				return nil, cerr
			}
			return claims, nil
		}
		return nil, err
	}
	tkn, err := ver.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := tkn.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// exchangeToken posts the form to the token endpoint using client_secret_post,
// retrying once with HTTP Basic client auth when the provider rejects the
// form-body secret with a 401.
func exchangeToken(ctx context.Context, tokenURL, clientID, clientSecret string, form url.Values) (*tokenResponse, error) {
	form.Set("client_id", clientID)
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	body := form.Encode()

	resp, err := postForm(ctx, tokenURL, body, "", "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && clientSecret != "" {
		_ = resp.Body.Close()
		logger.Warnf("token endpoint rejected client_secret_post; retrying with Basic auth")
		resp, err = postForm(ctx, tokenURL, body, clientID, clientSecret)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func postForm(ctx context.Context, tokenURL, body, basicUser, basicPass string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basicUser != "" {
		req.SetBasicAuth(basicUser, basicPass)
	}
	return http.DefaultClient.Do(req)
}

// parseExpFromJWT decodes the JWT payload and returns the exp claim. Payload-only
// parsing, good enough for computing the remaining blacklist TTL.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		b, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims struct {
		Exp float64 `json:"exp"`
	}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.Exp == 0 {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	return time.Unix(int64(claims.Exp), 0), nil
}
