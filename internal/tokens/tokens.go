package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/helpinghands/go-services/internal/config"
	"github.com/helpinghands/go-services/internal/models"
)

// GenerateAccessToken creates a signed JWT access token for the user.
// The uid claim carries the durable local user identifier; it is empty when
// the profile has not been linked yet.
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ExternalID,
		"uid":   u.ID,
		"email": u.Email,
		"name":  u.Name(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}
