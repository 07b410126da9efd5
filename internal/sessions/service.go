package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// UserIDResolver maps a session email to the durable local user identifier.
type UserIDResolver interface {
	UserIDByEmail(ctx context.Context, email string) (string, error)
}

// Service wraps repository operations with business logic. The optional
// resolver enriches materialized sessions with the local user id.
type Service struct {
	repo     Repository
	resolver UserIDResolver
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// SetResolver configures session enrichment. Safe to call with nil.
func (s *Service) SetResolver(r UserIDResolver) { s.resolver = r }

// CreateSession stores a new refresh session and returns the refresh token
func (s *Service) CreateSession(ctx context.Context, email, sub string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	r := hex.EncodeToString(b)
	sess := &Session{
		RefreshToken: r,
		Email:        email,
		Sub:          sub,
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return r, nil
}

// ValidateRefresh returns the enriched session if the refresh token is valid
// and not expired, (nil, nil) otherwise.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		// cleanup expired session
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return s.Enrich(ctx, sess), nil
}

// Enrich attaches the durable user id for the session's email. An absent
// user or an unavailable store leaves UserID empty (profile not yet linked);
// enrichment never fails the session.
func (s *Service) Enrich(ctx context.Context, sess *Session) *Session {
	if sess == nil || s.resolver == nil {
		return sess
	}
	if id, err := s.resolver.UserIDByEmail(ctx, sess.Email); err == nil {
		sess.UserID = id
	}
	return sess
}

func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}
