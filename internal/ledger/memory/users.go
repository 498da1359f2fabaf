package memory

import (
	"context"
	"strings"
	"time"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
)

type userRecord struct {
	user core.User
	hash string
}

type session struct {
	userID    int64
	expiresAt time.Time
}

var _ ledger.UserStore = (*Store)(nil)

func (s *Store) CreateUser(_ context.Context, email, passwordHash string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Email == email {
			return core.User{}, ledger.ErrEmailTaken
		}
	}

	u := core.User{ID: s.nextUserID, Email: email}
	s.nextUserID++
	s.users[u.ID] = &userRecord{user: u, hash: passwordHash}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Email == email {
			return rec.user, rec.hash, nil
		}
	}
	return core.User{}, "", ledger.ErrUserNotFound
}

func (s *Store) UpdateDisplayName(_ context.Context, userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ledger.ErrUserNotFound
	}
	rec.user.DisplayName = name
	return nil
}

func (s *Store) CreateSession(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *Store) ValidateSession(_ context.Context, token string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return core.User{}, ledger.ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return core.User{}, ledger.ErrSessionNotFound
	}
	rec, ok := s.users[sess.userID]
	if !ok {
		return core.User{}, ledger.ErrSessionNotFound
	}
	return rec.user, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
