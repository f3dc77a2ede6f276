package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionTTL is the idle expiry of a session record. Every successful read
// slides the window forward.
const SessionTTL = 10 * time.Minute

// Session is the server-side record a cookie handle resolves to. The cookie
// itself only carries the signed handle.
type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type SessionStore struct{ rdb *redis.Client }

func NewSessionStore(rdb *redis.Client) *SessionStore { return &SessionStore{rdb} }

func sessionKey(sid string) string { return "session:" + sid }

// Create stores a fresh session record and returns its opaque handle. Login
// always calls Create, so a successful authentication regenerates the
// session id.
func (s *SessionStore) Create(ctx context.Context, sess Session) (string, error) {
	sid := uuid.NewString()
	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(sid), b, SessionTTL).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Get resolves a handle and slides the expiry window. An expired or unknown
// handle returns (nil, nil): treated as logged-out, not an error.
func (s *SessionStore) Get(ctx context.Context, sid string) (*Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	_ = s.rdb.Expire(ctx, sessionKey(sid), SessionTTL).Err()
	return &sess, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}
