package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Record is the server-side state behind one browser's session cookie. At
// most one of StudentID/AdminID is set. Unlocked holds the names of
// password-protected categories this session has already opened; it never
// outlives the session.
type Record struct {
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	AdminID   *uuid.UUID `json:"admin_id,omitempty"`
	Unlocked  []string   `json:"unlocked,omitempty"`
}

func (r *Record) IsStudent() bool {
	return r.StudentID != nil
}

func (r *Record) IsAdmin() bool {
	return r.AdminID != nil
}

func (r *Record) HasUnlocked(name string) bool {
	for _, n := range r.Unlocked {
		if n == name {
			return true
		}
	}
	return false
}

// AddUnlocked is idempotent; unlocking the same category twice keeps a
// single entry.
func (r *Record) AddUnlocked(name string) {
	if r.HasUnlocked(name) {
		return
	}
	r.Unlocked = append(r.Unlocked, name)
}

// Store keeps session records in redis as JSON, keyed by the cookie-carried
// session id. The TTL is the inactivity window: every read slides it
// forward, so a session only expires after ttl of silence.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(sid string) string {
	return "session:" + sid
}

func (s *Store) Get(ctx context.Context, sid string) (*Record, bool, error) {
	val, err := s.rdb.Get(ctx, key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, false, err
	}

	s.rdb.Expire(ctx, key(sid), s.ttl)

	return &rec, true, nil
}

func (s *Store) Save(ctx context.Context, sid string, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(sid), string(b), s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, key(sid)).Err()
}

func NewSessionID() string {
	return uuid.NewString()
}
