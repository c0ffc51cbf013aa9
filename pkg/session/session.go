// Package session remembers viewer state per tree file between runs.
//
// A session records how a chart was last looked at: the zoom transform,
// the hidden relationship types, the theme and the selected person. The
// viewer restores it on start and saves it on exit. Sessions expire after
// [DefaultTTL] without use.
//
//	store, err := session.NewFileStore("") // ~/.config/familytree/sessions/
//	sess, err := store.Get(ctx, session.IDFor("family.json"))
//	if sess == nil {
//	    sess = session.New("family.json", session.DefaultTTL)
//	}
//	// ... run the viewer, update sess ...
//	store.Set(ctx, sess)
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/matzehuels/familytree/pkg/family"
)

// DefaultTTL is how long an unused session is kept.
const DefaultTTL = 30 * 24 * time.Hour

// View is the saved zoom transform: screen = world*K + (X, Y).
type View struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Session is the saved state of one tree file.
type Session struct {
	ID       string                    `json:"id"`
	Tree     string                    `json:"tree"`
	View     *View                     `json:"view,omitempty"`
	Hidden   []family.RelationshipType `json:"hidden,omitempty"`
	Dark     bool                      `json:"dark,omitempty"`
	Selected string                    `json:"selected,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch marks the session as used now and extends its expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Visible returns every relationship type except the hidden ones.
func (s *Session) Visible() family.TypeSet {
	v := family.AllTypes()
	for _, t := range s.Hidden {
		if v.Has(t) {
			v = v.Toggle(t)
		}
	}
	return v
}

// SetVisible records the types missing from visible as hidden.
func (s *Session) SetVisible(visible family.TypeSet) {
	s.Hidden = s.Hidden[:0]
	for _, t := range family.RelationshipTypes {
		if !visible.Has(t) {
			s.Hidden = append(s.Hidden, t)
		}
	}
}

// Store persists sessions.
type Store interface {
	// Get returns the session with id, or nil, nil when there is none or
	// it expired.
	Get(ctx context.Context, id string) (*Session, error)

	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// IDFor derives a session ID from a tree path. Relative and absolute
// spellings of the same file share a session.
func IDFor(tree string) string {
	if abs, err := filepath.Abs(tree); err == nil {
		tree = abs
	}
	sum := sha256.Sum256([]byte(filepath.Clean(tree)))
	return hex.EncodeToString(sum[:8])
}

// New returns an empty session for tree.
func New(tree string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        IDFor(tree),
		Tree:      tree,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
