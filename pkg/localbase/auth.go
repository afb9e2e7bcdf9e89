package localbase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rewardmaths/localbase/pkg/types"
)

// sessionRecordID is the fixed id of the single active-session row: the
// auth_sessions table holds at most one record at all times.
const sessionRecordID = "local-session"

// EventType marks a session transition.
type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

// Event is delivered to subscribers on every transition. Session is nil
// for sign-out.
type Event struct {
	Type    EventType
	Session types.Record
}

// Auth is the identity gate: it resolves a caller identity to a profile
// row, owns the single active-session record, and publishes transitions.
// There is no event buffering; a subscriber registered after a transition
// does not see it retroactively.
type Auth struct {
	client *Client

	mu     sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// SignInByName resolves a username (case-normalized, no credential check)
// to a profile and signs it in, replacing any active session. An unknown
// username is a not-found error and the gate stays signed out.
func (a *Auth) SignInByName(username string) (types.Record, error) {
	profiles, err := a.client.store.GetByIndex(
		types.TableProfiles, "username", strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, types.NotFound("no profile with username %q", username)
	}
	return a.establish(profiles[0])
}

// SignInWithPassword resolves an email and credential to a profile. Lookup
// and comparison failures are indistinguishable to the caller.
func (a *Auth) SignInWithPassword(email, password string) (types.Record, error) {
	profiles, err := a.client.store.GetByIndex(
		types.TableProfiles, "email", strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 || profiles[0].String("password_hash") != HashPassword(password) {
		return nil, types.NotFound("invalid email or password")
	}
	return a.establish(profiles[0])
}

// SignUp creates a level-1, non-administrator profile. The username and
// email unique indexes reject duplicates. Does not sign the profile in.
func (a *Auth) SignUp(email, password, username, displayName string) (types.Record, error) {
	email = strings.ToLower(email)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if displayName == "" {
		displayName = username
	}

	stamp := a.client.timestamp()
	profile := types.Record{
		"id":                newProfileID(),
		"email":             email,
		"username":          strings.ToLower(username),
		"display_name":      displayName,
		"password_hash":     HashPassword(password),
		"current_level":     1,
		"is_admin":          false,
		"high_score_streak": 0,
		"low_score_streak":  0,
		"avatar_emoji":      "🙂",
		"reward_theme":      "default",
		"created_at":        stamp,
		"updated_at":        stamp,
	}
	if err := a.client.store.Add(types.TableProfiles, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// establish writes the active-session row for the profile and notifies
// subscribers. Sign-in replaces any previous session.
func (a *Auth) establish(profile types.Record) (types.Record, error) {
	session := types.Record{
		"id":           sessionRecordID,
		"user_id":      profile["id"],
		"email":        profile["email"],
		"username":     profile["username"],
		"display_name": displayName(profile),
		"access_token": fmt.Sprintf("local-token-%d", a.client.now().UnixMilli()),
	}
	if err := a.client.store.Put(types.TableAuthSessions, session); err != nil {
		return nil, err
	}
	a.notify(Event{Type: SignedIn, Session: session})
	return session, nil
}

// SignOut removes the active-session row unconditionally and notifies
// subscribers, whether or not anyone was signed in.
func (a *Auth) SignOut() error {
	if err := a.client.store.Clear(types.TableAuthSessions); err != nil {
		return err
	}
	a.notify(Event{Type: SignedOut})
	return nil
}

// CurrentSession is a pure read of the active-session row. A signed-out
// gate returns nil with no error.
func (a *Auth) CurrentSession() (types.Record, error) {
	sessions, err := a.client.store.GetAll(types.TableAuthSessions)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

// OnChange registers a callback for every subsequent transition and
// returns its unsubscribe function.
func (a *Auth) OnChange(cb func(Event)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subs[id] = cb
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

func (a *Auth) notify(ev Event) {
	a.mu.Lock()
	subs := make([]func(Event), 0, len(a.subs))
	for _, cb := range a.subs {
		subs = append(subs, cb)
	}
	a.mu.Unlock()

	for _, cb := range subs {
		cb(ev)
	}
}

// HashPassword derives the stored credential for a password. Good enough
// for a local practice-data store; this is not a hardened auth system.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// newProfileID generates a profile id, preferring time-ordered UUIDs.
func newProfileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
