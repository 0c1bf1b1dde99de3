// Package session manages the single authenticated identity of the running
// browsing context: simulated login, registration against the users
// registry, logout and profile updates. The persisted session slot holds a
// signed JWT so a tampered record restores as "no session".
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/avillagran/propiedadesplus/internal/recordstore"
	"github.com/avillagran/propiedadesplus/internal/task"
	"github.com/avillagran/propiedadesplus/internal/user"
)

// Store namespaces owned by the session manager.
const (
	NamespaceUsers   = "usuarios"
	NamespaceSession = "sesion"
)

// sentinelPassword is the only accepted password of the simulated backend.
const sentinelPassword = "password"

// mockUserID is the fixed id of a session user synthesized by login when
// the email was never registered.
const mockUserID = "1"

var (
	// ErrInvalidCredentials is returned by Login for any password other
	// than the sentinel value.
	ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")

	// ErrDuplicateEmail is returned by Register when the email is already
	// present in the users registry.
	ErrDuplicateEmail = errors.New("este correo electrónico ya está registrado")

	// ErrNoActiveSession is returned by UpdateProfile without a logged-in user.
	ErrNoActiveSession = errors.New("no hay usuario con sesión iniciada")
)

// Claims is the JWT payload of the persisted session slot.
type Claims struct {
	jwt.RegisteredClaims
	User user.User `json:"user"`
}

type sessionRecord struct {
	Token string `json:"token"`
}

// ProfilePatch carries the profile fields to merge into the current user.
// Empty fields are left unchanged.
type ProfilePatch struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}

// Manager owns the active session. Construct exactly one per process with
// New and hand it to every consumer; New performs the one-time restore.
type Manager struct {
	store    recordstore.Store
	secret   []byte
	latency  time.Duration
	tokenTTL time.Duration

	mu    sync.RWMutex
	user  *user.User
	ready bool
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLatency sets the artificial delay of the simulated asynchronous
// operations. Useful to zero out in tests.
func WithLatency(latency time.Duration) Option {
	return func(m *Manager) {
		m.latency = latency
	}
}

// WithTokenTTL bounds the lifetime of the persisted session token.
// Zero means the token never expires.
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.tokenTTL = ttl
	}
}

// New creates the Manager and runs the one-time restore of a previously
// persisted session. A missing, unreadable or badly signed session record
// leaves the session anonymous; Ready reports true either way.
func New(store recordstore.Store, signingSecretKey []byte, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		secret:  signingSecretKey,
		latency: time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}

	if usr, ok := m.restore(); ok {
		m.user = &usr
	}
	m.ready = true

	return m
}

func (m *Manager) restore() (user.User, bool) {
	records, err := recordstore.List[sessionRecord](context.Background(), m.store, NamespaceSession)
	if err != nil || len(records) == 0 {
		return user.User{}, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		records[0].Token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil || !token.Valid || claims.User.ID == "" {
		return user.User{}, false
	}

	return claims.User, true
}

// User returns the currently authenticated user, or nil when anonymous.
func (m *Manager) User() *user.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil
	}
	usr := *m.user
	return &usr
}

// Ready reports whether the initial restore attempt has completed.
// It becomes true exactly once and never reverts.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ready
}

// Login simulates a credential check against a backend: any email is
// accepted together with the sentinel password. A registered user with
// that email is reused, otherwise one is synthesized. The session is
// persisted before Login resolves.
func (m *Manager) Login(ctx context.Context, email, password string) (*user.User, error) {
	return task.After(m.latency, func() (*user.User, error) {
		if password != sentinelPassword {
			return nil, ErrInvalidCredentials
		}

		usr, registered, err := recordstore.FindOne(ctx, m.store, NamespaceUsers, func(u user.User) bool {
			return u.Email == email
		})
		if err != nil {
			return nil, err
		}
		if !registered {
			name := emailLocalPart(email)
			usr = user.User{
				ID:        mockUserID,
				Email:     email,
				Name:      name,
				Phone:     "123456789",
				AvatarURL: avatarURL(name),
			}
		}

		if err := m.persistSession(ctx, usr); err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.user = &usr
		m.mu.Unlock()

		return &usr, nil
	}).Await(ctx)
}

// Register appends a new user to the registry. It does not authenticate
// the session: the user still has to log in.
func (m *Manager) Register(ctx context.Context, name, email, phone, password string) (*user.User, error) {
	return task.After(m.latency, func() (*user.User, error) {
		_, exists, err := recordstore.FindOne(ctx, m.store, NamespaceUsers, func(u user.User) bool {
			return u.Email == email
		})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateEmail
		}

		usr := user.User{
			ID:        uuid.New().String(),
			Email:     email,
			Name:      name,
			Phone:     phone,
			AvatarURL: avatarURL(name),
		}
		err = recordstore.UpsertOne(ctx, m.store, NamespaceUsers, usr, func(u user.User) string {
			return u.ID
		})
		if err != nil {
			return nil, err
		}

		return &usr, nil
	}).Await(ctx)
}

// Logout clears the persisted session slot and leaves the session
// anonymous. Calling it with no active session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Put(ctx, NamespaceSession, []sessionRecord{}); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	return nil
}

// UpdateProfile merges patch into the current user, persists the session
// and atomically replaces the session's user. The profile update is
// simulated as a faster backend call than login.
func (m *Manager) UpdateProfile(ctx context.Context, patch ProfilePatch) (*user.User, error) {
	return task.After(m.latency/2, func() (*user.User, error) {
		current := m.User()
		if current == nil {
			return nil, ErrNoActiveSession
		}

		updated := *current
		if patch.Name != "" {
			updated.Name = patch.Name
		}
		if patch.Email != "" {
			updated.Email = patch.Email
		}
		if patch.Phone != "" {
			updated.Phone = patch.Phone
		}
		if patch.AvatarURL != "" {
			updated.AvatarURL = patch.AvatarURL
		}

		if err := m.persistSession(ctx, updated); err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.user = &updated
		m.mu.Unlock()

		return &updated, nil
	}).Await(ctx)
}

func (m *Manager) persistSession(ctx context.Context, usr user.User) error {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		User: usr,
	}
	if m.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	return m.store.Put(ctx, NamespaceSession, []sessionRecord{{Token: tokenString}})
}

func emailLocalPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
