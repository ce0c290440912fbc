package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	m     sync.RWMutex
	users map[string]*domain.User
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	if _, exists := m.users[user.Username]; exists {
		return primitive.NilObjectID, repository.ErrDuplicateUsername
	}
	id := primitive.NewObjectID()
	u := *user
	u.ID = id
	m.users[user.Username] = &u
	return id, nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) AddCartRef(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (m *mockUserRepo) RemoveCartRef(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

type mockSessionStore struct {
	m        sync.Mutex
	sessions map[string]domain.Principal
	nextID   int
	err      error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]domain.Principal)}
}

func (m *mockSessionStore) Create(_ context.Context, principal domain.Principal) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	token := fmt.Sprintf("token-%d", m.nextID)
	m.sessions[token] = principal
	return token, nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (*domain.Principal, error) {
	m.m.Lock()
	defer m.m.Unlock()
	principal, ok := m.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &principal, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.sessions, token)
	return nil
}

func TestRegister_Success(t *testing.T) {
	repo := newMockUserRepo()
	sessions := newMockSessionStore()
	sut := NewService(repo, sessions)

	user, token, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "duelist_1", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.ID.IsZero())

	// Stored hash verifies against the plaintext and is never the plaintext.
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Passw0rd!")))

	// The session principal carries id and role only.
	principal, err := sessions.Get(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, domain.RoleUser, principal.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	sut := NewService(repo, newMockSessionStore())

	_, _, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)

	_, _, err = sut.Register(context.Background(), "duelist_1", "0therPass!")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_InvalidCredentials(t *testing.T) {
	sut := NewService(newMockUserRepo(), newMockSessionStore())

	_, _, err := sut.Register(context.Background(), "ab", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, _, err = sut.Register(context.Background(), "duelist_1", "weak")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRegister_RepoError(t *testing.T) {
	repo := newMockUserRepo()
	repo.err = fmt.Errorf("database error")
	sut := NewService(repo, newMockSessionStore())

	_, _, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.ErrorContains(t, err, "database error")
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	sessions := newMockSessionStore()
	sut := NewService(repo, sessions)

	_, _, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)

	user, token, err := sut.Login(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "duelist_1", user.Username)
}

func TestLogin_DoesNotDistinguishUnknownUserFromWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	sut := NewService(repo, newMockSessionStore())

	_, _, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)

	_, _, errUnknown := sut.Login(context.Background(), "no_such_user", "Passw0rd!")
	_, _, errWrongPw := sut.Login(context.Background(), "duelist_1", "WrongPass1!")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestUserJSON_ExcludesPasswordHash(t *testing.T) {
	repo := newMockUserRepo()
	sut := NewService(repo, newMockSessionStore())

	user, _, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "passwordHash")
	assert.NotContains(t, string(data), user.PasswordHash)
}

func TestLogoutAndAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	sessions := newMockSessionStore()
	sut := NewService(repo, sessions)

	_, token, err := sut.Register(context.Background(), "duelist_1", "Passw0rd!")
	require.NoError(t, err)

	principal, err := sut.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, principal.Role)

	require.NoError(t, sut.Logout(context.Background(), token))

	_, err = sut.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
