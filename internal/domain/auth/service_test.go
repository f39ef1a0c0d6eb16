package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[id.ID]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *memUserRepo) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID.String())
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, userID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return apperror.NewNotFound("user", userID.String())
	}
	delete(r.users, userID)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*User
	for _, user := range r.users {
		cp := *user
		items = append(items, &cp)
	}
	return domain.ListResult[*User]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newAuthService(t *testing.T) (*Service, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, passthroughTxManager{}, jwtService, DefaultServiceConfig()), repo
}

func seedUser(t *testing.T, repo *memUserRepo, email, password string, role appctx.Role) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := NewUser(email, "Test User", role)
	user.PasswordHash = string(hash)
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLogin_Succeeds(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "admin@example.com", "Sup3rSecret!", appctx.RoleAdmin)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Admin@Example.com",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "admin@example.com", result.User.Email)
	assert.Equal(t, appctx.RoleAdmin, result.User.Role)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "admin@example.com", "Sup3rSecret!", appctx.RoleAdmin)

	_, errWrong := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "nope",
	})
	_, errUnknown := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "nope",
	})

	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.True(t, apperror.IsUnauthorized(errWrong))
	assert.True(t, apperror.IsUnauthorized(errUnknown))
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, repo := newAuthService(t)
	user := seedUser(t, repo, "staff@example.com", "Sup3rSecret!", appctx.RoleStaff)
	user.IsActive = false
	require.NoError(t, repo.Update(context.Background(), user))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "staff@example.com",
		Password: "Sup3rSecret!",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegister_DefaultsToStaffRole(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "longenough",
		FullName: "New Person",
	})
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleStaff, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "short",
		FullName: "New Person",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "taken@example.com", "Sup3rSecret!", appctx.RoleStaff)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Taken@Example.com",
		Password: "longenough",
		FullName: "Another Person",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestDeleteProfile_RejectsSelfDelete(t *testing.T) {
	svc, repo := newAuthService(t)
	user := seedUser(t, repo, "admin@example.com", "Sup3rSecret!", appctx.RoleAdmin)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: user.ID.String(),
		Role:   appctx.RoleAdmin,
	})

	err := svc.DeleteProfile(ctx, user.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthService(t)
	user := seedUser(t, repo, "staff@example.com", "OldPassword1", appctx.RoleStaff)

	err := svc.ChangePassword(context.Background(), user.ID, "OldPassword1", "NewPassword1")
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), LoginRequest{Email: "staff@example.com", Password: "OldPassword1"})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "staff@example.com", Password: "NewPassword1"})
	assert.NoError(t, err)
}
