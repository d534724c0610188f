package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

func newAuthService(t *testing.T) (*AuthService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	st := newTestStore(t)
	return &AuthService{
		Users:  st.Users,
		Tokens: tokens.NewIssuer([]byte("test-secret"), time.Hour),
		Deps:   Deps{Events: rec},
	}, rec
}

func signupReq(email string) transport.SignupRequest {
	return transport.SignupRequest{Name: "Ann", Email: email, Password: "pw-123456", UserType: "customer"}
}

func TestSignup_StoresHashedPassword(t *testing.T) {
	svc, rec := newAuthService(t)

	u, err := svc.Signup(context.Background(), signupReq(" Ann@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "pw-123456", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)

	evs := rec.Topic(events.TopicUsers)
	require.Len(t, evs, 1)
	assert.Equal(t, u.ID.String(), evs[0].Key)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("ann@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupReq("ANN@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	u, err := svc.Signup(ctx, signupReq("ann@example.com"))
	require.NoError(t, err)

	res, err := svc.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "pw-123456"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := svc.Tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "customer", claims.UserType)
}

func TestLogin_Rejections(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupReq("ann@example.com"))
	require.NoError(t, err)

	cases := []transport.LoginRequest{
		{Email: "ann@example.com", Password: "wrong"},
		{Email: "bob@example.com", Password: "pw-123456"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}
