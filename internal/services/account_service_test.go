package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockmana/internal/apperr"
	"stockmana/internal/auth"
	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/repository"
)

type accountFixture struct {
	svc    *AccountService
	store  *repository.InMemoryStore
	mailer *mockSender
	clock  *time.Time
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	store := repository.NewInMemoryStore()
	now := time.Now()
	clock := &now
	tokens := auth.NewTokenService(
		auth.Config{Secret: "test", SessionTTL: 24 * time.Hour, ResetTTL: 30 * time.Minute},
		store.PasswordResets(),
		auth.WithClock(func() time.Time { return *clock }),
	)
	mailer := &mockSender{}
	svc := NewAccountService(store, tokens, mailer, AccountConfig{
		FrontendURL: "https://app.example.com/",
		BcryptCost:  bcrypt.MinCost,
		MailFrom:    "noreply@example.com",
	}, logging.Nop())
	return &accountFixture{svc: svc, store: store, mailer: mailer, clock: clock}
}

func (f *accountFixture) register(t *testing.T, email, password string) *models.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), models.RegisterRequest{Username: "a", Email: email, Password: password})
	require.NoError(t, err)
	return res
}

// captureResetLink makes the mock accept one reset email and returns a
// pointer that receives the plain secret from the link.
func (f *accountFixture) captureResetLink() *string {
	var secret string
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m EmailMessage) bool {
		return m.Subject == resetEmailSubject
	})).Run(func(args mock.Arguments) {
		msg := args.Get(1).(EmailMessage)
		i := strings.Index(msg.HTML, "/reset-password/")
		rest := msg.HTML[i+len("/reset-password/"):]
		secret = rest[:strings.IndexByte(rest, '"')]
	}).Return(nil).Once()
	return &secret
}

func TestRegister(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	res := f.register(t, "A@X.com ", "secret1")
	assert.Equal(t, "a@x.com", res.Email)
	assert.Equal(t, models.DefaultBio, res.Bio)
	assert.NotEmpty(t, res.Token)

	stored, err := f.store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = f.svc.Register(ctx, models.RegisterRequest{Username: "b", Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RegisterRequest
		msg  string
	}{
		{"missing username", models.RegisterRequest{Email: "a@x.com", Password: "secret1"}, "Please fill all required fields"},
		{"short password", models.RegisterRequest{Username: "a", Email: "a@x.com", Password: "abc"}, "Password must be at least 6 characters long"},
		{"bad email", models.RegisterRequest{Username: "a", Email: "nope", Password: "secret1"}, "Please enter valid Email format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tc.req)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tc.msg, apperr.MessageOf(err))
		})
	}
}

func TestLogin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "secret1")

	res, err := f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, f.svc.LoginStatus(res.Token))

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "wrong-pass"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Invalid Email or Password", apperr.MessageOf(err))

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "ghost@x.com", Password: "secret1"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	assert.False(t, f.svc.LoginStatus(""))
	assert.False(t, f.svc.LoginStatus("garbage"))
}

func TestUpdateProfileMergesStoredValues(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	res := f.register(t, "a@x.com", "secret1")

	bio := "I sell chairs"
	p, err := f.svc.UpdateProfile(ctx, res.ID, models.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, p.Bio)
	assert.Equal(t, "a", p.Username)
	assert.Equal(t, models.DefaultPhone, p.Phone)
	assert.Equal(t, models.DefaultImageURL, p.ImageURL)

	empty := ""
	p, err = f.svc.UpdateProfile(ctx, res.ID, models.UpdateProfileRequest{Username: &empty})
	require.NoError(t, err)
	assert.Equal(t, "a", p.Username)
	assert.Equal(t, bio, p.Bio)
}

func TestUpdateProfileRejectsCredentials(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	res := f.register(t, "a@x.com", "secret1")

	email := "b@x.com"
	_, err := f.svc.UpdateProfile(ctx, res.ID, models.UpdateProfileRequest{Email: &email})
	assert.Equal(t, "You cannot change your email!", apperr.MessageOf(err))

	pw := "newsecret"
	_, err = f.svc.UpdateProfile(ctx, res.ID, models.UpdateProfileRequest{Password: &pw})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	long := strings.Repeat("x", 251)
	_, err = f.svc.UpdateProfile(ctx, res.ID, models.UpdateProfileRequest{Bio: &long})
	assert.Equal(t, "Bio cannot contain more than 250 characters", apperr.MessageOf(err))

	stored, _ := f.store.Users().GetByID(ctx, res.ID)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Equal(t, models.DefaultBio, stored.Bio)
}

func TestChangePassword(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	res := f.register(t, "a@x.com", "secret1")

	err := f.svc.ChangePassword(ctx, res.ID, models.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "short"})
	assert.Equal(t, "Password must be at least 8 characters long", apperr.MessageOf(err))

	err = f.svc.ChangePassword(ctx, res.ID, models.ChangePasswordRequest{OldPassword: "wrong-one", NewPassword: "newsecret1"})
	assert.Equal(t, "Incorrect Password!", apperr.MessageOf(err))

	require.NoError(t, f.svc.ChangePassword(ctx, res.ID, models.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newsecret1"}))

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "newsecret1"})
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.Error(t, err)
}

func TestForgotPasswordUnregistered(t *testing.T) {
	f := newAccountFixture(t)

	err := f.svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@x.com"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = f.svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{})
	assert.Equal(t, "Please add an email address", apperr.MessageOf(err))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	res := f.register(t, "a@x.com", "secret1")

	secret := f.captureResetLink()
	require.NoError(t, f.svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	f.mailer.AssertExpectations(t)
	require.NotEmpty(t, *secret)
	assert.True(t, strings.HasSuffix(*secret, res.ID))
	assert.Len(t, f.store.ResetTokens(res.ID), 1)

	require.NoError(t, f.svc.ResetPassword(ctx, *secret, models.ResetPasswordRequest{Password: "brandnew"}))
	assert.Empty(t, f.store.ResetTokens(res.ID))

	_, err := f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "brandnew"})
	assert.NoError(t, err)

	// a consumed secret cannot be used again
	err = f.svc.ResetPassword(ctx, *secret, models.ResetPasswordRequest{Password: "another1"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Invalid token or Expired", apperr.MessageOf(err))
}

func TestSecondResetRequestInvalidatesFirst(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	res := f.register(t, "a@x.com", "secret1")

	first := f.captureResetLink()
	require.NoError(t, f.svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))
	second := f.captureResetLink()
	require.NoError(t, f.svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))

	assert.Len(t, f.store.ResetTokens(res.ID), 1)
	assert.NotEqual(t, *first, *second)

	err := f.svc.ResetPassword(ctx, *first, models.ResetPasswordRequest{Password: "brandnew"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, f.svc.ResetPassword(ctx, *second, models.ResetPasswordRequest{Password: "brandnew"}))
}

func TestResetPasswordExpired(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "secret1")

	secret := f.captureResetLink()
	require.NoError(t, f.svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.com"}))

	*f.clock = f.clock.Add(31 * time.Minute)
	err := f.svc.ResetPassword(ctx, *secret, models.ResetPasswordRequest{Password: "brandnew"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Invalid token or Expired", apperr.MessageOf(err))

	err = f.svc.ResetPassword(ctx, *secret, models.ResetPasswordRequest{})
	assert.Equal(t, "Please enter your Password", apperr.MessageOf(err))
}

func TestForgotPasswordMailFailure(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "a@x.com", "secret1")

	f.mailer.On("Send", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	err := f.svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "a@x.com"})
	assert.Equal(t, apperr.KindDependency, apperr.KindOf(err))
	assert.Equal(t, "Email not sent, please try again later...", apperr.MessageOf(err))
}
