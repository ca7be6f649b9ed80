package account

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/session"
)

// Service covers the account and profile surface: auth flows feeding the
// session store, profile reads, follow/unfollow, bookmarks and entity
// create/delete. Everything here is request/response; nothing polls.
type Service struct {
	api     *api.Client
	session *session.Store
}

func NewService(client *api.Client, sess *session.Store) *Service {
	return &Service{api: client, session: sess}
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message,omitempty"`
}

// Login exchanges credentials for a bearer token and installs it in the
// session store. The identifier is username or email.
func (s *Service) Login(ctx context.Context, identifier, password string) error {
	var resp authResponse
	body := map[string]string{"identifier": identifier, "password": password}
	if err := s.api.Post(ctx, "/auth/login", body, &resp); err != nil {
		return errors.Wrap(err, "login failed")
	}
	if resp.Token == "" {
		return errors.New("login response carried no token")
	}
	username := resp.Username
	if username == "" {
		username = identifier
	}
	return s.session.Set(resp.Token, username)
}

// Register creates an account. The backend sends a verification OTP to the
// email; the session starts only after VerifyEmail + Login.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := s.api.Post(ctx, "/auth/signup", body, nil); err != nil {
		return errors.Wrap(err, "signup failed")
	}
	return nil
}

// Logout drops the local session. The backend keeps no session state; an
// in-flight authenticated call racing this will simply get a 401.
func (s *Service) Logout() error {
	return s.session.Clear()
}

func (s *Service) RequestVerificationOtp(ctx context.Context, identifier string) error {
	body := map[string]string{"identifier": identifier}
	return errors.Wrap(s.api.Post(ctx, "/auth/request-verification-otp", body, nil), "requesting otp")
}

// VerifyEmail confirms the OTP and immediately logs in with the supplied
// credentials, matching the original single-step verify-then-login flow.
func (s *Service) VerifyEmail(ctx context.Context, email, otp, password string) error {
	body := map[string]string{"email": email, "otp": otp}
	if err := s.api.Post(ctx, "/auth/verify-email", body, nil); err != nil {
		return errors.Wrap(err, "email verification failed")
	}
	return s.Login(ctx, email, password)
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return errors.Wrap(s.api.Post(ctx, "/auth/request-password-reset", body, nil), "requesting password reset")
}

func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	return errors.Wrap(s.api.Post(ctx, "/auth/reset-password", body, nil), "resetting password")
}

func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return errors.Wrap(s.api.Put(ctx, "/auth/profile/change-password", body, nil), "changing password")
}

// Me fetches the viewer's own profile.
func (s *Service) Me(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := s.api.Get(ctx, "/users/profile/me", &profile); err != nil {
		return nil, errors.Wrap(err, "fetching own profile")
	}
	return &profile, nil
}

func (s *Service) Profile(ctx context.Context, username string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.api.Get(ctx, "/users/profile/"+username, &profile); err != nil {
		return nil, errors.Wrap(err, "fetching profile")
	}
	return &profile, nil
}

// ProfileEntities lists one content type authored by a user.
func (s *Service) ProfileEntities(ctx context.Context, username string, t model.EntityType) ([]model.Entity, error) {
	var items []model.Entity
	path := fmt.Sprintf("/users/profile/%s/%s", username, t.PathPrefix())
	if err := s.api.Get(ctx, path, &items); err != nil {
		return nil, errors.Wrapf(err, "fetching %s of %s", t.PathPrefix(), username)
	}
	return items, nil
}

func (s *Service) Follow(ctx context.Context, username string) error {
	path := fmt.Sprintf("/users/profile/%s/follow", username)
	return errors.Wrap(s.api.Post(ctx, path, struct{}{}, nil), "follow failed")
}

func (s *Service) Unfollow(ctx context.Context, username string) error {
	path := fmt.Sprintf("/users/profile/%s/unfollow", username)
	return errors.Wrap(s.api.Post(ctx, path, struct{}{}, nil), "unfollow failed")
}

func (s *Service) UpdateBio(ctx context.Context, bio string) error {
	body := map[string]string{"bio": bio}
	return errors.Wrap(s.api.Put(ctx, "/users/profile/update-bio", body, nil), "updating bio")
}

// Bookmarks lists the viewer's bookmarked entities across all three types.
func (s *Service) Bookmarks(ctx context.Context) ([]model.BookmarkItem, error) {
	var items []model.BookmarkItem
	if err := s.api.Get(ctx, "/bookmarks", &items); err != nil {
		return nil, errors.Wrap(err, "fetching bookmarks")
	}
	return items, nil
}
