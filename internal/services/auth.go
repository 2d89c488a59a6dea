package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/session"
	"github.com/desertthunder/convx/internal/shared"
	"golang.org/x/oauth2"
)

// authResponse is the login/register envelope: the identity plus a token pair.
type authResponse struct {
	User    models.Identity `json:"user"`
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
}

// AuthService exchanges credentials for sessions and reads the current identity.
type AuthService struct {
	client   *Client
	sessions *session.Store
}

// NewAuthService creates an AuthService writing sessions through store.
func NewAuthService(client *Client, store *session.Store) *AuthService {
	return &AuthService{client: client, sessions: store}
}

// Login exchanges credentials for a session and publishes it to the store.
func (a *AuthService) Login(ctx context.Context, email, password string) (models.Session, error) {
	if email == "" || password == "" {
		return models.Session{}, fmt.Errorf("%w: email and password are required", shared.ErrValidation)
	}

	body := map[string]string{"email": email, "password": password}
	payload, err := a.client.PostJSON(ctx, "/auth/login/", body)
	if err != nil {
		return models.Session{}, err
	}

	return a.establish(payload)
}

// Register creates an account and publishes the returned session. The server
// expects the password mirrored in a confirmation field.
func (a *AuthService) Register(ctx context.Context, email, password string) (models.Session, error) {
	if email == "" || password == "" {
		return models.Session{}, fmt.Errorf("%w: email and password are required", shared.ErrValidation)
	}

	body := map[string]string{"email": email, "password": password, "password2": password}
	payload, err := a.client.PostJSON(ctx, "/auth/register/", body)
	if err != nil {
		return models.Session{}, err
	}

	return a.establish(payload)
}

// establish decodes an auth envelope and writes the session to the store.
func (a *AuthService) establish(payload *Payload) (models.Session, error) {
	var resp authResponse
	if err := payload.Decode(&resp); err != nil {
		return models.Session{}, err
	}
	if resp.Access == "" {
		return models.Session{}, fmt.Errorf("%w: auth response missing access token", shared.ErrDecode)
	}

	sess := models.Session{
		Token: oauth2.Token{
			AccessToken:  resp.Access,
			RefreshToken: resp.Refresh,
			TokenType:    "Bearer",
		},
		Identity: resp.User,
	}

	if err := a.sessions.Set(sess); err != nil {
		return models.Session{}, err
	}

	return sess, nil
}

// Logout clears the session wholesale.
func (a *AuthService) Logout() error {
	return a.sessions.Clear()
}

// Me fetches the current identity from the server.
func (a *AuthService) Me(ctx context.Context) (models.Identity, error) {
	payload, err := a.client.Get(ctx, "/auth/me/")
	if err != nil {
		return models.Identity{}, err
	}

	var identity models.Identity
	if err := payload.Decode(&identity); err != nil {
		return models.Identity{}, err
	}
	return identity, nil
}

// Storage fetches storage quota usage for the current user.
func (a *AuthService) Storage(ctx context.Context) (models.StorageInfo, error) {
	payload, err := a.client.Get(ctx, "/auth/me/storage/")
	if err != nil {
		return models.StorageInfo{}, err
	}

	var info models.StorageInfo
	if err := payload.Decode(&info); err != nil {
		return models.StorageInfo{}, err
	}
	return info, nil
}
