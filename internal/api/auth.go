package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/motoki/aniterm/internal/domain"
)

// AuthRepo implements domain.AuthRepository against the catalog API.
type AuthRepo struct {
	client *Client
}

// NewAuthRepo creates the auth resource accessor.
func NewAuthRepo(client *Client) *AuthRepo {
	return &AuthRepo{client: client}
}

// Login exchanges credentials for a bearer token.
func (r *AuthRepo) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	body, err := r.client.do(ctx, http.MethodPost, "/api/User/login", creds)
	if err != nil {
		return "", err
	}

	shape, token := resolveToken(body)
	if shape == tokenShapeNone {
		r.client.logger.Error("login response carried no token", "body", string(body))
		return "", domain.ErrNoToken
	}
	r.client.logger.Debug("login token resolved", "shape", shape)
	return token, nil
}

// Register creates an account without logging the user in.
func (r *AuthRepo) Register(ctx context.Context, reg domain.Registration) error {
	_, err := r.client.do(ctx, http.MethodPost, "/api/User/register", reg)
	return err
}

// tokenShape tags the known login response formats. Resolution order is
// fixed: a bare string wins over {token}, which wins over {access_token}.
type tokenShape int

const (
	tokenShapeNone tokenShape = iota
	tokenShapeBare
	tokenShapeToken
	tokenShapeAccessToken
)

func (s tokenShape) String() string {
	switch s {
	case tokenShapeBare:
		return "bare"
	case tokenShapeToken:
		return "token"
	case tokenShapeAccessToken:
		return "access_token"
	default:
		return "none"
	}
}

// resolveToken extracts the bearer token from a login response body.
func resolveToken(body []byte) (tokenShape, string) {
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return tokenShapeBare, bare
	}

	var envelope struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Token != "" {
			return tokenShapeToken, envelope.Token
		}
		if envelope.AccessToken != "" {
			return tokenShapeAccessToken, envelope.AccessToken
		}
	}

	return tokenShapeNone, ""
}
