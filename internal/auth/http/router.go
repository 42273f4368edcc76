package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/AlibekovAA/auth-service/internal/auth/service"
	"github.com/AlibekovAA/auth-service/internal/common/config"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	commonhttp "github.com/AlibekovAA/auth-service/internal/common/http"
	"github.com/AlibekovAA/auth-service/internal/common/jwtverify"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	"github.com/AlibekovAA/auth-service/internal/common/mapper"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type editProfileRequest struct {
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required,max=64"`
}

// docsTokenResponse repeats the token at the top level for OAuth2 password
// flow clients, which read access_token from the response root.
type docsTokenResponse struct {
	commonhttp.Envelope
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Handler struct {
	auth  *service.AuthService
	users userrepo.Provider
	log   *logger.Logger
}

// NewHandler registers the auth routes. Every handler that touches the store
// opens exactly one unit of work through users and passes its repository
// into the service call.
func NewHandler(auth *service.AuthService, users userrepo.Provider, cfg config.AuthConfig, db commonhttp.Pinger, log *logger.Logger) http.Handler {
	h := &Handler{auth: auth, users: users, log: log}

	timeout := commonhttp.WithTimeout(cfg.RequestTimeout)
	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)
	bearer := jwtverify.Middleware(log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, db))
	mux.HandleFunc("/token-for-docs", post(timeout(h.tokenForDocs)))
	mux.HandleFunc("/register", post(timeout(h.register)))
	mux.HandleFunc("/login", post(timeout(h.login)))
	mux.Handle("/edit-profile", bearer(post(timeout(h.editProfile))))
	mux.Handle("/get-current-user", bearer(get(timeout(h.getCurrentUser))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	var result service.AuthResult
	err := h.users.WithRepository(r.Context(), func(ctx context.Context, users userrepo.Repository) error {
		var err error
		result, err = h.auth.Register(ctx, users, service.RegisterInput{
			Email:    req.Email,
			Username: req.Username,
			Password: req.Password,
		})
		return err
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, mapper.TokenToDTO(result.AccessToken, result.TokenType))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.doLogin(r.Context(), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, mapper.TokenToDTO(result.AccessToken, result.TokenType))
}

// tokenForDocs is the OAuth2 password flow endpoint: form fields username
// (holding the email) and password.
func (h *Handler) tokenForDocs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidPayload.WithMessage("Invalid form body").WithCause(err), h.log)
		return
	}

	req := loginRequest{
		Email:    r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	result, err := h.doLogin(r.Context(), req)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, docsTokenResponse{
		Envelope: commonhttp.Envelope{
			Status: commonhttp.StatusSuccess,
			Data:   mapper.TokenToDTO(result.AccessToken, result.TokenType),
		},
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) doLogin(ctx context.Context, req loginRequest) (service.AuthResult, error) {
	var result service.AuthResult
	err := h.users.WithRepository(ctx, func(ctx context.Context, users userrepo.Repository) error {
		var err error
		result, err = h.auth.Login(ctx, users, service.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		})
		return err
	})
	return result, err
}

func (h *Handler) editProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := jwtverify.TokenFromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	var req editProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	var result service.AuthResult
	err := h.users.WithRepository(r.Context(), func(ctx context.Context, users userrepo.Repository) error {
		var err error
		result, err = h.auth.EditProfile(ctx, users, token, service.EditProfileInput{
			Password: req.Password,
			Username: req.Username,
		})
		return err
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, mapper.TokenToDTO(result.AccessToken, result.TokenType))
}

func (h *Handler) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	token, ok := jwtverify.TokenFromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	var user userdomain.User
	err := h.users.WithRepository(r.Context(), func(ctx context.Context, users userrepo.Repository) error {
		var err error
		user, err = h.auth.CurrentUser(ctx, users, token)
		return err
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, mapper.UserToDTO(user))
}

// decode reads a JSON body into v and validates it. On failure it writes a
// 413 or 422 response and reports false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := commonhttp.DecodeJSON(r, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"limit":  tooLarge.Limit,
				"action": "body_too_large",
			}).Warn("request rejected: body too large")
			commonhttp.HandleError(w, r, commonerrors.ErrRequestTooLarge.WithCause(err), h.log)
			return false
		}
		h.log.WithFields(r.Context(), logger.Fields{
			"path":   r.URL.Path,
			"action": "invalid_json",
		}).Warnf("request rejected: invalid json: %v", err)
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidPayload.WithMessage("Invalid JSON body").WithCause(err), h.log)
		return false
	}
	if err := commonhttp.ValidateStruct(v); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return false
	}
	return true
}
