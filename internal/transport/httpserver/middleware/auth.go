package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"mess-app-go/internal/config"
	"mess-app-go/pkg/logger"
)

// Member is the authenticated household member attached to the request
// context after token verification.
type Member struct {
	ID      string
	Name    string
	IsAdmin bool
}

// MemberResolver maps a verified auth identity to the member row, creating
// it on first login.
type MemberResolver interface {
	Resolve(ctx context.Context, authUserID, email, name string) (Member, error)
}

type SupabaseAuth struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	members    MemberResolver
	skipAuth   bool
	mockUserID string
	mockEmail  string
	mockName   string
	log        logger.Logger
}

type contextKey int

const memberKey contextKey = iota

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

func NewSupabaseAuth(cfg config.SupabaseConfig, members MemberResolver, log logger.Logger) *SupabaseAuth {
	baseURL := strings.TrimRight(cfg.URL, "/")
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &SupabaseAuth{
		baseURL: baseURL,
		apiKey:  cfg.PublishableKey,
		client: &http.Client{
			Timeout: timeout,
		},
		members:    members,
		skipAuth:   cfg.SkipAuth,
		mockUserID: strings.TrimSpace(cfg.MockUserID),
		mockEmail:  strings.TrimSpace(cfg.MockUserEmail),
		mockName:   strings.TrimSpace(cfg.MockUserName),
		log:        log,
	}
}

func (a *SupabaseAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUserID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.resolveAndServe(w, r, next, a.mockUserID, a.mockEmail, a.mockName)
			return
		}

		if a.baseURL == "" || a.apiKey == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.baseURL+"/auth/v1/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("apikey", a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var payload userResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			unauthorized(w)
			return
		}

		authUserID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
		if authUserID == "" {
			unauthorized(w)
			return
		}

		name := firstNonEmpty(
			stringFromMap(payload.UserMetadata, "name"),
			stringFromMap(payload.UserMetadata, "full_name"),
			payload.Email,
		)
		a.resolveAndServe(w, r, next, authUserID, payload.Email, name)
	})
}

func (a *SupabaseAuth) resolveAndServe(w http.ResponseWriter, r *http.Request, next http.Handler, authUserID, email, name string) {
	member, err := a.members.Resolve(r.Context(), authUserID, email, name)
	if err != nil {
		a.log.InternalError("auth: resolve member failed", err, "auth_user_id", authUserID)
		writeError(w, http.StatusInternalServerError, "member_resolution_failed", "could not resolve member")
		return
	}

	ctx := WithMember(r.Context(), member)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithMember(ctx context.Context, member Member) context.Context {
	return context.WithValue(ctx, memberKey, member)
}

func MemberFromContext(ctx context.Context) (Member, bool) {
	value := ctx.Value(memberKey)
	member, ok := value.(Member)
	if !ok || member.ID == "" {
		return Member{}, false
	}
	return member, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
