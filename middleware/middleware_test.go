package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotwise/config"
	"slotwise/database/repository/memrepo"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCache map[string]string

func (m mapCache) StoreTokenHash(_ context.Context, userID, hash string) error {
	m[userID] = hash
	return nil
}

func (m mapCache) TokenHash(_ context.Context, userID string) (string, bool, error) {
	h, ok := m[userID]
	return h, ok, nil
}

func (m mapCache) Revoke(_ context.Context, userID string) error {
	delete(m, userID)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "middleware-secret"
}

// issue stores a user whose current token is returned.
func issue(t *testing.T, store *memrepo.Store, id string, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(id, "name-"+id, string(role), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), &models.User{
		ID: id, Username: "name-" + id, Email: id + "@example.com", Role: role, TokenHash: utils.HashToken(token),
	}))
	return token
}

func router(store *memrepo.Store, cache utils.TokenCache, roles ...models.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{JWTAuthMiddleware(store.Users(), cache)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentActor(c).UserID+"|"+string(CurrentActor(c).Role))
	})
	r.GET("/protected", chain...)
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_RejectsMissingTokens(t *testing.T) {
	r := router(memrepo.NewStore(), mapCache{})
	for _, header := range []string{"", "Bearer ", "Bearer null", "Token abc", "Bearer not-a-jwt"} {
		assert.Equal(t, http.StatusUnauthorized, call(r, header).Code, header)
	}
}

func TestJWTAuth_FallsBackToDatabaseAndRefillsCache(t *testing.T) {
	store := memrepo.NewStore()
	cache := mapCache{}
	token := issue(t, store, "u1", models.RoleUser)

	w := call(router(store, cache), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|USER", w.Body.String())
	assert.Equal(t, utils.HashToken(token), cache["u1"])

	w = call(router(store, cache), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_RejectsSupersededToken(t *testing.T) {
	store := memrepo.NewStore()
	old := issue(t, store, "u1", models.RoleUser)
	time.Sleep(1100 * time.Millisecond)
	newer, err := utils.GenerateToken("u1", "name-u1", "USER", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Users().SetTokenHash(context.Background(), "u1", utils.HashToken(newer)))

	cache := mapCache{}
	assert.Equal(t, http.StatusUnauthorized, call(router(store, cache), "Bearer "+old).Code)
	assert.Equal(t, http.StatusOK, call(router(store, cache), "Bearer "+newer).Code)
	// Cached hash now belongs to newer.
	assert.Equal(t, http.StatusUnauthorized, call(router(store, cache), "Bearer "+old).Code)
}

func TestJWTAuth_WorksWithoutCache(t *testing.T) {
	store := memrepo.NewStore()
	token := issue(t, store, "u1", models.RoleAdmin)
	assert.Equal(t, http.StatusOK, call(router(store, nil), "Bearer "+token).Code)
}

func TestRequireRoles(t *testing.T) {
	store := memrepo.NewStore()
	userToken := issue(t, store, "u1", models.RoleUser)
	providerToken := issue(t, store, "u2", models.RoleProvider)

	r := router(store, mapCache{}, models.RoleProvider, models.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, call(r, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, call(r, "Bearer "+providerToken).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(remote, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote + ":40000"
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do("1.1.1.1", ""))
	assert.Equal(t, http.StatusOK, do("1.1.1.1", ""))
	assert.Equal(t, http.StatusTooManyRequests, do("1.1.1.1", ""))
	// A forged header from an untrusted peer does not earn a fresh bucket.
	assert.Equal(t, http.StatusTooManyRequests, do("1.1.1.1", "9.9.9.9"))
	assert.Equal(t, http.StatusOK, do("2.2.2.2", ""))
}

func TestRateLimitMiddleware_TrustedProxyForwardsClient(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies([]string{"10.0.0.1"}))
	r.Use(RateLimitMiddleware(1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("1.1.1.1"))
	assert.Equal(t, http.StatusOK, do("2.2.2.2"))
}

// logoutRace signs the user out right after the middleware has read the record.
type logoutRace struct {
	*memrepo.Users
	cache mapCache
	reads int
}

func (r *logoutRace) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	r.reads++
	if r.reads == 1 && err == nil {
		if err := r.Users.SetTokenHash(ctx, id, ""); err != nil {
			return nil, err
		}
		_ = r.cache.Revoke(ctx, id)
	}
	return u, err
}

func TestJWTAuth_RefillDoesNotOutliveLogout(t *testing.T) {
	store := memrepo.NewStore()
	cache := mapCache{}
	token := issue(t, store, "u1", models.RoleUser)
	users := &logoutRace{Users: store.Users(), cache: cache}

	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(users, cache), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+token).Code)
	assert.NotContains(t, cache, "u1")
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer "+token).Code)
}

func TestJWTAuth_UsesStoredIdentityOnRefill(t *testing.T) {
	store := memrepo.NewStore()
	cache := mapCache{}
	token := issue(t, store, "u1", models.RoleUser)
	ctx := context.Background()
	u, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	u.Username = "renamed"
	require.NoError(t, store.Users().Update(ctx, u))

	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(store.Users(), cache), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentActor(c).Username)
	})
	w := call(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "renamed", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) {
		l, ok := c.Get(ContextLogger)
		require.True(t, ok)
		_, isZap := l.(*zap.Logger)
		assert.True(t, isZap)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
