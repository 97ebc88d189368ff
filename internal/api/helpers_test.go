package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/recipeswipers/recipeswipe/internal/api"
	"github.com/recipeswipers/recipeswipe/internal/cache"
	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/middleware"
	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/testhelpers"
)

// fakeGenerator returns canned model output and records prompts.
type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	swipes  *service.SwipeService
	cache   *cache.MemoryCache
	metrics *metrics.Collector
}

// newTestEnv mounts every handler the way the server does, with gen as
// the model. A nil gen means no model is configured.
func newTestEnv(t *testing.T, gen service.RecipeGenerator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	logger := zaptest.NewLogger(t)
	recipes := cache.NewMemoryCache(0)
	collector := metrics.New()
	auth := service.NewAuthService(db, "test-secret")
	swipes := service.NewSwipeService(db, recipes, logger)
	recipeSvc := service.NewRecipeService(gen, recipes, swipes, collector, logger)

	router := gin.New()
	api.NewHealthHandler(db).RegisterRoutes(router)
	group := router.Group("/api")
	api.NewRecipeHandler(recipeSvc).RegisterRoutes(group, middleware.OptionalAuth(auth))
	api.NewAuthHandler(auth, collector, logger).RegisterRoutes(group)
	protected := group.Group("", middleware.AuthMiddleware(auth))
	api.NewSwipeHandler(auth, swipes, collector, logger).RegisterRoutes(protected)
	api.NewPreferenceHandler(auth, service.NewPreferenceService(db), logger).RegisterRoutes(protected)

	return &testEnv{router: router, db: db, auth: auth, swipes: swipes, cache: recipes, metrics: collector}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns its token.
func (e *testEnv) register(t *testing.T, username string) api.AuthResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/register", api.CredentialsRequest{Username: username, Password: "pw"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
