package rest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/auth"
	"github.com/dmitrijs2005/foodrecipe/internal/server/authz"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	cfg     *config.Config
	admins  *fakeAdmins
	catalog *fakeCatalog
	recipes *fakeRecipes
	clients *fakeClients
	db      *fakePinger
	router  http.Handler
}

// newTestEnv wires a router with fakes; setup may adjust the config before
// the handler is built.
func newTestEnv(t *testing.T, setup ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.LoginRateLimit = 0
	cfg.StaticDir = t.TempDir()
	for _, fn := range setup {
		fn(cfg)
	}

	roles, err := authz.NewEnforcer()
	require.NoError(t, err)

	env := &testEnv{
		cfg: cfg,
		admins: &fakeAdmins{roles: map[string]string{
			"manager": common.RoleManager,
			"editor":  common.RoleEditor,
		}},
		catalog: newFakeCatalog(),
		recipes: newFakeRecipes(),
		clients: &fakeClients{tokens: map[string]string{}, codes: map[string]error{}},
		db:      &fakePinger{},
	}

	h := NewHandler(Deps{
		Config:  cfg,
		Logger:  logging.Nop(),
		Roles:   roles,
		DB:      env.db,
		Admins:  env.admins,
		Catalog: env.catalog,
		Recipes: env.recipes,
		Clients: env.clients,
	})
	env.router = h.Routes()
	return env
}

func adminToken(t *testing.T, login string) string {
	t.Helper()
	tok, err := auth.GenerateAdminToken(login, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

func clientToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateClientToken(auth.HashInstallationToken("install"), []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request; a non-nil body that is not an io.Reader is sent as
// JSON.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rdr = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	if rdr != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorResponse](t, rec).Error
}
