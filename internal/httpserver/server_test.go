package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/internal/testutil"
	"github.com/m2gi/ecom/pkg/tokens"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	t     *testing.T
	srv   http.Handler
	repo  *repo.GormRepo
	admin string
	user  string
	other string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}

	carts := service.NewCartService(r, nil, nil)
	products := service.NewProductService(r, nil, nil)
	products.Carts = carts

	e := New()
	Register(e, &Deps{
		CartHandler:     &CartHTTP{Svc: carts},
		ProductHandler:  &ProductHTTP{Svc: products},
		CategoryHandler: &CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		JWTSecret:       testSecret,
		DB:              db,
	})

	return &testEnv{
		t:     t,
		srv:   e,
		repo:  r,
		admin: sign(t, "admin", tokens.RoleAdmin),
		user:  sign(t, "alice", "user"),
		other: sign(t, "bob", "user"),
	}
}

func sign(t *testing.T, login, role string) string {
	t.Helper()
	tok, err := tokens.SignAccess(login, role, time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

// do sends body (if not empty) as JSON with token as the bearer credential.
func (env *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
