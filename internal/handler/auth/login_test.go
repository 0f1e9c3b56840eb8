package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ingestd/internal/database"
	"ingestd/internal/model"
	"ingestd/internal/service"
	"ingestd/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newLoginCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restoreLogin() {
	getUserByName = store.GetUserByName
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
}

func TestLoginHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{}
		ctx, rec := newLoginCtx(e, "%")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid form data")
	})

	t.Run("validate error", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newLoginCtx(e, "username=a&password=p")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{}
		getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
			return nil, errors.New("no rows")
		}
		ctx, rec := newLoginCtx(e, "username=a&password=p")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("bad password", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{}
		getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{ID: 1}, nil
		}
		authenticateUser = func(context.Context, model.User, string) (*model.User, error) {
			return nil, errors.New("invalid password")
		}
		ctx, rec := newLoginCtx(e, "username=a&password=p")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token error", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{}
		getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{ID: 1}, nil
		}
		authenticateUser = func(_ context.Context, u model.User, _ string) (*model.User, error) {
			return &u, nil
		}
		issueAccessToken = func(model.User, time.Duration) (string, error) {
			return "", errors.New("no secret")
		}
		ctx, rec := newLoginCtx(e, "username=a&password=p")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restoreLogin)
		e.Validator = &stubValidator{}
		getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{ID: 1, Name: "a"}, nil
		}
		authenticateUser = func(_ context.Context, u model.User, _ string) (*model.User, error) {
			return &u, nil
		}
		issueAccessToken = func(model.User, time.Duration) (string, error) {
			return "tok", nil
		}
		ctx, rec := newLoginCtx(e, "username=a&password=p")
		require.NoError(t, LoginHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "tok")
	})
}
