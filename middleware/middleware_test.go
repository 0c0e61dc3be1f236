package middleware

import (
	"hr-workflow-backend/config"
	authutils "hr-workflow-backend/lib/utils/auth-utils"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *fiber.App {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 60
	config.Conf = conf

	app := fiber.New()
	app.Use(AuthorizationRequired())
	app.Use(SpaceRequired())
	app.Get("/me", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserSpace(ctx) + "/" + GetUserID(ctx))
	})
	return app
}

func TestAuthorization(t *testing.T) {
	t.Run(`valid token check`, func(t *testing.T) {
		app := testApp(t)
		token, err := authutils.GetToken("u1", "Иван", "s1")
		require.Nil(t, err)
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := make([]byte, 5)
		n, _ := resp.Body.Read(body)
		require.Equal(t, "s1/u1", string(body[:n]))
	})

	t.Run(`no token check`, func(t *testing.T) {
		app := testApp(t)
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run(`token without space check`, func(t *testing.T) {
		app := testApp(t)
		token, err := authutils.GetToken("u1", "Иван", "")
		require.Nil(t, err)
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
