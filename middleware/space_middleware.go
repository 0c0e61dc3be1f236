package middleware

import (
	authutils "hr-workflow-backend/lib/utils/auth-utils"
	apimodels "hr-workflow-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// SpaceRequired токен должен содержать пространство и пользователя, они же пишутся в лог запроса
func SpaceRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		spaceID := GetUserSpace(ctx)
		userID := GetUserID(ctx)
		if spaceID == "" || userID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		ctx.Locals("spaceID", spaceID)
		ctx.Locals("userID", userID)
		return ctx.Next()
	}
}

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, exist := claims["space"]; exist {
		if value, ok := space.(string); ok {
			return value
		}
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if value, ok := sub.(string); ok {
			return value
		}
	}
	return ""
}
