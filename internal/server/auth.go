package server

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ilkoid/sably/pkg/config"
)

// publicPaths — маршруты, доступные без авторизации: корневая страница
// с описанием API, health-проба и метрики для скрейпера.
var publicPaths = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/metrics": {},
}

// basicAuth возвращает middleware с HTTP Basic Auth.
//
// Сравнение логина и пароля константное по времени, чтобы по задержке
// ответа нельзя было подбирать учётные данные посимвольно.
func basicAuth(auth config.AuthConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !auth.Enabled {
			return c.Next()
		}
		if _, ok := publicPaths[c.Path()]; ok {
			return c.Next()
		}

		user, pass, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(auth.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(auth.Password)) != 1 {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="sably"`)
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

// parseBasicAuth разбирает заголовок "Authorization: Basic base64(user:pass)".
func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}
