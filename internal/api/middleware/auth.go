package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// AuthConfig selects the accepted credentials. An empty JWTSecret disables
// operator tokens; an empty BotToken disables Mini App init data.
type AuthConfig struct {
	JWTSecret   string
	BotToken    string
	InitDataTTL time.Duration
}

// Auth resolves the caller and stores it in the context as "actor" (a
// domain.Actor) and "role". Two schemes are accepted:
//
//	Authorization: Bearer <operator jwt>
//	Authorization: tma <telegram mini app init data>
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var (
				actor domain.Actor
				err   error
			)
			switch {
			case strings.EqualFold(parts[0], "bearer") && cfg.JWTSecret != "":
				actor, err = fromJWT(parts[1], cfg.JWTSecret)
			case strings.EqualFold(parts[0], "tma") && cfg.BotToken != "":
				actor, err = fromInitData(parts[1], cfg.BotToken, cfg.InitDataTTL)
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			if err != nil {
				return err
			}

			c.Set("actor", actor)
			c.Set("role", actor.Role)
			return next(c)
		}
	}
}

func fromJWT(raw, secret string) (domain.Actor, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	sub, _ := claims.GetSubject()
	id, ok := domain.ParseIdentity(sub)
	if !ok || id == 0 {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}
	role, _ := claims["role"].(string)
	return domain.Actor{ID: id, FallbackName: id.String(), Role: role}, nil
}

func fromInitData(raw, botToken string, ttl time.Duration) (domain.Actor, error) {
	if err := initdata.Validate(raw, botToken, ttl); err != nil {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid init data")
	}
	parsed, err := initdata.Parse(raw)
	if err != nil || parsed.User.ID == 0 {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "init data missing user")
	}

	u := parsed.User
	fallback := u.FirstName
	if u.Username != "" {
		fallback = "@" + u.Username
	}
	if fallback == "" {
		fallback = domain.Identity(u.ID).String()
	}
	return domain.Actor{ID: domain.Identity(u.ID), FallbackName: fallback, Role: domain.RoleMember}, nil
}
