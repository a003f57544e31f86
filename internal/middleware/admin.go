package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/model"
)

// adminKey is the echo context key holding the authenticated admin.
const adminKey = "admin"

// CredentialVerifier checks an admin username/password pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (model.AdminIdentity, bool, error)
}

// AdminAuth guards admin routes with HTTP Basic credentials checked by v.
// Verification errors reject the request.
func AdminAuth(v CredentialVerifier) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "admin",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			ctx := c.Request().Context()
			id, ok, err := v.Verify(ctx, username, password)
			if err != nil {
				logging.FromContext(ctx).WithError(err).Error("admin credential check failed")
				return false, nil
			}
			if !ok {
				logging.FromContext(ctx).Warn("admin credentials rejected")
				return false, nil
			}
			c.Set(adminKey, id)
			entry := logging.FromContext(ctx).WithField("admin", id.Username)
			c.SetRequest(c.Request().WithContext(logging.ToContext(ctx, entry)))
			return true, nil
		},
	})
}

// CurrentAdmin returns the admin authenticated by AdminAuth.
func CurrentAdmin(c echo.Context) (model.AdminIdentity, bool) {
	id, ok := c.Get(adminKey).(model.AdminIdentity)
	return id, ok
}

func adminName(c echo.Context) string {
	if id, ok := CurrentAdmin(c); ok {
		return id.Username
	}
	return "anon"
}
