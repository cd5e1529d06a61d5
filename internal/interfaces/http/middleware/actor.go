package middleware

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/constants"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

// RequireActor reads the caller identity the fronting auth proxy forwards.
// The desk trusts it as given; deciding who may call what is the proxy's job.
// X-Actor-Name may be percent-encoded so non-ASCII names survive transport.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.GetHeader(constants.HeaderActorName)
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = decoded
		}

		actor, err := shared.NewActor(c.GetHeader(constants.HeaderActorID), name)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("actor headers are required", err.Error()))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// ActorFrom returns the actor RequireActor stored on the context.
func ActorFrom(c *gin.Context) (shared.Actor, bool) {
	v, ok := c.Get(constants.ContextKeyActor)
	if !ok {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

// MustActor is ActorFrom for handlers behind RequireActor. It answers 400
// itself when the actor is missing.
func MustActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := ActorFrom(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewValidationError("actor headers are required"))
		return shared.Actor{}, false
	}
	return actor, true
}
