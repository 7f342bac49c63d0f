package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

const (
	headerUserID = "X-User-ID"
	headerOrgID  = "X-Org-ID"
	headerRole   = "X-Role"
)

var errMissingIdentity = errors.New("missing X-Org-ID or X-Role header")

// identityFromHeaders reads the acting identity from the request headers.
// Authentication itself is upstream; this layer only carries the claims.
func identityFromHeaders(c *gin.Context) (domain.Identity, error) {
	identity := domain.Identity{
		UserID:         c.GetHeader(headerUserID),
		OrganizationID: c.GetHeader(headerOrgID),
		Role:           domain.Role(c.GetHeader(headerRole)),
	}

	if identity.OrganizationID == "" || identity.Role == "" {
		return domain.Identity{}, errMissingIdentity
	}
	if !identity.Role.IsValid() {
		return domain.Identity{}, errors.New("unknown role " + string(identity.Role))
	}

	return identity, nil
}
