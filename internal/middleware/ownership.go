package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodgram/internal/pkg/response"
)

// AuthorLookup resolves the author of an owned resource.
type AuthorLookup interface {
	AuthorID(ctx context.Context, id int64) (int64, error)
}

// OwnershipChecker guards mutating routes of author-owned resources.
type OwnershipChecker struct {
	lookup AuthorLookup
	label  string
}

func NewOwnershipChecker(lookup AuthorLookup, label string) *OwnershipChecker {
	return &OwnershipChecker{lookup: lookup, label: label}
}

// RequireAuthor verifies the caller authored the resource in URL param "id".
// Unknown ids answer 404 before ownership is considered.
func (oc *OwnershipChecker) RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication credentials were not provided.")
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Abort(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid "+oc.label+" ID")
			return
		}

		authorID, err := oc.lookup.AuthorID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Abort(c, http.StatusNotFound, response.CodeNotFound, oc.label+" not found")
				return
			}
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
			return
		}

		if authorID != userID {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "You do not have permission to perform this action.")
			return
		}

		c.Next()
	}
}
