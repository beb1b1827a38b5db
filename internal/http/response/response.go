package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/reviewloop-backend/internal/platform/apierr"
)

// ErrorBody is the rejection envelope returned to survey clients.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError renders an *apierr.Error; anything else becomes a generic 500.
func RespondAPIError(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.Internal()
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
