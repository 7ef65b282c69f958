package handlers

import (
	"citygate/internal/auth"
	"citygate/internal/models"
	"citygate/internal/validation"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor maps an engine error onto its HTTP status
func statusFor(err error) int {
	switch auth.KindOf(err) {
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindAlreadyExists, auth.KindBlocked, auth.KindWrongPassword, auth.KindBadToken:
		return http.StatusConflict
	case auth.KindUnauthorized:
		return http.StatusUnauthorized
	case auth.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"errors":{"msg":...}} with the mapped status.
// Internal failures are logged and reported without detail.
func RespondError(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, models.NewErrorResponse("INTERNAL_ERROR"))
		return
	case http.StatusUnprocessableEntity:
		log.Printf("Request %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, models.NewErrorResponse(auth.Code(err)))
}

// respondBindError reports a request that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	field, msg := validation.Message(err)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Errors: models.ErrorBody{Msg: msg, Param: field},
	})
}

// RequestMeta extracts where the request came from. The country is taken
// from the CF-IPCountry header set by Cloudflare.
func RequestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IP:      c.ClientIP(),
		Browser: c.Request.UserAgent(),
		Country: c.GetHeader("CF-IPCountry"),
	}
}
