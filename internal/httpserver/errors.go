package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"driphorizon/internal/domain"
	usersvc "driphorizon/internal/service/user"
	"github.com/gin-gonic/gin"
)

// writeError maps a domain error to a status and a message the shopper can act on.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrOrderProcessInterrupted):
		c.JSON(http.StatusConflict, gin.H{"message": "Order process was interrupted. Please start again from product selection."})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "Order cannot be cancelled as it is not in Processing status."})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "Username already exists."})
	case errors.Is(err, domain.ErrNoActiveDraft):
		c.JSON(http.StatusNotFound, gin.H{"message": "No product selected. Please choose a product first."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect username or password."})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please log in first."})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Administrator access required."})
	default:
		if logger != nil {
			logger.Printf("httpserver: %s %s err=%v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong. Please try again."})
	}
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
