package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an API error carrying the HTTP status it maps to
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrInvalidPassword     = New("invalid username or password", http.StatusUnauthorized)
	InActiveUserError      = errors.New("user is inactive")

	// ErrMalformedRecord marks a stored report that could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrDailyLimitReached is returned when a role's daily report quota is used up.
	ErrDailyLimitReached = New("daily report limit reached", http.StatusTooManyRequests)
)

// Is reports whether err is a *Error with the same status as target.
func Is(err error, target *Error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Status == target.Status && e.Message == target.Message
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ErrorHandler is used by the login rate limiter
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
		"status":  http.StatusTooManyRequests,
	})
}
