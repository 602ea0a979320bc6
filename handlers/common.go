package handlers

import (
	"errors"
	"strconv"

	"AfyaCare/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// parseUintParam reads a numeric path parameter. On failure it writes the 400
// response and returns false.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// amountString normalizes a JSON amount field that may arrive as a string or
// a number into the string form the billing layer parses.
func amountString(v interface{}) string {
	switch a := v.(type) {
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	default:
		return ""
	}
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return 400
	case errors.Is(err, models.ErrPaymentRequired):
		return 402
	case errors.Is(err, models.ErrInsufficientStock):
		return 409
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 404
	default:
		return 500
	}
}
