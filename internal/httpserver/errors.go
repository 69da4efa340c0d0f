package httpserver

import (
	"errors"
	"net/http"

	"cart-operations/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Errors     []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

// Order matters: the first kind err matches wins.
var errorKinds = []errorKind{
	{domain.ErrCartNotFound, http.StatusNotFound, "CartNotFound"},
	{domain.ErrProductNotFound, http.StatusNotFound, "ProductNotFound"},
	{domain.ErrItemNotFound, http.StatusNotFound, "ItemNotFound"},
	{domain.ErrUserNotFound, http.StatusNotFound, "UserNotFound"},
	{domain.ErrNotFound, http.StatusNotFound, "ResourceNotFound"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "InvalidQuantity"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "InvalidInput"},
	{domain.ErrAlreadyExists, http.StatusConflict, "AlreadyExists"},
	{domain.ErrItemNotAttachedToCart, http.StatusConflict, "ItemNotAttachedToCart"},
	{domain.ErrUserNotAttachedToCart, http.StatusConflict, "UserNotAttachedToCart"},
	{domain.ErrNegativeTotalCost, http.StatusConflict, "NegativeTotalCost"},
}

func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			writeErrorStatus(c, k.status, k.code, err.Error())
			return
		}
	}
	logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	_ = c.Error(err)
	writeErrorStatus(c, http.StatusInternalServerError, "InternalError", domain.ErrInternal.Error())
}

func writeErrorStatus(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []errorDetail{{Code: code, Message: message}},
	})
}
