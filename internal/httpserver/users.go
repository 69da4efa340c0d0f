package httpserver

import (
	"net/http"

	usersvc "cart-operations/internal/service/user"

	"github.com/gin-gonic/gin"
)

func (h *handlers) registerUser(c *gin.Context) {
	var req usersvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// findUser looks a user up by the name query parameter.
func (h *handlers) findUser(c *gin.Context) {
	u, err := h.users.FindByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
