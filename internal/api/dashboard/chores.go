package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homequest/chorequest/internal/service/chores"
)

type completeChoreRequest struct {
	MemberID string `json:"member_id" binding:"required"`
}

// ListChores returns every chore of a household.
// GET /api/v1/households/:household/chores.
func (h *Handler) ListChores(c *gin.Context) {
	household := c.Param("household")

	list, err := h.choreService.ListChores(c.Request.Context(), household)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve chores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chores": list,
		"total":  len(list),
	})
}

// CreateChore adds a chore to a household.
// POST /api/v1/households/:household/chores.
func (h *Handler) CreateChore(c *gin.Context) {
	household := c.Param("household")

	var req chores.CreateChoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	chore, err := h.choreService.CreateChore(c.Request.Context(), household, req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create chore")
		return
	}

	c.JSON(http.StatusCreated, chore)
}

// CompleteChore marks a chore completed by a member.
// POST /api/v1/households/:household/chores/:id/complete.
func (h *Handler) CompleteChore(c *gin.Context) {
	household := c.Param("household")
	choreID := c.Param("id")

	var req completeChoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	chore, err := h.choreService.CompleteChore(c.Request.Context(), household, choreID, req.MemberID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to complete chore")
		return
	}

	c.JSON(http.StatusOK, chore)
}

// DeleteChore removes a chore.
// DELETE /api/v1/households/:household/chores/:id.
func (h *Handler) DeleteChore(c *gin.Context) {
	if err := h.choreService.DeleteChore(c.Request.Context(), c.Param("household"), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete chore")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers returns the active members of a household.
// GET /api/v1/households/:household/members.
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.choreService.ListMembers(c.Request.Context(), c.Param("household"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve members")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"total":   len(members),
	})
}

// AddMember adds a member to a household.
// POST /api/v1/households/:household/members.
func (h *Handler) AddMember(c *gin.Context) {
	household := c.Param("household")

	var req chores.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	member, err := h.choreService.AddMember(c.Request.Context(), household, req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add member")
		return
	}

	c.JSON(http.StatusCreated, member)
}
