package nurse

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/assignment"
	"github.com/jwalitptl/hospital-api/internal/service/directory"
)

type Handler struct {
	assignments assignment.Servicer
	directory   directory.Servicer
}

func NewHandler(assignments assignment.Servicer, directory directory.Servicer) *Handler {
	return &Handler{assignments: assignments, directory: directory}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	nurses := r.Group("/nurses")
	{
		nurses.GET("", h.ListByDepartment)
		nurses.GET("/unassigned", h.ListUnassigned)
		nurses.GET("/:id", h.GetNurse)
		nurses.GET("/:id/rooms", h.ListRooms)
		nurses.GET("/:id/rooms/picker", h.RoomPicker)
		nurses.POST("/:id/rooms", h.AssignRooms)
		nurses.DELETE("/:id/rooms", h.RemoveRooms)
	}
}

type roomIDsRequest struct {
	RoomIDs []int64 `json:"room_ids" binding:"required,min=1,dive,gt=0"`
}

func (h *Handler) GetNurse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid nurse ID"))
		return
	}

	nurse, err := h.directory.GetNurse(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurse))
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	departmentParam := c.Query("department_id")
	if departmentParam == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("department_id is required"))
		return
	}

	departmentID, err := strconv.ParseInt(departmentParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	nurses, err := h.directory.ListNursesByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurses))
}

func (h *Handler) ListUnassigned(c *gin.Context) {
	nurses, err := h.directory.ListUnassignedNurses(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurses))
}

func (h *Handler) ListRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid nurse ID"))
		return
	}

	rooms, err := h.assignments.ListRoomsForNurse(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) RoomPicker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid nurse ID"))
		return
	}

	nurse, err := h.directory.GetNurse(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	assigned, err := h.assignments.ListRoomsForNurse(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	available := []*model.Room{}
	if nurse.DepartmentID != nil {
		available, err = h.directory.ListUnassignedRoomsForPerson(c.Request.Context(), model.PersonKindNurse, *nurse.DepartmentID)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.Picker{
		Assigned:  assigned,
		Available: available,
	}))
}

func (h *Handler) AssignRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid nurse ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.AssignRoomsToNurse(c.Request.Context(), id, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) RemoveRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid nurse ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.RemoveRoomsFromNurse(c.Request.Context(), id, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}
