package doctor

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
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListByDepartment)
		doctors.GET("/unassigned", h.ListUnassigned)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/:id/rooms", h.ListRooms)
		doctors.GET("/:id/rooms/picker", h.RoomPicker)
		doctors.POST("/:id/rooms", h.AssignRooms)
		doctors.DELETE("/:id/rooms", h.RemoveRooms)
	}
}

type roomIDsRequest struct {
	RoomIDs []int64 `json:"room_ids" binding:"required,min=1,dive,gt=0"`
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	doctor, err := h.directory.GetDoctor(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
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

	doctors, err := h.directory.ListDoctorsByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListUnassigned(c *gin.Context) {
	doctors, err := h.directory.ListUnassignedDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	rooms, err := h.assignments.ListRoomsForDoctor(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

// RoomPicker returns the rooms currently linked to the doctor next to the
// rooms in the doctor's department not yet linked to any doctor. An
// unassigned doctor gets an empty available list rather than an error.
func (h *Handler) RoomPicker(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	doctor, err := h.directory.GetDoctor(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	assigned, err := h.assignments.ListRoomsForDoctor(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	available := []*model.Room{}
	if doctor.DepartmentID != nil {
		available, err = h.directory.ListUnassignedRoomsForPerson(c.Request.Context(), model.PersonKindDoctor, *doctor.DepartmentID)
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.AssignRoomsToDoctor(c.Request.Context(), id, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) RemoveRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.RemoveRoomsFromDoctor(c.Request.Context(), id, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}
