package department

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
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
	departments := r.Group("/departments")
	{
		departments.POST("/:id/doctors", h.AssignDoctors)
		departments.DELETE("/:id/doctors", h.RemoveDoctors)
		departments.GET("/:id/doctors", h.ListDoctors)
		departments.GET("/:id/doctors/picker", h.DoctorPicker)

		departments.POST("/:id/nurses", h.AssignNurses)
		departments.DELETE("/:id/nurses", h.RemoveNurses)
		departments.GET("/:id/nurses", h.ListNurses)
		departments.GET("/:id/nurses/picker", h.NursePicker)

		departments.POST("/:id/rooms", h.AssignRooms)
		departments.DELETE("/:id/rooms", h.RemoveRooms)
		departments.GET("/:id/rooms", h.ListRooms)
		departments.GET("/:id/rooms/picker", h.RoomPicker)
	}
}

type doctorIDsRequest struct {
	DoctorIDs []int64 `json:"doctor_ids" binding:"required,min=1,dive,gt=0"`
}

type nurseIDsRequest struct {
	NurseIDs []int64 `json:"nurse_ids" binding:"required,min=1,dive,gt=0"`
}

type roomIDsRequest struct {
	RoomIDs []int64 `json:"room_ids" binding:"required,min=1,dive,gt=0"`
}

func (h *Handler) AssignDoctors(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req doctorIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.AssignDoctorsToDepartment(c.Request.Context(), departmentID, req.DoctorIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) RemoveDoctors(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req doctorIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.RemoveDoctorsFromDepartment(c.Request.Context(), departmentID, req.DoctorIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
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

func (h *Handler) DoctorPicker(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	assigned, err := h.directory.ListDoctorsByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	available, err := h.directory.ListUnassignedDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.Picker{
		Assigned:  assigned,
		Available: available,
	}))
}

func (h *Handler) AssignNurses(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req nurseIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.AssignNursesToDepartment(c.Request.Context(), departmentID, req.NurseIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) RemoveNurses(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req nurseIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.RemoveNursesFromDepartment(c.Request.Context(), departmentID, req.NurseIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) ListNurses(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
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

func (h *Handler) NursePicker(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	assigned, err := h.directory.ListNursesByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	available, err := h.directory.ListUnassignedNurses(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.Picker{
		Assigned:  assigned,
		Available: available,
	}))
}

func (h *Handler) AssignRooms(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.AssignRoomsToDepartment(c.Request.Context(), departmentID, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) RemoveRooms(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req roomIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.assignments.RemoveRoomsFromDepartment(c.Request.Context(), departmentID, req.RoomIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) ListRooms(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	rooms, err := h.directory.ListRoomsByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) RoomPicker(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	assigned, err := h.directory.ListRoomsByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	available, err := h.directory.ListUnassignedRooms(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.Picker{
		Assigned:  assigned,
		Available: available,
	}))
}
