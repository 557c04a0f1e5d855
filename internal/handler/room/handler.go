package room

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/directory"
)

type Handler struct {
	directory directory.Servicer
}

func NewHandler(directory directory.Servicer) *Handler {
	return &Handler{directory: directory}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListByDepartment)
		rooms.GET("/unassigned", h.ListUnassigned)
		rooms.GET("/unassigned-for-doctors/:departmentId", h.ListUnassignedForDoctors)
		rooms.GET("/unassigned-for-nurses/:departmentId", h.ListUnassignedForNurses)
		rooms.GET("/:id", h.GetRoom)
	}
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid room ID"))
		return
	}

	room, err := h.directory.GetRoom(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(room))
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

	rooms, err := h.directory.ListRoomsByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) ListUnassigned(c *gin.Context) {
	rooms, err := h.directory.ListUnassignedRooms(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) ListUnassignedForDoctors(c *gin.Context) {
	h.listUnassignedForPerson(c, model.PersonKindDoctor)
}

func (h *Handler) ListUnassignedForNurses(c *gin.Context) {
	h.listUnassignedForPerson(c, model.PersonKindNurse)
}

func (h *Handler) listUnassignedForPerson(c *gin.Context, kind model.PersonKind) {
	departmentID, err := strconv.ParseInt(c.Param("departmentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	rooms, err := h.directory.ListUnassignedRoomsForPerson(c.Request.Context(), kind, departmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}
