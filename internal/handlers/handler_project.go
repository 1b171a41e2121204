package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// ProjectHandler handles project and phase endpoints.
type ProjectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(ps portssvc.ProjectSvcFacade) *ProjectHandler {
	return &ProjectHandler{projectService: ps}
}

// registerProjectRoutes sets up the project and phase routes.
func registerProjectRoutes(rg *gin.RouterGroup, ps portssvc.ProjectSvcFacade) {
	h := NewProjectHandler(ps)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:projectID", h.GetProject)
		projects.PUT("/:projectID", h.UpdateProject)
		projects.DELETE("/:projectID", h.DeleteProject)

		projects.POST("/:projectID/phases", h.CreatePhase)
		projects.GET("/:projectID/phases", h.ListPhases)
		projects.PUT("/:projectID/phases/:phaseID", h.UpdatePhase)
		projects.DELETE("/:projectID/phases/:phaseID", h.DeletePhase)
	}
}

// CreateProject godoc
// @Summary Create a project
// @Description Creates a project owned by the calling client, or by clientId when the caller is an admin.
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project to create"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// ListProjects godoc
// @Summary List projects
// @Description Lists the caller's visible projects newest first.
// @Tags projects
// @Produce json
// @Success 200 {array} dto.ProjectResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponses(projects))
}

// GetProject godoc
// @Summary Get a project
// @Description Fetches one project. Projects outside the caller's visibility return 404.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), principal, c.Param("projectID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// UpdateProject godoc
// @Summary Update a project
// @Description Updates the mutable fields of a project. Clients are bound to the mutation window and cannot reassign the agent.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), principal, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Deletes a project with its phases. Agents can never delete.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 204 {object} nil
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), principal, c.Param("projectID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePhase godoc
// @Summary Create a project phase
// @Description Adds a phase to a project the caller may mutate.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param phase body dto.CreatePhaseRequest true "Phase to create"
// @Success 201 {object} dto.PhaseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID}/phases [post]
func (h *ProjectHandler) CreatePhase(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	phase, err := h.projectService.CreatePhase(c.Request.Context(), principal, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPhaseResponse(phase))
}

// ListPhases godoc
// @Summary List project phases
// @Description Lists the phases of a visible project in creation order.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {array} dto.PhaseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID}/phases [get]
func (h *ProjectHandler) ListPhases(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	phases, err := h.projectService.ListPhases(c.Request.Context(), principal, c.Param("projectID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPhaseResponses(phases))
}

// UpdatePhase godoc
// @Summary Update a project phase
// @Description Updates a phase. Client edits are bound to the phase's own mutation window.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param phaseID path string true "Phase ID"
// @Param phase body dto.UpdatePhaseRequest true "Fields to update"
// @Success 200 {object} dto.PhaseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID}/phases/{phaseID} [put]
func (h *ProjectHandler) UpdatePhase(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	phase, err := h.projectService.UpdatePhase(c.Request.Context(), principal, c.Param("projectID"), c.Param("phaseID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPhaseResponse(phase))
}

// DeletePhase godoc
// @Summary Delete a project phase
// @Description Deletes a phase. Agents can never delete.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Param phaseID path string true "Phase ID"
// @Success 204 {object} nil
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectID}/phases/{phaseID} [delete]
func (h *ProjectHandler) DeletePhase(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.projectService.DeletePhase(c.Request.Context(), principal, c.Param("projectID"), c.Param("phaseID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
