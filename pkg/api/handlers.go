package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jakechorley/duty-rota/pkg/core/allocator"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/core/services"
)

type employeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Rank       string `json:"rank" binding:"required"`
	Department string `json:"department"`
}

func (r employeeRequest) input() services.EmployeeInput {
	return services.EmployeeInput{Name: r.Name, Rank: r.Rank, Department: r.Department}
}

type vacationRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Day        int    `json:"day" binding:"required"`
}

type assignRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

type scheduleResponse struct {
	Month      string            `json:"month"`
	Title      string            `json:"title"`
	Schedule   map[int]string    `json:"schedule"`
	Unassigned []int             `json:"unassigned"`
	CanUndo    bool              `json:"canUndo"`
	Violations []violationOutput `json:"violations,omitempty"`
}

type previewResponse struct {
	Month      string            `json:"month"`
	Title      string            `json:"title"`
	Schedule   map[int]string    `json:"schedule"`
	Conflicts  []string          `json:"conflicts"`
	Unassigned []int             `json:"unassigned"`
	Quotas     map[string]int    `json:"quotas,omitempty"`
	Violations []violationOutput `json:"violations,omitempty"`
}

type violationOutput struct {
	Day         int    `json:"day,omitempty"`
	Constraint  string `json:"constraint"`
	Description string `json:"description"`
}

func toViolations(violations []allocator.DayViolation) []violationOutput {
	out := make([]violationOutput, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationOutput{Day: v.Day, Constraint: v.ConstraintName, Description: v.Description})
	}
	return out
}

func toPreviewResponse(preview *services.Preview) previewResponse {
	conflicts := preview.Conflicts
	if conflicts == nil {
		conflicts = []string{}
	}
	return previewResponse{
		Month:      preview.Month.Key(),
		Title:      preview.Month.String(),
		Schedule:   preview.Schedule,
		Conflicts:  conflicts,
		Unassigned: preview.Unassigned,
		Quotas:     preview.Quotas,
		Violations: toViolations(preview.Violations),
	}
}

func monthParam(c *gin.Context) (model.Month, error) {
	month, err := model.ParseMonthKey(c.Param("month"))
	if err != nil {
		return model.Month{}, badRequest(err)
	}
	return month, nil
}

func dayParam(c *gin.Context) (int, error) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return 0, badRequest(fmt.Errorf("invalid day %q", c.Param("day")))
	}
	return day, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listEmployees(c *gin.Context) {
	employees, err := services.ListEmployees(c.Request.Context(), s.store)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, employees)
}

func (s *Server) addEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, badRequest(err))
		return
	}
	employee, err := services.AddEmployee(c.Request.Context(), s.store, s.logger, req.input())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusCreated, employee)
}

func (s *Server) updateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, badRequest(err))
		return
	}
	employee, err := services.UpdateEmployee(c.Request.Context(), s.store, s.logger, c.Param("id"), req.input())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, employee)
}

func (s *Server) removeEmployee(c *gin.Context) {
	if err := services.RemoveEmployee(c.Request.Context(), s.store, s.logger, c.Param("id")); err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listVacations(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	days, err := services.VacationDays(c.Request.Context(), s.store, month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, days)
}

func (s *Server) toggleVacation(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	var req vacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, badRequest(err))
		return
	}
	onVacation, err := services.ToggleVacation(c.Request.Context(), s.store, s.logger, req.EmployeeID, month, req.Day)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"employeeId": req.EmployeeID, "day": req.Day, "onVacation": onVacation})
}

func (s *Server) currentSchedule(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	schedule, err := s.controller.CurrentSchedule(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.respondSchedule(c, month, schedule, nil)
}

func (s *Server) respondSchedule(c *gin.Context, month model.Month, schedule model.Schedule, violations []allocator.DayViolation) {
	canUndo, err := s.controller.CanUndo(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, scheduleResponse{
		Month:      month.Key(),
		Title:      month.String(),
		Schedule:   schedule,
		Unassigned: schedule.Unassigned(month.DaysInMonth()),
		CanUndo:    canUndo,
		Violations: toViolations(violations),
	})
}

func (s *Server) assignDay(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	day, err := dayParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, badRequest(err))
		return
	}
	result, err := services.AssignDay(c.Request.Context(), s.store, s.logger, month, day, req.EmployeeID)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.respondSchedule(c, month, result.Schedule, result.Violations)
}

func (s *Server) clearDay(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	day, err := dayParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	result, err := services.ClearDay(c.Request.Context(), s.store, s.logger, month, day)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.respondSchedule(c, month, result.Schedule, result.Violations)
}

func (s *Server) generatePreview(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	preview, err := s.controller.GeneratePreview(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, toPreviewResponse(preview))
}

func (s *Server) getPreview(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	preview, err := s.controller.GetPreview(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, toPreviewResponse(preview))
}

func (s *Server) discardPreview(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	if err := s.controller.DiscardPreview(c.Request.Context(), month); err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) applyPreview(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	schedule, err := s.controller.ApplyPreview(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.respondSchedule(c, month, schedule, nil)
}

func (s *Server) undo(c *gin.Context) {
	month, err := monthParam(c)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	schedule, err := s.controller.Undo(c.Request.Context(), month)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.respondSchedule(c, month, schedule, nil)
}

func (s *Server) statistics(c *gin.Context) {
	var months []model.Month
	for _, key := range c.QueryArray("month") {
		month, err := model.ParseMonthKey(key)
		if err != nil {
			respondError(c, s.logger, badRequest(err))
			return
		}
		months = append(months, month)
	}
	stats, err := services.ComputeStatistics(c.Request.Context(), s.store, s.logger, months)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

func (s *Server) exportSnapshot(c *gin.Context) {
	snapshot, err := services.ExportSnapshot(c.Request.Context(), s.store, s.logger, s.now())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=duty-rota-%s.json", s.now().Format("2006-01-02")))
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) importSnapshot(c *gin.Context) {
	snapshot, err := services.ReadSnapshot(c.Request.Body)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	if err := services.ImportSnapshot(c.Request.Context(), s.store, s.logger, snapshot); err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
