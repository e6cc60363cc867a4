package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"planner-cli/internal/model"

	"github.com/gin-gonic/gin"
)

type nameRequest struct {
	Name string `json:"name" binding:"required"`
	// Week is an optional "YYYY-Www"; the current week when empty.
	Week string `json:"week"`
}

type renameRequest struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
	Week    string `json:"week"`
}

type reorderRequest struct {
	Names []string `json:"names" binding:"required"`
	Week  string   `json:"week"`
}

func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	weeks := router.Group("/weeks")
	{
		weeks.GET("/current", s.currentWeek)
		weeks.GET("/:year/:week", s.week)
	}
	habits := router.Group("/habits")
	{
		habits.POST("", s.add)
		habits.POST("/toggle", s.toggle)
		habits.POST("/rename", s.rename)
		habits.POST("/remove", s.remove)
		habits.PUT("/order", s.reorder)
	}
}

func (s *Server) currentWeek(c *gin.Context) {
	wh, err := s.svc.FetchCurrentWeek(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wh)
}

func (s *Server) week(c *gin.Context) {
	year, yerr := strconv.Atoi(c.Param("year"))
	num, werr := strconv.Atoi(c.Param("week"))
	wk := model.Week{Year: year, Number: num}
	if yerr != nil || werr != nil || !wk.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week"})
		return
	}
	wh, err := s.svc.Week(c.Request.Context(), wk)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wh)
}

func (s *Server) add(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wk, ok := s.targetWeek(c, req.Week)
	if !ok {
		return
	}
	if err := s.svc.Add(c.Request.Context(), wk, req.Name); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": strings.TrimSpace(req.Name), "week": wk.Key()})
}

func (s *Server) toggle(c *gin.Context) {
	s.nameMutation(c, s.svc.Toggle)
}

func (s *Server) remove(c *gin.Context) {
	s.nameMutation(c, s.svc.Remove)
}

func (s *Server) nameMutation(c *gin.Context, fn func(ctx context.Context, wk model.Week, name string) error) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wk, ok := s.targetWeek(c, req.Week)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), wk, req.Name); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wk, ok := s.targetWeek(c, req.Week)
	if !ok {
		return
	}
	if err := s.svc.Rename(c.Request.Context(), wk, req.OldName, req.NewName); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wk, ok := s.targetWeek(c, req.Week)
	if !ok {
		return
	}
	if err := s.svc.Reorder(c.Request.Context(), wk, req.Names); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) targetWeek(c *gin.Context, key string) (model.Week, bool) {
	if strings.TrimSpace(key) == "" {
		return s.svc.CurrentWeek(), true
	}
	wk, err := model.ParseWeek(key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Week{}, false
	}
	return wk, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrHabitExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrHabitNameEmpty), errors.Is(err, model.ErrHabitNameInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
