package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"katydid-course-admin/pkg/api"
	"katydid-course-admin/pkg/audit"
	"katydid-course-admin/pkg/course"
	"katydid-course-admin/pkg/form"
	"katydid-course-admin/pkg/validator"
)

// SaveRequest 保存课程的请求体
type SaveRequest struct {
	Form       form.Data         `json:"form" binding:"required"`
	Selections course.Selections `json:"selections"`
}

// SaveFailure 保存失败的响应体
type SaveFailure struct {
	Error   string                  `json:"error"`
	Errors  []*validator.FieldError `json:"errors,omitempty"`
	Outcome *course.Outcome         `json:"outcome,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) validateTab(c *gin.Context) {
	var data form.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid form body: %w", err))
		return
	}

	result, err := s.validator.ValidateTab(validator.Tab(c.Param("tab")), data)
	if err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) separateFields(c *gin.Context) {
	var data form.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid form body: %w", err))
		return
	}
	c.JSON(http.StatusOK, form.SeparateFields(form.ConvertToAPITypes(data)).Compact())
}

func (s *Server) saveCourse(c *gin.Context) {
	courseUUID, ok := courseParam(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid save request: %w", err))
		return
	}

	ctx := c.Request.Context()
	state, err := s.loader.Load(ctx, courseUUID)
	if err != nil {
		if api.IsNotFound(err) {
			abortWithError(c, http.StatusNotFound, fmt.Errorf("course %s not found", courseUUID))
			return
		}
		abortWithError(c, http.StatusBadGateway, fmt.Errorf("loading course: %w", err))
		return
	}
	state.Selections = req.Selections

	outcome, err := s.updater.Update(ctx, state, req.Form)
	if outcome != nil && len(outcome.Succeeded) > 0 {
		s.invalidate(ctx, courseUUID)
	}
	if err != nil {
		s.respondSaveError(c, outcome, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// invalidate 有请求生效后丢弃缓存的快照，失败只记日志
func (s *Server) invalidate(ctx context.Context, courseUUID string) {
	if err := s.loader.Invalidate(context.WithoutCancel(ctx), courseUUID); err != nil {
		s.logger.Warn("course cache invalidation failed",
			zap.String("course_uuid", courseUUID), zap.Error(err))
	}
}

func (s *Server) respondSaveError(c *gin.Context, outcome *course.Outcome, err error) {
	_ = c.Error(err)

	if vf, ok := course.AsValidationFailed(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, SaveFailure{
			Error:  vf.Error(),
			Errors: vf.Errors(),
		})
		return
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, course.ErrMissingCourseUUID):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.AbortWithStatusJSON(status, SaveFailure{Error: err.Error(), Outcome: outcome})
}

func (s *Server) listLogs(c *gin.Context) {
	courseUUID, ok := courseParam(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	entries, err := s.audit.List(c.Request.Context(), courseUUID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// courseParam 读取并校验路径中的课程 UUID
func courseParam(c *gin.Context) (string, bool) {
	raw := c.Param("uuid")
	id, err := uuid.Parse(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid course uuid %q", raw))
		return "", false
	}
	return id.String(), true
}
