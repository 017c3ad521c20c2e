package controller

import (
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	AccessService   *service.AccessService
}

func NewProgressController(progressService *service.ProgressService, accessService *service.AccessService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		AccessService:   accessService,
	}
}

// RecordProgressRequest 观看进度上报
type RecordProgressRequest struct {
	VideoID   string `json:"videoId" binding:"required"`
	CourseID  string `json:"courseId" binding:"required"`
	Completed bool   `json:"completed"`
}

// RecordProgress godoc
// @Summary 上报观看进度
// @Description 同一视频重复上报为幂等操作
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body RecordProgressRequest true "进度数据"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无课程访问权"
// @Router /api/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !courseIDPattern.MatchString(req.CourseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	if !c.AccessService.VerifyAccess(claims.UserID, req.CourseID) {
		util.Forbidden(ctx)
		return
	}

	if err := c.ProgressService.RecordCompletion(claims.UserID, req.VideoID, req.CourseID, req.Completed); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetCourseProgress godoc
// @Summary 课程进度
// @Description 完成数/总数/百分比与逐视频状态，无视频课程百分比为 0
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress} "成功"
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	progress, err := c.ProgressService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
