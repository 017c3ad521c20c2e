package controller

import (
	"errors"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	AccessService *service.AccessService
}

func NewVideoController(accessService *service.AccessService) *VideoController {
	return &VideoController{AccessService: accessService}
}

// VimeoTokenRequest 播放令牌请求
type VimeoTokenRequest struct {
	VideoID  string                `json:"videoId" binding:"required"`
	CourseID string                `json:"courseId" binding:"required"`
	Embed    *service.EmbedOptions `json:"embed"`
}

// VimeoToken godoc
// @Summary 签发视频播放令牌
// @Description 通过访问裁决后签发一小时有效的播放令牌，并记录审计日志
// @Tags 视频
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body VimeoTokenRequest true "令牌请求"
// @Success 200 {object} util.Response{data=service.VideoToken} "成功"
// @Failure 403 {object} util.Response "无课程访问权"
// @Failure 404 {object} util.Response "视频不存在"
// @Failure 422 {object} util.Response "视频无可播放源"
// @Failure 500 {object} util.Response "服务器配置错误"
// @Router /api/vimeo-token [post]
func (c *VideoController) VimeoToken(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VimeoTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !courseIDPattern.MatchString(req.CourseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	opts := service.EmbedOptions{}
	if req.Embed != nil {
		opts = *req.Embed
	}

	token, err := c.AccessService.IssueVideoToken(claims.UserID, req.VideoID, req.CourseID, opts)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoAccess):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrVideoNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrVideoNotPlayable):
			util.Error(ctx, 422, "Video is not playable")
		case errors.Is(err, util.ErrServerConfig):
			util.Error(ctx, 500, "Server configuration error")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, token)
}
