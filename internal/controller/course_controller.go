package controller

import (
	"errors"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	AccessService *service.AccessService
}

func NewCourseController(courseService *service.CourseService, accessService *service.AccessService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		AccessService: accessService,
	}
}

// ListCourses godoc
// @Summary 课程目录
// @Description highlight=true 时只返回首页推荐课程
// @Tags 课程
// @Produce  json
// @Param   highlight query bool false "只看推荐"
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	highlightOnly := ctx.Query("highlight") == "true"

	courses, err := c.CourseService.ListCourses(highlightOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 课程基本信息与视频列表（按 order_index 排序）
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	detail, err := c.CourseService.CourseDetail(courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// GetFeatures godoc
// @Summary 课程卖点
// @Description 落地页展示数据，缺省字段用默认卖点补齐
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseFeatures} "成功"
// @Router /api/courses/{id}/features [get]
func (c *CourseController) GetFeatures(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	util.Success(ctx, c.CourseService.Features(courseID))
}

// GetPricing godoc
// @Summary 课程定价
// @Description 按地区档位返回原价/折后价，课程不存在时返回兜底定价
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   region query string false "india 或 intl，默认 india"
// @Success 200 {object} util.Response{data=service.CourseWithPricing} "成功"
// @Router /api/courses/{id}/pricing [get]
func (c *CourseController) GetPricing(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	isIndia := ctx.Query("region") != "intl"
	util.Success(ctx, c.CourseService.CourseWithPricing(courseID, isIndia))
}

// MyCourses godoc
// @Summary 我的课程
// @Description 已报名课程列表，按最近访问倒序
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.EnrolledCourse} "成功"
// @Router /api/my-courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.MyCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// VisitCourse godoc
// @Summary 记录课程访问
// @Description 刷新报名记录的 last_accessed
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/visit [post]
func (c *CourseController) VisitCourse(ctx *gin.Context) {
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

	if err := c.CourseService.TouchLastAccessed(claims.UserID, courseID); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// CheckAccess godoc
// @Summary 课程访问裁决
// @Description 报名记录与已完成支付同时成立才放行
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/courses/{id}/access [get]
func (c *CourseController) CheckAccess(ctx *gin.Context) {
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

	util.Success(ctx, gin.H{"hasAccess": c.AccessService.VerifyAccess(claims.UserID, courseID)})
}
