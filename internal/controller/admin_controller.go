package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"froggocodes_backend/internal/model"
	"froggocodes_backend/internal/repository"
	"froggocodes_backend/internal/service"
	"froggocodes_backend/internal/util"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController 课程目录维护接口，仅管理员角色可达
type AdminController struct {
	CourseRepo     *repository.CourseRepository
	VideoRepo      *repository.VideoRepository
	StorageService *service.StorageService
}

func NewAdminController(
	courseRepo *repository.CourseRepository,
	videoRepo *repository.VideoRepository,
	storageService *service.StorageService,
) *AdminController {
	return &AdminController{
		CourseRepo:     courseRepo,
		VideoRepo:      videoRepo,
		StorageService: storageService,
	}
}

// UpsertCourseRequest 课程创建/更新请求
type UpsertCourseRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PriceIndia  int64  `json:"price_india"`
	PriceInt    int64  `json:"price_int"`
	Discount    int    `json:"discount" binding:"min=0,max=100"`
	Highlight   bool   `json:"highlight"`
	Thumbnail   string `json:"thumbnail"`
}

// UpsertCourse godoc
// @Summary 创建或更新课程
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpsertCourseRequest true "课程数据"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/courses [put]
func (c *AdminController) UpsertCourse(ctx *gin.Context) {
	var req UpsertCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !courseIDPattern.MatchString(req.ID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	course := &model.Course{
		SlugBase:    model.SlugBase{ID: req.ID},
		Title:       req.Title,
		Description: req.Description,
		PriceIndia:  req.PriceIndia,
		PriceInt:    req.PriceInt,
		Discount:    req.Discount,
		Highlight:   req.Highlight,
		Thumbnail:   req.Thumbnail,
	}

	if err := c.CourseRepo.Update(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	if err := c.CourseRepo.Delete(courseID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UpsertFeaturesRequest 课程卖点数据
type UpsertFeaturesRequest struct {
	VideoCount   string   `json:"videoCount"`
	ProjectCount string   `json:"projectCount"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}

// UpsertFeatures godoc
// @Summary 更新课程卖点
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   body body UpsertFeaturesRequest true "卖点数据"
// @Success 200 {object} util.Response{data=model.CourseFeatures} "成功"
// @Router /api/admin/courses/{id}/features [put]
func (c *AdminController) UpsertFeatures(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	var req UpsertFeaturesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	features := &model.CourseFeatures{
		CourseID:     courseID,
		VideoCount:   req.VideoCount,
		ProjectCount: req.ProjectCount,
		Description:  req.Description,
	}
	if len(req.Features) > 0 {
		raw, err := json.Marshal(req.Features)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		features.Features = raw
	}

	if err := c.CourseRepo.SaveFeatures(features); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, features)
}

// UpsertVideoRequest 视频元数据
type UpsertVideoRequest struct {
	ID         string `json:"id"`
	Title      string `json:"title" binding:"required"`
	Duration   int    `json:"duration"`
	VimeoID    string `json:"vimeo_id"`
	OrderIndex int    `json:"order_index"`
}

// UpsertVideo godoc
// @Summary 创建或更新课程视频
// @Description 不带 id 时新建，带 id 时整条覆盖
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   body body UpsertVideoRequest true "视频数据"
// @Success 200 {object} util.Response{data=model.Video} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/videos [put]
func (c *AdminController) UpsertVideo(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	if _, err := c.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	var req UpsertVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video := &model.Video{
		CourseID:   courseID,
		Title:      req.Title,
		Duration:   req.Duration,
		VimeoID:    req.VimeoID,
		OrderIndex: req.OrderIndex,
	}

	var err error
	if req.ID == "" {
		err = c.VideoRepo.Create(video)
	} else {
		video.ID = req.ID
		err = c.VideoRepo.Update(video)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, video)
}

// DeleteVideo godoc
// @Summary 删除视频
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   videoId path string true "视频ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/courses/{id}/videos/{videoId} [delete]
func (c *AdminController) DeleteVideo(ctx *gin.Context) {
	if err := c.VideoRepo.Delete(ctx.Param("videoId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadThumbnail godoc
// @Summary 上传课程封面
// @Description multipart 表单字段名为 file，存储后回写课程 thumbnail
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   file formData file true "封面图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/thumbnail [post]
func (c *AdminController) UploadThumbnail(ctx *gin.Context) {
	courseID := ctx.Param("id")
	if !courseIDPattern.MatchString(courseID) {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	course, err := c.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("thumbnails/%s_%d%s", courseID, time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course.Thumbnail = url
	if err := c.CourseRepo.Update(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"thumbnail": url})
}
