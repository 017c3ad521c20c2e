package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotPlayable   = errors.New("video has no vimeo id")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrRateLimited        = errors.New("too many payment attempts")
	ErrNoAccess           = errors.New("user has no access to this course")
	ErrServerConfig       = errors.New("server configuration error")
)
