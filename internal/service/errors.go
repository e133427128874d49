package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrVoteTypeInvalid   = errors.New("投票类型必须是 up 或 down")
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUsernameExist     = errors.New("用户名已存在")
	ErrEmailExist        = errors.New("邮箱已注册")
	ErrPasswordIncorrect = errors.New("用户名或密码错误")
	ErrPostNotFound      = errors.New("帖子不存在")
	ErrPostLocked        = errors.New("帖子已锁定，禁止投票")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommunityNotFound = errors.New("社区不存在")
	ErrCommunityExist    = errors.New("社区已存在")
	ErrMemberExist       = errors.New("已加入该社区")
	ErrMemberNotFound    = errors.New("尚未加入该社区")
	// 行锁等待超时或并发写冲突，客户端原样重试整个请求即可，不会留下部分状态
	ErrVoteConflict  = errors.New("投票冲突，请重试")
	PermissionDenied = errors.New("权限不足")
	UnExpectedError  = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrVoteTypeInvalid:   BadRequest,
	ErrUserNotFound:      NotFound,
	ErrUsernameExist:     BadRequest,
	ErrEmailExist:        BadRequest,
	ErrPasswordIncorrect: Unauthorized,
	ErrPostNotFound:      NotFound,
	ErrPostLocked:        Forbidden,
	ErrCommentNotFound:   NotFound,
	ErrCommunityNotFound: NotFound,
	ErrCommunityExist:    BadRequest,
	ErrMemberExist:       BadRequest,
	ErrMemberNotFound:    BadRequest,
	ErrVoteConflict:      Conflict,
	PermissionDenied:     Forbidden,
	UnExpectedError:      InternalServerError,
}
