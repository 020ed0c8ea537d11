package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")

	ErrWordNotFound   = errors.New("词条不存在")
	ErrRecordNotFound = errors.New("记忆记录不存在")
	ErrPlanNotFound   = errors.New("学习计划不存在")
	ErrTaskNotFound   = errors.New("每日任务不存在")
	ErrNoActivePlan   = errors.New("当前没有生效的学习计划")
)
