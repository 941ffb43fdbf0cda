package book

import (
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrInvalidDraft 表单缺少必填项
	ErrInvalidDraft = apperrors.ErrInvalidParams

	// ErrInvalidGenre 类型不在枚举内
	ErrInvalidGenre = apperrors.New(apperrors.ErrCodeInvalidParams, "Unknown genre")

	// ErrInvalidStatus 状态不在枚举内
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "Unknown status")

	// ErrMissingID 更新或删除时缺少ID
	ErrMissingID = apperrors.New(apperrors.ErrCodeInvalidParams, "Book id is required")
)
