package coordinator

import "github.com/ceyewan/fractal/xerrors"

var (
	// ErrInvalidConfig 配置不完整或字段非法
	ErrInvalidConfig = xerrors.New("coordinator: invalid config")

	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("coordinator: config is nil")
)
