package seed

import (
	"fmt"

	"github.com/ceyewan/fractal/xerrors"
)

var (
	// ErrMissingEquals 配置行缺少 '=' 分隔符
	ErrMissingEquals = xerrors.New("seed: missing '=' separator")

	// ErrInvalidPort port 字段不是合法的 16 位无符号整数
	ErrInvalidPort = xerrors.New("seed: invalid port value")

	// ErrInvalidNode node 字段不是合法的 64 位无符号整数
	ErrInvalidNode = xerrors.New("seed: invalid node value")

	// ErrInvalidEpoch epoch 字段不是合法的 128 位无符号整数
	ErrInvalidEpoch = xerrors.New("seed: invalid epoch value")

	// ErrNetwork 协调者请求未能完成
	ErrNetwork = xerrors.New("seed: coordinator request failed")

	// ErrBadResponse 协调者响应不是期望的 JSON 结构
	ErrBadResponse = xerrors.New("seed: unexpected coordinator response")

	// ErrInvalidSyncEpoch 协调者返回的 epoch 无法解析
	ErrInvalidSyncEpoch = xerrors.New("seed: invalid sync epoch received")
)

// LineError 携带配置解析失败的行号与原始文本
//
// Err 指向上面的哨兵错误之一，可用 errors.Is 判定失败类别，
// 用 errors.As 取出行号和原始值。
type LineError struct {
	Line  int    // 1-based 行号
	Value string // 原始的字段文本，缺少分隔符时为空
	Err   error
}

func (e *LineError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v at line %d", e.Err, e.Line)
	}
	return fmt.Sprintf("%v %q at line %d", e.Err, e.Value, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// SyncError 携带无法联通的协调者地址
type SyncError struct {
	Host string
	Port uint16
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%v: %s:%d", e.Err, e.Host, e.Port)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
