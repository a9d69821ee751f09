package flake

import "github.com/ceyewan/fractal/xerrors"

var (
	// ErrInvalidEpoch epoch 不是无符号 128 位整数
	ErrInvalidEpoch = xerrors.New("flake: invalid epoch")

	// ErrNodeIDOutOfRange 严格模式下 NodeID 超出 5 bit 范围
	ErrNodeIDOutOfRange = xerrors.New("flake: node id out of range")

	// ErrThreadIDOutOfRange 严格模式下 ThreadID 超出 5 bit 范围
	ErrThreadIDOutOfRange = xerrors.New("flake: thread id out of range")
)
