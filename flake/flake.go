// Package flake 实现无协调的 64 位可排序分布式 ID 生成。
//
// ID 为 64 位整数，位结构（从高位到低位）：
//
//	[42 bit 毫秒时间戳][5 bit NodeID][5 bit ThreadID][12 bit 序列号]
//
// 同一部署内的所有节点共享一个 epoch（由协调者下发或本地配置），
// NodeID 区分节点，ThreadID 区分节点内的生成上下文，序列号区分
// 同一毫秒内的多次生成。生成过程不依赖任何跨节点协调。
package flake

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ceyewan/fractal/clog"
	"github.com/ceyewan/fractal/xerrors"
)

const (
	timestampShift = 22
	nodeShift      = 17
	threadShift    = 12

	nodeMask     = 0x1F
	threadMask   = 0x1F
	sequenceMask = 0xFFF

	// maxSequence 单个实例在一个毫秒内最多签发 maxSequence+1 个 ID
	maxSequence = 4095

	// rolloverPollInterval 序列号耗尽后等待时钟前进的轮询间隔
	rolloverPollInterval = 50 * time.Microsecond
)

// Generator 单个生成上下文的 ID 生成器
//
// 一个实例由一个调用方独占持有，内部的 sequence/lastTime 状态
// 没有加锁保护，多个 goroutine 并发调用同一实例会产生重复 ID。
// 标准用法是每个并发 worker 持有自己的实例（共享同一 Seed 派生）。
type Generator struct {
	epoch    *big.Int
	nodeID   uint64
	threadID uint64

	sequence uint64
	lastTime int64

	strict bool
	logger clog.Logger
}

// Option Generator 初始化选项
type Option func(*Generator)

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithStrictBounds 构造时拒绝超出 5 bit 范围的 NodeID/ThreadID
//
// 默认行为是按位掩码截断，32 和 0 会生成相同的节点位，
// 对部署拓扑要求严格的调用方可以启用该选项提前暴露配置错误。
func WithStrictBounds() Option {
	return func(g *Generator) {
		g.strict = true
	}
}

// New 创建 ID 生成器
//
// 参数:
//   - epoch: 部署共享的自定义纪元（毫秒，无符号 128 位），nil 视为 0
//   - nodeID: 节点 ID，仅低 5 bit 参与编码
//   - threadID: 生成上下文 ID，仅低 5 bit 参与编码
//   - opts: 可选参数 (Logger, StrictBounds)
//
// 使用示例:
//
//	gen, _ := flake.New(epoch, 3, 1)
//	id := gen.Generate()
func New(epoch *big.Int, nodeID, threadID uint64, opts ...Option) (*Generator, error) {
	g := &Generator{
		nodeID:   nodeID,
		threadID: threadID,
	}

	for _, opt := range opts {
		opt(g)
	}

	if epoch == nil {
		epoch = new(big.Int)
	}
	if epoch.Sign() < 0 || epoch.BitLen() > 128 {
		return nil, xerrors.WithCode(ErrInvalidEpoch, "epoch_out_of_range")
	}
	g.epoch = new(big.Int).Set(epoch)

	if g.strict {
		if nodeID > nodeMask {
			return nil, xerrors.WithCode(ErrNodeIDOutOfRange, "node_id_exceeds_5_bits")
		}
		if threadID > threadMask {
			return nil, xerrors.WithCode(ErrThreadIDOutOfRange, "thread_id_exceeds_5_bits")
		}
	}

	// 确保 logger 不为空，避免后续调用 panic
	if g.logger == nil {
		g.logger = clog.Discard()
	}

	g.logger.Info("flake generator created",
		clog.String("epoch", g.epoch.String()),
		clog.Uint64("node_id", nodeID&nodeMask),
		clog.Uint64("thread_id", threadID&threadMask),
	)

	return g, nil
}

// Epoch 返回生成器绑定的部署纪元（副本）
func (g *Generator) Epoch() *big.Int {
	return new(big.Int).Set(g.epoch)
}

// NodeID 返回掩码后的节点 ID
func (g *Generator) NodeID() uint64 {
	return g.nodeID & nodeMask
}

// ThreadID 返回掩码后的生成上下文 ID
func (g *Generator) ThreadID() uint64 {
	return g.threadID & threadMask
}

// Generate 生成一个 64 位 ID
//
// 同一毫秒内最多签发 4096 个 ID，序列号耗尽后会阻塞等待时钟进入
// 下一毫秒，不存在序列号溢出复用。返回的 ID 在单个实例内严格递增。
//
// 系统时钟相对上次生成回拨属于不可恢复故障，会直接 panic：
// 带着回退的时间戳继续生成会悄悄破坏 ID 的有序性。
func (g *Generator) Generate() uint64 {
	g.roll()

	now := nowMillis()
	if now < g.lastTime {
		panic(fmt.Sprintf("flake: system clock moved backwards (last %d, now %d)", g.lastTime, now))
	}
	g.lastTime = now

	id := uint64(now) << timestampShift
	id |= (g.nodeID & nodeMask) << nodeShift
	id |= (g.threadID & threadMask) << threadShift
	id |= g.sequence & sequenceMask

	g.sequence++

	return id
}

// roll 维护序列号与当前毫秒的关系（内部方法）
//
// 序列号耗尽时以短睡眠轮询等待时钟越过 lastTime；
// 时钟已进入新毫秒时重置序列号，从 0 开始计数。
func (g *Generator) roll() {
	if g.sequence > maxSequence {
		for nowMillis() <= g.lastTime {
			time.Sleep(rolloverPollInterval)
		}
		g.sequence = 0
		return
	}

	if nowMillis() > g.lastTime {
		g.sequence = 0
	}
}

// nowMillis 读取 Unix 毫秒时钟
//
// 读到 Unix 纪元之前的时间说明系统时钟不可用，直接 panic。
func nowMillis() int64 {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		panic("flake: system clock reads before the unix epoch")
	}
	return ms
}
