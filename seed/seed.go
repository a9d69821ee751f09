// Package seed 为 flake 生成器解析运行种子。
//
// 种子由本地 key=value 配置文件提供，epoch 也可以改为通过一次
// HTTP 请求从协调者获取。解析完成的种子通过 Fracture 为每个
// 生成上下文派生独立的 flake.Generator，此后种子不再被依赖。
//
// 配置文件格式（UTF-8，每行一个键值对，无注释）：
//
//	host=coordinator.internal
//	port=5000
//	node=3
//	epoch=1700000000000
//
// 后出现的重复键覆盖先出现的，未识别的键被忽略，
// 缺失的键保持零值（调用方需要自行判断零值是否代表未设置）。
package seed

import (
	"bufio"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ceyewan/fractal/flake"
	"github.com/ceyewan/fractal/xerrors"
)

// Seed 一次部署接入所需的完整种子
//
// SyncHost/SyncPort 指向协调者，NodeID 标识本节点，
// Epoch 为部署共享的毫秒纪元（无符号 128 位）。
type Seed struct {
	SyncHost string
	SyncPort uint16

	NodeID uint64
	Epoch  *big.Int
}

// New 创建一个仅指定协调者地址的空种子
func New(host string, port uint16) *Seed {
	return &Seed{
		SyncHost: host,
		SyncPort: port,
		Epoch:    new(big.Int),
	}
}

// Parse 从 r 解析 key=value 配置
//
// 每行去除首尾空白后按第一个 '=' 拆分，键和值各自再去除空白。
// 没有 '=' 的行（包括空行）返回 ErrMissingEquals，
// port/node/epoch 解析失败分别返回对应的哨兵错误，
// 全部通过 LineError 携带行号与原始文本。
func Parse(r io.Reader) (*Seed, error) {
	seed := New("", 0)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		key, value, found := strings.Cut(text, "=")
		if !found {
			return nil, &LineError{Line: line, Err: ErrMissingEquals}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "host":
			seed.SyncHost = value
		case "port":
			port, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return nil, &LineError{Line: line, Value: value, Err: ErrInvalidPort}
			}
			seed.SyncPort = uint16(port)
		case "node":
			node, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return nil, &LineError{Line: line, Value: value, Err: ErrInvalidNode}
			}
			seed.NodeID = node
		case "epoch":
			epoch, ok := parseEpoch(value)
			if !ok {
				return nil, &LineError{Line: line, Value: value, Err: ErrInvalidEpoch}
			}
			seed.Epoch = epoch
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Wrap(err, "seed: read config")
	}

	return seed, nil
}

// Load 读取并解析配置文件
func Load(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Wrapf(err, "seed: open config %s", path)
	}
	defer f.Close()

	return Parse(f)
}

// Fracture 将种子与调用方选择的生成上下文 ID 绑定为新的生成器
//
// 每个并发 worker 都应通过该方法派生自己的实例，
// 返回的生成器不再依赖种子本身。
func (s *Seed) Fracture(threadID uint64, opts ...flake.Option) (*flake.Generator, error) {
	return flake.New(s.Epoch, s.NodeID, threadID, opts...)
}

// parseEpoch 解析无符号 128 位十进制毫秒纪元
func parseEpoch(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	epoch, ok := new(big.Int).SetString(s, 10)
	if !ok || epoch.BitLen() > 128 {
		return nil, false
	}
	return epoch, true
}
