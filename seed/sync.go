package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ceyewan/fractal/xerrors"
)

// Sync 从协调者获取部署共享的 epoch 并写回种子
//
// 对 http://{host}:{port}/sync 发起一次 GET 请求，期望响应体为
//
//	{"epoch": "<十进制毫秒数>"}
//
// 三类失败相互独立：请求未完成（ErrNetwork，SyncError 携带地址）、
// 响应不是期望的 JSON 结构（ErrBadResponse）、epoch 字段不是
// 无符号 128 位十进制整数（ErrInvalidSyncEpoch）。
// 不做重试，需要退避策略的调用方自行包装。
func (s *Seed) Sync(ctx context.Context) error {
	url := fmt.Sprintf("http://%s:%d/sync", s.SyncHost, s.SyncPort)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &SyncError{Host: s.SyncHost, Port: s.SyncPort, Err: ErrNetwork}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return &SyncError{Host: s.SyncHost, Port: s.SyncPort, Err: ErrNetwork}
	}
	defer resp.Body.Close()

	var body struct {
		Epoch *string `json:"epoch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return xerrors.Wrapf(ErrBadResponse, "decode: %v", err)
	}
	if body.Epoch == nil {
		return xerrors.WithCode(ErrBadResponse, "epoch_field_missing")
	}

	epoch, ok := parseEpoch(*body.Epoch)
	if !ok {
		return xerrors.Wrapf(ErrInvalidSyncEpoch, "value %q", *body.Epoch)
	}
	s.Epoch = epoch

	return nil
}
