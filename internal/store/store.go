// 包 store：利用统计（进程内计数 + 可选 Redis 镜像）
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Totals：累计与当日计数
type Totals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

// 文档注释：统计存储
// 背景：计划数据不落盘（持久化是显式非目标），统计只需进程内原子计数；
//       Redis 存在时做镜像以便多实例汇总，但进程内值始终是本实例的事实来源。
// 约束：当日计数按本地日期翻转；Redis 写失败只记日志不影响计数。
type Store struct {
	mu    sync.Mutex
	total int64
	today int64
	day   string
	rc    *redis.Client
	log   *slog.Logger
}

func New(rc *redis.Client, l *slog.Logger) *Store {
	return &Store{day: time.Now().Format("2006-01-02"), rc: rc, log: l}
}

// Incr：记一次优化请求
func (s *Store) Incr(ctx context.Context) {
	day := time.Now().Format("2006-01-02")
	s.mu.Lock()
	if day != s.day {
		s.day = day
		s.today = 0
	}
	s.total++
	s.today++
	s.mu.Unlock()
	if s.rc != nil {
		pipe := s.rc.Pipeline()
		pipe.Incr(ctx, "stats:optimize:total")
		pipe.Incr(ctx, "stats:optimize:"+day)
		pipe.Expire(ctx, "stats:optimize:"+day, 48*time.Hour)
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Debug("stats_mirror_error", "err", err)
		}
	}
}

// GetTotals：读取计数（必要时先翻转当日）
func (s *Store) GetTotals() Totals {
	day := time.Now().Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.day {
		s.day = day
		s.today = 0
	}
	return Totals{Total: s.total, Today: s.today}
}
