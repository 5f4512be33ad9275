package sync

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/chatsync/internal/chatsync/push"
)

// Sender 投递一页转换好的记录，失败策略由实现方负责
type Sender interface {
	Send(ctx context.Context, p push.Page)
}

// stage 一个实体类型的同步子管道，按页提取原始行并转换成上报记录。
// 五个实体类型共用同一个管道原语，只有三个函数不同。
type stage[R, T any] struct {
	kind     string
	pageSize int
	count    func(ctx context.Context) (int, error)
	fetch    func(ctx context.Context, limit, offset int) ([]R, error)
	export   func(ctx context.Context, rows []R) ([]T, error)
}

// run 通用分页管道。启动时查询一次总数，之后不再刷新；offset 严格
// 递增直到 offset >= total。每页: 提取 → 转换 → 投递。提取/转换失败
// 是致命错误，终止整个同步；投递失败由 Sender 自行消化。
func run[R, T any](ctx context.Context, s stage[R, T], sender Sender) error {
	total, err := s.count(ctx)
	if err != nil {
		return err
	}

	pages := (total + s.pageSize - 1) / s.pageSize
	log.Info().Str("kind", s.kind).Int("total", total).Int("pages", pages).Msg("stage start")
	if total == 0 {
		return nil
	}

	page, sent := 0, 0
	for offset := 0; offset < total; offset += s.pageSize {
		rows, err := s.fetch(ctx, s.pageSize, offset)
		if err != nil {
			return err
		}
		records, err := s.export(ctx, rows)
		if err != nil {
			return err
		}

		page++
		sent += len(rows)
		sender.Send(ctx, push.Page{
			Kind:  s.kind,
			Page:  page,
			Pages: pages,
			Sent:  sent,
			Total: total,
			Count: len(records),
			List:  records,
		})
	}

	log.Info().Str("kind", s.kind).Int("pages", pages).Msg("stage done")
	return nil
}
