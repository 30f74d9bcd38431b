package store

import (
	"context"
	"fmt"

	"go_ledger/internal/ledger/models"
)

// Op 写命令的类型
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

// Command 对记录存储的一次写操作。编辑器每次成功提交恰好产生一条命令。
type Command struct {
	Op     Op
	ID     string         // OpUpdate / OpDelete 的目标文档
	Fields map[string]any // OpCreate 的完整字段 / OpUpdate 的局部字段
}

// RecordStore is the document backend the ledger delegates persistence to.
// Subscribe delivers the entire current collection on every change, with no
// delta semantics; writes are fire-and-forget and reflected only through the
// next snapshot.
type RecordStore interface {
	Subscribe(ctx context.Context, onSnapshot func([]models.Record)) error
	Create(ctx context.Context, fields map[string]any) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Apply 将命令分发到对应的存储操作
func Apply(ctx context.Context, s RecordStore, cmd Command) error {
	switch cmd.Op {
	case OpCreate:
		return s.Create(ctx, cmd.Fields)
	case OpUpdate:
		return s.Update(ctx, cmd.ID, cmd.Fields)
	case OpDelete:
		return s.Delete(ctx, cmd.ID)
	default:
		return fmt.Errorf("unknown store op: %d", cmd.Op)
	}
}
