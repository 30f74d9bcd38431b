package store

import (
	"context"
	"fmt"
	"sync"

	"go_ledger/internal/ledger/models"
)

type memoryDoc struct {
	id     string
	fields map[string]any
}

type memorySubscriber struct {
	ctx context.Context
	fn  func([]models.Record)
}

// MemoryStore 内存版记录存储，供测试和本地试运行使用。
// 每次写入后向所有订阅方重新交付全量快照，与托管后端语义一致。
type MemoryStore struct {
	mu          sync.RWMutex
	docs        []memoryDoc // 保持插入顺序
	subscribers []memorySubscriber
	nextID      int
}

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Subscribe 立即交付当前快照，之后每次写入都会再次交付
func (s *MemoryStore) Subscribe(ctx context.Context, onSnapshot func([]models.Record)) error {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, memorySubscriber{ctx: ctx, fn: onSnapshot})
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	onSnapshot(snapshot)
	return nil
}

// Create 新建记录
func (s *MemoryStore) Create(ctx context.Context, fields map[string]any) error {
	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("mem-%d", s.nextID)
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.docs = append(s.docs, memoryDoc{id: id, fields: copied})
	s.mu.Unlock()

	s.broadcast()
	return nil
}

// Update 合并局部字段
func (s *MemoryStore) Update(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	found := false
	for i := range s.docs {
		if s.docs[i].id == id {
			for k, v := range fields {
				s.docs[i].fields[k] = v
			}
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("record %s not found", id)
	}
	s.broadcast()
	return nil
}

// Delete 删除记录
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i := range s.docs {
		if s.docs[i].id == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("record %s not found", id)
	}
	s.broadcast()
	return nil
}

// Close 无资源可释放
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) broadcast() {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	subscribers := make([]memorySubscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subscribers {
		if sub.ctx.Err() != nil {
			continue // 订阅已随会话结束撤销
		}
		sub.fn(snapshot)
	}
}

func (s *MemoryStore) snapshotLocked() []models.Record {
	records := make([]models.Record, 0, len(s.docs))
	for i := range s.docs {
		records = append(records, recordFromFields(s.docs[i].id, s.docs[i].fields))
	}
	return records
}

// recordFromFields 把字段表还原成扁平记录；类型不符的字段按零值处理
func recordFromFields(id string, fields map[string]any) models.Record {
	rec := models.Record{
		ID:          id,
		Type:        stringField(fields, "type"),
		UserID:      stringField(fields, "userId"),
		Date:        stringField(fields, "date"),
		Name:        stringField(fields, "name"),
		Unit:        stringField(fields, "unit"),
		Value:       floatField(fields, "value"),
		Amount:      floatField(fields, "amount"),
		Status:      stringField(fields, "status"),
		Description: stringField(fields, "description"),
		Taken:       floatField(fields, "taken"),
		Paid:        floatField(fields, "paid"),
		Pending:     floatField(fields, "pending"),
	}
	if payments, ok := fields["payments"].([]models.Payment); ok {
		rec.Payments = payments
	}
	return rec
}

func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

func floatField(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
