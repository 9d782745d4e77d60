package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/agentflow/logging"
)

// ManagerOptions configures a Manager instance.
type ManagerOptions struct {
	// ShortTermCapacity bounds working memory (default DefaultShortTermCapacity).
	ShortTermCapacity int
	// PromotionThreshold is the importance at which remembered content is also
	// stored long-term (default DefaultPromotionThreshold).
	PromotionThreshold float64
	// ContextItems is how many recent items GetContext renders (default 10).
	ContextItems int
	// Logger receives memory telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Manager combines bounded short-term context with durable long-term storage
// behind the two-method surface agent loops consume (Remember / GetContext)
// plus Recall and file persistence.
type Manager struct {
	shortTerm    *ShortTerm
	longTerm     *LongTerm
	threshold    float64
	contextItems int
	logger       logging.Logger
}

// NewManager creates a Manager with in-memory stores.
func NewManager(optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		ShortTermCapacity:  DefaultShortTermCapacity,
		PromotionThreshold: DefaultPromotionThreshold,
		ContextItems:       10,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ContextItems <= 0 {
		opts.ContextItems = 10
	}

	return &Manager{
		shortTerm:    NewShortTerm(opts.ShortTermCapacity),
		longTerm:     NewLongTerm(),
		threshold:    opts.PromotionThreshold,
		contextItems: opts.ContextItems,
		logger:       opts.Logger,
	}
}

// ShortTerm exposes the working memory store.
func (m *Manager) ShortTerm() *ShortTerm { return m.shortTerm }

// LongTerm exposes the durable store.
func (m *Manager) LongTerm() *LongTerm { return m.longTerm }

// Remember stores content in short-term memory and, when importance reaches
// the promotion threshold, also in long-term storage.
func (m *Manager) Remember(content, category string, importance float64) {
	item := NewItem(content, category, importance)
	m.shortTerm.Add(item)

	if importance >= m.threshold {
		stored := m.longTerm.Add(item)
		m.logger.Debug("memory.remember.promoted", "category", item.Category, "stored", stored)
	}
}

// GetContext renders the recent short-term items as a prompt block.
func (m *Manager) GetContext() string {
	return m.shortTerm.ContextString(m.contextItems)
}

// Recall searches both stores, deduplicates by content and returns up to limit
// results ordered most-important-first.
func (m *Manager) Recall(query string, limit int) []Item {
	merged := append(m.shortTerm.Search(query), m.longTerm.Search(query)...)

	seen := make(map[string]struct{}, len(merged))
	unique := merged[:0]
	for _, item := range merged {
		if _, dup := seen[item.Content]; dup {
			continue
		}
		seen[item.Content] = struct{}{}
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Importance > unique[j].Importance })

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// Reset clears short-term memory only; long-term storage survives resets.
func (m *Manager) Reset() {
	m.shortTerm.Clear()
}

// snapshotFile is the on-disk shape persisted by Save/Load.
type snapshotFile struct {
	ShortTerm []Item            `json:"short_term"`
	Order     []string          `json:"category_order"`
	LongTerm  map[string][]Item `json:"long_term"`
}

// Save writes the full memory state (both stores) to path as indented JSON.
// The round-trip through Load is lossless for content, category, importance
// and timestamp.
func (m *Manager) Save(path string) error {
	order, categories := m.longTerm.snapshot()
	snap := snapshotFile{
		ShortTerm: m.shortTerm.snapshot(),
		Order:     order,
		LongTerm:  categories,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create memory directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write memory snapshot: %w", err)
	}

	m.logger.Info("memory.saved", "path", path, "short_term", len(snap.ShortTerm), "long_term", m.longTerm.Len())
	return nil
}

// Load replaces the current memory state with the snapshot at path.
func (m *Manager) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read memory snapshot: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode memory snapshot: %w", err)
	}

	m.shortTerm.restore(snap.ShortTerm)
	m.longTerm.restore(snap.Order, snap.LongTerm)

	m.logger.Info("memory.loaded", "path", path, "short_term", len(snap.ShortTerm), "long_term", m.longTerm.Len())
	return nil
}
