package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default capacity and promotion settings for a Manager.
const (
	// DefaultShortTermCapacity bounds the working memory; the least important
	// item is evicted once the capacity is exceeded.
	DefaultShortTermCapacity = 20
	// DefaultPromotionThreshold is the importance at or above which remembered
	// content is also written to long-term storage.
	DefaultPromotionThreshold = 0.7
	// DefaultCategory is used when no category is given.
	DefaultCategory = "facts"
)

// Item is a single remembered entry. Importance ranges from 0.0 to 1.0.
type Item struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Importance float64   `json:"importance"`
	Timestamp  time.Time `json:"timestamp"`
	Tags       []string  `json:"tags,omitempty"`
}

// NewItem builds an Item with a generated id and current timestamp.
func NewItem(content, category string, importance float64, tags ...string) Item {
	if category == "" {
		category = DefaultCategory
	}
	return Item{
		ID:         uuid.NewString(),
		Content:    content,
		Category:   category,
		Importance: importance,
		Timestamp:  time.Now(),
		Tags:       tags,
	}
}

// ShortTerm keeps recent context in insertion order with a bounded capacity.
// When full, the least important item is evicted to make room.
//
// Concurrency: protected by RWMutex.
type ShortTerm struct {
	mu       sync.RWMutex
	capacity int
	items    []Item
}

// NewShortTerm creates a ShortTerm store. A capacity <= 0 falls back to
// DefaultShortTermCapacity.
func NewShortTerm(capacity int) *ShortTerm {
	if capacity <= 0 {
		capacity = DefaultShortTermCapacity
	}
	return &ShortTerm{capacity: capacity}
}

// Add appends an item, evicting the least important entry on overflow.
func (s *ShortTerm) Add(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)

	if len(s.items) > s.capacity {
		evict := 0
		for i, it := range s.items {
			if it.Importance < s.items[evict].Importance {
				evict = i
			}
		}
		s.items = append(s.items[:evict], s.items[evict+1:]...)
	}
}

// Recent returns up to count most recently added items, oldest first.
func (s *ShortTerm) Recent(count int) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count > len(s.items) {
		count = len(s.items)
	}
	out := make([]Item, count)
	copy(out, s.items[len(s.items)-count:])
	return out
}

// Search returns items whose content contains the keyword (case-insensitive).
func (s *ShortTerm) Search(keyword string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var out []Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Content), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Len reports the number of stored items.
func (s *ShortTerm) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all items.
func (s *ShortTerm) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// ContextString renders the most recent items as a prompt block.
func (s *ShortTerm) ContextString(maxItems int) string {
	recent := s.Recent(maxItems)
	if len(recent) == 0 {
		return "No previous context."
	}

	lines := []string{"Previous context:"}
	for _, item := range recent {
		lines = append(lines, "  ["+item.Category+"] "+item.Content)
	}
	return strings.Join(lines, "\n")
}

func (s *ShortTerm) snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ShortTerm) restore(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]Item(nil), items...)
}

// LongTerm stores durable items grouped by category. Exact duplicate content
// within a category is suppressed; near-duplicate detection is not attempted.
//
// Concurrency: protected by RWMutex.
type LongTerm struct {
	mu         sync.RWMutex
	order      []string
	categories map[string][]Item
}

// NewLongTerm creates an empty LongTerm store.
func NewLongTerm() *LongTerm {
	return &LongTerm{categories: make(map[string][]Item)}
}

// Add stores an item in its category bucket unless identical content is
// already present there. Reports whether the item was stored.
func (l *LongTerm) Add(item Item) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	category := item.Category
	if category == "" {
		category = DefaultCategory
		item.Category = category
	}

	for _, existing := range l.categories[category] {
		if existing.Content == item.Content {
			return false
		}
	}

	if _, ok := l.categories[category]; !ok {
		l.order = append(l.order, category)
	}
	l.categories[category] = append(l.categories[category], item)
	return true
}

// Category returns all items stored under the named category, oldest first.
func (l *LongTerm) Category(name string) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Item(nil), l.categories[name]...)
}

// Search returns items across all categories whose content contains the
// keyword (case-insensitive), in category registration order.
func (l *LongTerm) Search(keyword string) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var out []Item
	for _, category := range l.order {
		for _, item := range l.categories[category] {
			if strings.Contains(strings.ToLower(item.Content), needle) {
				out = append(out, item)
			}
		}
	}
	return out
}

// Important returns items at or above the importance floor, most important first.
func (l *LongTerm) Important(min float64) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Item
	for _, category := range l.order {
		for _, item := range l.categories[category] {
			if item.Importance >= min {
				out = append(out, item)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// Len reports the total number of stored items across categories.
func (l *LongTerm) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, items := range l.categories {
		n += len(items)
	}
	return n
}

// ClearCategory removes all items in the named category.
func (l *LongTerm) ClearCategory(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.categories, name)
	for i, c := range l.order {
		if c == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *LongTerm) snapshot() (order []string, categories map[string][]Item) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order = append([]string(nil), l.order...)
	categories = make(map[string][]Item, len(l.categories))
	for name, items := range l.categories {
		categories[name] = append([]Item(nil), items...)
	}
	return order, categories
}

func (l *LongTerm) restore(order []string, categories map[string][]Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.order = append([]string(nil), order...)
	l.categories = make(map[string][]Item, len(categories))
	for name, items := range categories {
		l.categories[name] = append([]Item(nil), items...)
	}
}
