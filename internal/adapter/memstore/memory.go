package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"swissvote/internal/domain"
	"swissvote/internal/port"
)

var _ port.MetadataStore = (*MemoryMetadataStore)(nil)

// MemoryMetadataStore is an in-memory port.MetadataStore used in tests
// and local experiments.
type MemoryMetadataStore struct {
	mu          sync.RWMutex
	initiatives map[string]domain.Initiative
	queryLogs   []domain.QueryLogEntry

	// FailLookups makes every read return an error, simulating an
	// unreachable metadata store.
	FailLookups bool
}

func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{
		initiatives: make(map[string]domain.Initiative),
	}
}

func (s *MemoryMetadataStore) PutInitiative(_ context.Context, ini domain.Initiative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initiatives[ini.VoteID] = ini
	return nil
}

func (s *MemoryMetadataStore) GetInitiative(_ context.Context, voteID string) (domain.Initiative, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLookups {
		return domain.Initiative{}, false, fmt.Errorf("metadata store unavailable")
	}
	ini, ok := s.initiatives[voteID]
	return ini, ok, nil
}

func (s *MemoryMetadataStore) ListInitiatives(_ context.Context) ([]domain.Initiative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLookups {
		return nil, fmt.Errorf("metadata store unavailable")
	}
	list := make([]domain.Initiative, 0, len(s.initiatives))
	for _, ini := range s.initiatives {
		list = append(list, ini)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].VoteID < list[j].VoteID })
	return list, nil
}

func (s *MemoryMetadataStore) SearchInitiatives(_ context.Context, keyword string, limit int) ([]domain.Initiative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLookups {
		return nil, fmt.Errorf("metadata store unavailable")
	}

	var matches []domain.Initiative
	for _, ini := range s.initiatives {
		if containsFold(ini.OfficialTitle, keyword) ||
			containsFold(ini.Keyword, keyword) ||
			containsFold(ini.PolicyArea, keyword) {
			matches = append(matches, ini)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].VoteID < matches[j].VoteID })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *MemoryMetadataStore) LogQuery(_ context.Context, entry domain.QueryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryLogs = append(s.queryLogs, entry)
	return nil
}

// QueryLogs returns a copy of the recorded analytics entries.
func (s *MemoryMetadataStore) QueryLogs() []domain.QueryLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]domain.QueryLogEntry, len(s.queryLogs))
	copy(logs, s.queryLogs)
	return logs
}

func (s *MemoryMetadataStore) Close() error {
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
