package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Store layers the memory cache over the disk cache for downloaded bytes.
// Disk hits are promoted to memory; writes reach disk in the background.
type Store struct {
	l1 *MemoryCache[[]byte]
	l2 *DiskCache // nil when no disk path is configured

	config Config

	writes sync.WaitGroup

	cleanupStop chan struct{}
	cleanupWg   sync.WaitGroup

	mu    sync.Mutex
	stats StoreStats
}

// StoreStats aggregates hits across both levels.
type StoreStats struct {
	TotalHits   int64
	TotalMisses int64
	L1Hits      int64
	L2Hits      int64
	Promotions  int64
	CleanupRuns int64
	LastCleanup time.Time

	L1 Stats
	L2 Stats
}

// NewStore creates a store. The disk level lives under cfg.DiskPath on
// fsys and is skipped when the path is empty.
func NewStore(fsys afero.Fs, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	s := &Store{
		l1:          NewByteCache(cfg.MemoryCapacity),
		config:      cfg,
		cleanupStop: make(chan struct{}),
	}

	if cfg.DiskPath != "" {
		l2, err := NewDiskCache(fsys, cfg.DiskPath, cfg.DiskCapacity, cfg.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		s.l2 = l2
	}

	if cfg.CleanupInterval > 0 && cfg.TTL > 0 {
		s.startCleanupRoutine()
	}
	return s, nil
}

// Get checks memory first, then disk.
func (s *Store) Get(key string) ([]byte, bool) {
	if data, ok := s.l1.Get(key); ok {
		s.count(func(st *StoreStats) { st.L1Hits++; st.TotalHits++ })
		return data, true
	}

	if s.l2 != nil {
		if data, ok := s.l2.Get(key); ok {
			s.count(func(st *StoreStats) { st.L2Hits++; st.TotalHits++; st.Promotions++ })
			_ = s.l1.Put(key, data)
			log.Debug("cache promoted", "key", key, "bytes", len(data))
			return data, true
		}
	}

	s.count(func(st *StoreStats) { st.TotalMisses++ })
	return nil, false
}

// Put stores value in memory now and on disk in the background.
func (s *Store) Put(key string, value []byte) error {
	if err := s.l1.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("L1 cache error: %w", err)
	}

	if s.l2 == nil {
		return nil
	}
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.l2.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
			log.Warn("disk cache write failed", "key", key, "error", err)
		}
	}()
	return nil
}

// Delete removes key from both levels.
func (s *Store) Delete(key string) error {
	s.Flush()
	if err := s.l1.Delete(key); err != nil {
		return fmt.Errorf("L1 delete: %w", err)
	}
	if s.l2 != nil {
		if err := s.l2.Delete(key); err != nil {
			return fmt.Errorf("L2 delete: %w", err)
		}
	}
	return nil
}

// Clear empties both levels.
func (s *Store) Clear() error {
	s.Flush()
	var errs []error
	if err := s.l1.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("L1 clear: %w", err))
	}
	if s.l2 != nil {
		if err := s.l2.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("L2 clear: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Flush waits for background disk writes.
func (s *Store) Flush() {
	s.writes.Wait()
}

// Stats returns aggregated statistics.
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	st := s.stats
	s.mu.Unlock()

	st.L1 = s.l1.Stats()
	if s.l2 != nil {
		st.L2 = s.l2.Stats()
	}
	return st
}

// Close stops the cleanup routine, waits for writes and saves the disk
// index.
func (s *Store) Close() error {
	select {
	case <-s.cleanupStop:
	default:
		close(s.cleanupStop)
	}
	s.cleanupWg.Wait()
	s.Flush()

	if s.l2 == nil {
		return nil
	}
	if err := s.l2.Close(); err != nil {
		return fmt.Errorf("failed to close disk cache: %w", err)
	}
	return nil
}

func (s *Store) count(fn func(*StoreStats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}

func (s *Store) startCleanupRoutine() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	s.cleanupWg.Add(1)

	go func() {
		defer s.cleanupWg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-s.cleanupStop:
				return
			}
		}
	}()
}

// cleanup drops entries older than the TTL from both levels.
func (s *Store) cleanup() {
	s.count(func(st *StoreStats) { st.CleanupRuns++; st.LastCleanup = time.Now() })

	pruned := s.l1.Prune(s.config.TTL)
	removed := 0
	if s.l2 != nil {
		removed = s.l2.RemoveOlderThan(time.Now().Add(-s.config.TTL))
	}
	if pruned+removed > 0 {
		log.Debug("cache cleanup", "memory", pruned, "disk", removed)
	}
}
