package gridrun

import (
	"context"
	"sync"

	"reframe/internal/extract"
	"reframe/internal/track"
	"reframe/internal/workflow"
)

// SyncExtractor serializes access to a shared extractor. Inference
// backends are not safe for concurrent use, so sweep workers sharing one
// loaded model must funnel through this wrapper.
type SyncExtractor struct {
	mu    sync.Mutex
	inner workflow.Extractor
}

// NewSyncExtractor wraps inner with a mutex.
func NewSyncExtractor(inner workflow.Extractor) *SyncExtractor {
	return &SyncExtractor{inner: inner}
}

// ExtractTrack delegates to the wrapped extractor under the lock.
func (s *SyncExtractor) ExtractTrack(ctx context.Context, videoPath string, opts extract.Options) (track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ExtractTrack(ctx, videoPath, opts)
}
