package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/llm"
)

// FileSink writes each narration to <dir>/<uuid>.wav.
type FileSink struct {
	dir string

	mu   sync.Mutex
	last string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create narration dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Play(ctx context.Context, audio *llm.Audio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, uuid.NewString()+".wav")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create narration file: %w", err)
	}
	n, err := io.Copy(f, audio.Data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write narration file: %w", err)
	}

	s.mu.Lock()
	s.last = path
	s.mu.Unlock()

	log.Info().Str("path", path).Int64("bytes", n).Float64("duration_s", audio.Duration).Msg("Narration saved")
	return nil
}

// LastPath is the most recently written narration file, or "".
func (s *FileSink) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
