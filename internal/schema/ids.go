package schema

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDSource выдаёт монотонные ULID для моделей, полей и пользовательских действий.
type IDSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewIDSource() *IDSource {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &IDSource{entropy: ulid.Monotonic(src, 0)}
}

func (s *IDSource) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
