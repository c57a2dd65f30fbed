package render

import (
	"sync"
	"time"

	"github.com/spacehole-rogue/starwake/internal/game"
)

const maxToasts = 4

// Toast is a transient centre-screen message.
type Toast struct {
	Text string
	Left time.Duration
	FG   uint8
}

// Toasts is the on-screen Notifier. Messages age by Step so they freeze
// while the session is paused.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
}

// FloatingText queues msg for d.
func (t *Toasts) FloatingText(msg string, d time.Duration) {
	t.push(Toast{Text: msg, Left: d, FG: ColorYellow})
}

// AchievementUnlocked queues a banner for a.
func (t *Toasts) AchievementUnlocked(a *game.Achievement) {
	t.push(Toast{Text: "Achievement: " + a.Name, Left: 3 * time.Second, FG: ColorLightGreen})
}

func (t *Toasts) push(x Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, x)
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

// Step ages every toast by dt and drops the expired ones.
func (t *Toasts) Step(dt time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.items[:0]
	for _, x := range t.items {
		x.Left -= dt
		if x.Left > 0 {
			kept = append(kept, x)
		}
	}
	t.items = kept
}

// Active returns the live toasts, oldest first.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.items...)
}

var _ game.Notifier = (*Toasts)(nil)
