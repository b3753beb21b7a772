package netmon

import (
	"context"
	"fieldsync/internal/config"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Monitor derives an online/offline signal by probing a URL on a fixed
// interval. The first probe runs immediately so Online() is meaningful soon
// after construction.
type Monitor struct {
	probeURL      string
	probeInterval time.Duration
	client        *http.Client
	logger        *slog.Logger

	mu          sync.Mutex
	online      bool
	transitions chan bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor starts probing and returns a Monitor that implements
// port.NetworkMonitor
func NewMonitor(cfg config.NetmonConfig, logger *slog.Logger) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Monitor{
		probeURL:      cfg.ProbeURL,
		probeInterval: cfg.ProbeInterval,
		client:        &http.Client{Timeout: cfg.ProbeTimeout},
		logger:        logger,
		online:        true,
		transitions:   make(chan bool, 8),
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	go m.run(ctx)
	return m
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	m.probe(ctx)

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	online := m.checkOnce(ctx)

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	m.logger.Info("connectivity changed", "online", online)
	select {
	case m.transitions <- online:
	default:
		// A stalled consumer only loses intermediate flaps; the latest
		// state is always available via Online().
	}
}

func (m *Monitor) checkOnce(ctx context.Context) bool {
	if m.probeURL == "" {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Online reports the last probed connectivity state
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Transitions emits the new state on each connectivity change
func (m *Monitor) Transitions() <-chan bool {
	return m.transitions
}

// Close stops probing
func (m *Monitor) Close() error {
	m.cancel()
	<-m.done
	return nil
}
