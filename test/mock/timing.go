package mock

import (
	"math/rand"
	"time"

	"k8s.io/klog/v2"
)

// TimingSimulator adds realistic delays to simulated native commands
type TimingSimulator struct {
	enabled      bool
	mountDelay   time.Duration
	unmountDelay time.Duration
	listDelay    time.Duration
	rng          *rand.Rand
}

// NewTimingSimulator creates a new timing simulator from configuration
func NewTimingSimulator(config MockHostConfig) *TimingSimulator {
	return &TimingSimulator{
		enabled:      config.RealisticTiming,
		mountDelay:   time.Duration(config.MountDelayMs) * time.Millisecond,
		unmountDelay: time.Duration(config.UnmountDelayMs) * time.Millisecond,
		listDelay:    time.Duration(config.ListDelayMs) * time.Millisecond,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SimulateCommand sleeps for the configured delay of opType (mount, unmount
// or list) with up to 25% jitter
func (t *TimingSimulator) SimulateCommand(opType string) {
	if !t.enabled {
		return
	}

	var delay time.Duration
	switch opType {
	case "mount":
		delay = t.mountDelay
	case "unmount":
		delay = t.unmountDelay
	case "list":
		delay = t.listDelay
	default:
		return
	}

	if delay <= 0 {
		return
	}

	if jitter := int64(delay / 4); jitter > 0 {
		delay += time.Duration(t.rng.Int63n(jitter))
	}

	klog.V(4).Infof("Mock host timing: %s command simulation %dms", opType, delay.Milliseconds())
	time.Sleep(delay)
}
