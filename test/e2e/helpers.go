package e2e

import (
	"context"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/observability"
	"git.srvlab.io/whiskey/smb-mounter/test/mock"
)

// Suite-level variables
var testRunID string

// host is one simulated machine: a Manager wired to a MockExecutor
type host struct {
	platform  mount.Platform
	exec      *mock.MockExecutor
	manager   *mount.Manager
	metrics   *observability.Metrics
	mountRoot string
}

// newHost builds a Manager for platform whose native commands run against a
// simulated host. Drive letters count as bound when the simulated host has
// them mapped; Unix mountpoints are created under a per-test temp root.
func newHost(platform mount.Platform) *host {
	mountRoot, err := os.MkdirTemp("", testRunID+"-")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, mountRoot)

	exec := mock.NewMockExecutorWithConfig(platform, mock.MockHostConfig{
		ErrorMode:     "none",
		EnableHistory: true,
		HistoryDepth:  100,
	})

	driver, err := mount.NewDriver(platform)
	Expect(err).NotTo(HaveOccurred())

	allocator := mount.NewAllocator(platform, mountRoot)
	allocator.SetDriveProbe(func(drive string) bool {
		_, mapped := exec.MountedServer(drive)
		return mapped
	})

	metrics := observability.NewMetrics()
	manager := mount.NewManager(allocator, mount.NewMounter(driver, exec))
	manager.SetMetrics(metrics)

	return &host{
		platform:  platform,
		exec:      exec,
		manager:   manager,
		metrics:   metrics,
		mountRoot: mountRoot,
	}
}

// shareFor returns a server address in the platform's native form
func shareFor(platform mount.Platform, hostName, share string) string {
	if platform.IsWindows() {
		return `\\` + hostName + `\` + share
	}
	return "//" + hostName + "/" + share
}

// listMounted lists shares and fails the test on error
func (h *host) listMounted() []mount.MountRecord {
	records, err := h.manager.ListMounted(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return records
}

// scrapeMetrics returns the text exposition of the host's metrics
func (h *host) scrapeMetrics() string {
	rec := httptest.NewRecorder()
	h.metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}
