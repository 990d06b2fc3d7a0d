package e2e

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

var _ = Describe("Share lifecycle", func() {
	ctx := context.Background()

	DescribeTable("mount, list and unmount a share",
		func(platform mount.Platform, wantMountpoint func(h *host) string) {
			h := newHost(platform)
			server := shareFor(platform, "nas", "media")

			By("Mounting without a requested mountpoint")
			result, err := h.manager.Mount(ctx, mount.MountRequest{Server: server})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Mountpoint).To(Equal(wantMountpoint(h)))
			Expect(result.Message).To(Equal("Mounted " + server + " to " + result.Mountpoint))

			By("Listing the mounted share")
			Expect(h.listMounted()).To(ConsistOf(mount.MountRecord{
				Server:     server,
				Mountpoint: result.Mountpoint,
			}))

			By("Unmounting it again")
			msg, err := h.manager.Unmount(ctx, result.Mountpoint)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg).To(Equal("Unmounted " + result.Mountpoint))

			By("Listing nothing afterwards")
			records := h.listMounted()
			Expect(records).NotTo(BeNil())
			Expect(records).To(BeEmpty())
		},
		Entry("on Windows", mount.PlatformWindows, func(*host) string { return "Z:" }),
		Entry("on macOS", mount.PlatformMacOS, func(h *host) string { return filepath.Join(h.mountRoot, "nas_media") }),
		Entry("on Linux", mount.PlatformLinux, func(h *host) string { return filepath.Join(h.mountRoot, "nas_media") }),
	)

	It("creates the allocated directory on Unix hosts", func() {
		h := newHost(mount.PlatformLinux)

		result, err := h.manager.Mount(ctx, mount.MountRequest{Server: "//myserver/share"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Mountpoint).To(BeADirectory())
		Expect(filepath.Base(result.Mountpoint)).To(Equal("myserver_share"))
	})

	It("hands out drive letters from Z: downwards", func() {
		h := newHost(mount.PlatformWindows)

		first, err := h.manager.Mount(ctx, mount.MountRequest{Server: `\\nas\one`})
		Expect(err).NotTo(HaveOccurred())
		second, err := h.manager.Mount(ctx, mount.MountRequest{Server: `\\nas\two`})
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Mountpoint).To(Equal("Z:"))
		Expect(second.Mountpoint).To(Equal("Y:"))
		Expect(h.listMounted()).To(HaveLen(2))
	})

	It("uses a requested mountpoint unchanged", func() {
		h := newHost(mount.PlatformLinux)
		requested := filepath.Join(h.mountRoot, "custom", "place")

		result, err := h.manager.Mount(ctx, mount.MountRequest{
			Server:     "//nas/media",
			Mountpoint: requested,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Mountpoint).To(Equal(requested))
		Expect(requested).To(BeADirectory())
	})

	It("embeds credentials in the macOS address without logging the password", func() {
		h := newHost(mount.PlatformMacOS)

		_, err := h.manager.Mount(ctx, mount.MountRequest{
			Server:   "//nas/media",
			Username: "bob",
			Password: "hunter2",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(h.listMounted()).To(ConsistOf(HaveField("Server", "//bob@nas/media")))
		for _, rec := range h.exec.GetCommandHistory() {
			Expect(rec.Command).NotTo(ContainSubstring("hunter2"))
		}
	})

	It("re-queries the host on every listing", func() {
		h := newHost(mount.PlatformLinux)
		Expect(h.listMounted()).To(BeEmpty())

		h.exec.AddMount("//elsewhere/share", "/media/elsewhere")
		Expect(h.listMounted()).To(ConsistOf(mount.MountRecord{
			Server:     "//elsewhere/share",
			Mountpoint: "/media/elsewhere",
		}))
		Expect(h.scrapeMetrics()).To(ContainSubstring("smb_mounter_mounted_shares 1"))
	})
})
