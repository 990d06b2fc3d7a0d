package e2e

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
	"git.srvlab.io/whiskey/smb-mounter/test/mock"
)

var _ = Describe("Failure propagation", func() {
	ctx := context.Background()

	DescribeTable("native stderr reaches the caller verbatim",
		func(platform mount.Platform, wantStderr string) {
			h := newHost(platform)
			h.exec.SetErrorMode(mock.ErrorModePermissionDenied)

			_, err := h.manager.Mount(ctx, mount.MountRequest{
				Server:   shareFor(platform, "nas", "private"),
				Username: "bob",
				Password: "wrong",
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal(wantStderr))
			Expect(errors.Is(err, utils.ErrMountFailed)).To(BeTrue())

			var cmdErr *mount.CommandFailedError
			Expect(errors.As(err, &cmdErr)).To(BeTrue())
			Expect(cmdErr.Command).NotTo(ContainSubstring("wrong"))

			By("Running the native command exactly once")
			Expect(h.exec.GetCommandHistory()).To(HaveLen(1))
			Expect(h.exec.MountCount()).To(BeZero())
		},
		Entry("on Windows", mount.PlatformWindows, mock.PermissionDeniedWindows),
		Entry("on macOS", mount.PlatformMacOS, mock.PermissionDeniedMacOS),
		Entry("on Linux", mount.PlatformLinux, "mount error(13): Permission denied"),
	)

	It("recovers once the failure clears", func() {
		h := newHost(mount.PlatformLinux)
		h.exec.SetErrorMode(mock.ErrorModeHostUnreachable)

		_, err := h.manager.Mount(ctx, mount.MountRequest{Server: "//nas/media"})
		Expect(err).To(MatchError(ContainSubstring("could not connect")))

		h.exec.SetErrorMode(mock.ErrorModeNone)
		_, err = h.manager.Mount(ctx, mount.MountRequest{Server: "//nas/media"})
		Expect(err).NotTo(HaveOccurred())

		metrics := h.scrapeMetrics()
		Expect(metrics).To(ContainSubstring(`smb_mounter_share_operations_total{operation="mount",platform="linux",status="failure"} 1`))
		Expect(metrics).To(ContainSubstring(`smb_mounter_share_operations_total{operation="mount",platform="linux",status="success"} 1`))
	})

	It("reports a tool that cannot be launched", func() {
		h := newHost(mount.PlatformMacOS)
		h.exec.SetErrorMode(mock.ErrorModeSpawnFail)

		_, err := h.manager.ListMounted(ctx)
		Expect(err).To(MatchError(utils.ErrProcessSpawn))

		var spawnErr *mount.ProcessSpawnError
		Expect(errors.As(err, &spawnErr)).To(BeTrue())
		Expect(spawnErr.Command).To(Equal("mount"))
	})

	It("reports unmounting something that is not mounted", func() {
		h := newHost(mount.PlatformWindows)

		_, err := h.manager.Unmount(ctx, "Q:")
		Expect(err).To(MatchError(utils.ErrUnmountFailed))
		Expect(err.Error()).To(ContainSubstring("The network connection could not be found."))
	})

	It("runs out of drive letters", func() {
		h := newHost(mount.PlatformWindows)
		for letter := 'E'; letter <= 'Z'; letter++ {
			h.exec.AddMount(`\\nas\busy`, string(letter)+":")
		}

		_, err := h.manager.Mount(ctx, mount.MountRequest{Server: `\\nas\media`})
		Expect(err).To(MatchError(mount.ErrNoDriveLetterAvailable))
		Expect(errors.Is(err, utils.ErrAllocationFailed)).To(BeTrue())
		Expect(h.exec.GetCommandHistory()).To(BeEmpty())
	})

	It("rejects an empty server before running anything", func() {
		h := newHost(mount.PlatformLinux)

		_, err := h.manager.Mount(ctx, mount.MountRequest{Server: ""})
		Expect(err).To(MatchError(utils.ErrInvalidParameter))
		Expect(h.exec.GetCommandHistory()).To(BeEmpty())
	})

	It("rejects option injection through Linux credentials", func() {
		h := newHost(mount.PlatformLinux)

		_, err := h.manager.Mount(ctx, mount.MountRequest{
			Server:   "//nas/media",
			Username: "bob,uid=0",
		})
		Expect(err).To(MatchError(utils.ErrInvalidParameter))
		Expect(h.exec.GetCommandHistory()).To(BeEmpty())
	})
})
