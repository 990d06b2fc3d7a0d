package mount

import (
	"strings"

	"k8s.io/klog/v2"
)

// netUseNetworkMarker identifies SMB connections in "net use" output.
// The marker and the column layout are both locale dependent; output from a
// non-English Windows yields no records.
const netUseNetworkMarker = "Microsoft Windows Network"

// unixSMBMarkers identify SMB mounts in "mount" output
var unixSMBMarkers = []string{"type cifs", "type smbfs"}

// ParseMountList extracts SMB mounts from the listing output of platform.
// Parsing is lenient: lines that do not look like an SMB mount are skipped
// and never produce an error.
func ParseMountList(platform Platform, stdout string) []MountRecord {
	if platform.IsWindows() {
		return parseNetUseList(stdout)
	}
	return parseMountList(stdout)
}

// parseNetUseList parses "net use" output. The first field of a marked line
// is taken as the mountpoint and the third as the server.
//
// Example: Z:   OK   \\nas\media    Microsoft Windows Network
//
// The column positions are fixed. On hosts whose rows lead with a Status
// column the status word lands in Mountpoint. A marked line always has at
// least three fields since the marker is three words, so a bare marker line
// yields a record of "Microsoft" and "Network". Callers should treat Windows
// listings as best effort.
func parseNetUseList(stdout string) []MountRecord {
	var records []MountRecord

	for _, line := range strings.Split(stdout, "\n") {
		if !strings.Contains(line, netUseNetworkMarker) {
			continue
		}

		fields := strings.Fields(line)
		records = append(records, MountRecord{
			Server:     fields[2],
			Mountpoint: fields[0],
		})
	}

	klog.V(5).Infof("Parsed %d SMB connections from net use output", len(records))
	return records
}

// parseMountList parses "mount" output from Linux and macOS.
//
// Format: <source> on <target> type <fstype> (<options>)
// Example: //nas/media on /mnt/nas_media type cifs (rw,relatime,vers=3.1.1)
func parseMountList(stdout string) []MountRecord {
	var records []MountRecord

	for _, line := range strings.Split(stdout, "\n") {
		if !isSMBMountLine(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			klog.V(5).Infof("Skipping short mount line: %q", line)
			continue
		}

		records = append(records, MountRecord{
			Server:     fields[0],
			Mountpoint: fields[2],
		})
	}

	klog.V(5).Infof("Parsed %d SMB mounts from mount output", len(records))
	return records
}

func isSMBMountLine(line string) bool {
	for _, marker := range unixSMBMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
