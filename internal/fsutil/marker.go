package fsutil

import "bytes"

// ManagedMarkerPrefix is the prefix for all quill ownership markers.
const ManagedMarkerPrefix = "<!-- quill:"

// IsManagedFile checks if data contains a quill managed marker.
func IsManagedFile(data []byte) bool {
	return bytes.Contains(data, []byte(ManagedMarkerPrefix))
}
