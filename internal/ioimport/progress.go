package ioimport

import (
	"github.com/cheggaaa/pb/v3"
)

// newBytesBar creates a byte-based progress bar with consistent
// settings for streaming stages.
func newBytesBar(total int64, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start64(total)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
