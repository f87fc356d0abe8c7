package media

import "fmt"

// Target delivery format: 9:16 vertical at 1080x1920.
const (
	TargetWidth  = 1080
	TargetHeight = 1920
)

// CropGeometry describes the centered crop that corrects the source to a
// 9:16 aspect ratio before scaling.
type CropGeometry struct {
	Width  int
	Height int
	X      int
	Y      int
}

// FullFrame reports whether the crop keeps the entire source frame.
func (g CropGeometry) FullFrame(srcW, srcH int) bool {
	return g.Width == srcW && g.Height == srcH
}

// ComputeCrop derives the aspect-correcting crop for a source frame.
// Wider-than-9:16 sources keep full height and lose width to 9/16 of the
// original width, centered horizontally; taller sources keep full width
// and lose height to 16/9 of the width, centered vertically. Pure.
func ComputeCrop(srcW, srcH int) CropGeometry {
	if srcW*16 > srcH*9 {
		cw := srcW * 9 / 16
		return CropGeometry{Width: cw, Height: srcH, X: (srcW - cw) / 2, Y: 0}
	}
	ch := srcW * 16 / 9
	return CropGeometry{Width: srcW, Height: ch, X: 0, Y: (srcH - ch) / 2}
}

// FilterOps returns the ordered ffmpeg filter expressions for a source
// frame: crop (omitted when it is a no-op), scale to target, SAR reset.
func FilterOps(srcW, srcH int) []string {
	var ops []string
	g := ComputeCrop(srcW, srcH)
	if !g.FullFrame(srcW, srcH) {
		ops = append(ops, fmt.Sprintf("crop=%d:%d:%d:%d", g.Width, g.Height, g.X, g.Y))
	}
	ops = append(ops,
		fmt.Sprintf("scale=%d:%d", TargetWidth, TargetHeight),
		"setsar=1",
	)
	return ops
}
