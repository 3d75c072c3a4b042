package render

// Matrix maps frame coordinates onto target coordinates with a uniform
// scale followed by a translation.
type Matrix struct {
	Scale float64
	TX    float64
	TY    float64
}

// Identity returns the matrix that leaves coordinates unchanged.
func Identity() Matrix {
	return Matrix{Scale: 1}
}

// Rect is an integer rectangle in target coordinates.
type Rect struct {
	X, Y, W, H int32
}

// FitCenter returns the matrix that scales a srcW x srcH frame to fit inside
// dstW x dstH while keeping its aspect ratio, centered on both axes.
// Degenerate sizes yield the identity.
func FitCenter(srcW, srcH, dstW, dstH int32) Matrix {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Identity()
	}

	scaleW := float64(dstW) / float64(srcW)
	scaleH := float64(dstH) / float64(srcH)
	scale := scaleW
	if scaleH < scaleW {
		scale = scaleH
	}

	return Matrix{
		Scale: scale,
		TX:    (float64(dstW) - float64(srcW)*scale) / 2,
		TY:    (float64(dstH) - float64(srcH)*scale) / 2,
	}
}

// MapRect returns the destination rectangle of a w x h frame.
func (m Matrix) MapRect(w, h int32) Rect {
	return Rect{
		X: int32(m.TX),
		Y: int32(m.TY),
		W: int32(float64(w) * m.Scale),
		H: int32(float64(h) * m.Scale),
	}
}
