package vision

// Ambient returns the mean intensity over all channels and pixels as a
// percentage, 0 (dark) to 100 (bright).
func Ambient(f Frame) float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.Pix {
		sum += float64(v)
	}
	return sum / float64(len(f.Pix)) / 255 * 100
}

// Reflection returns the mean red-channel intensity as a percentage. It
// models a single-color reflectance sensor shining red light at the surface.
func Reflection(f Frame) float64 {
	r, _, _ := RGB(f)
	return r
}

// RGB returns the per-channel mean intensities as percentages.
func RGB(f Frame) (r, g, b float64) {
	pixels := f.Res * f.Res
	if pixels == 0 {
		return 0, 0, 0
	}
	var sr, sg, sb float64
	for i := 0; i < len(f.Pix); i += 3 {
		sr += float64(f.Pix[i])
		sg += float64(f.Pix[i+1])
		sb += float64(f.Pix[i+2])
	}
	n := float64(pixels)
	return sr / n / 255 * 100, sg / n / 255 * 100, sb / n / 255 * 100
}
