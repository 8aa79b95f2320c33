package text

// mmPerPt is the length of one typographic point in millimetres.
const mmPerPt = 25.4 / 72

// PtToMm converts points to millimetres.
func PtToMm(pt float64) float64 {
	return pt * mmPerPt
}

// MmToPt converts millimetres to points.
func MmToPt(mm float64) float64 {
	return mm / mmPerPt
}
