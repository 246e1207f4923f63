package render

import "Blackboard/internal/state"

// scaleFactors maps coordinates captured at from onto a surface of size to.
// An invalid capture extent maps 1:1.
func scaleFactors(from, to state.Extent) (sx, sy float64) {
	if !from.Valid() || !to.Valid() {
		return 1, 1
	}
	return float64(to.Width) / float64(from.Width), float64(to.Height) / float64(from.Height)
}

// scaleDot positions d on a surface of size to. The radius uses the smaller
// of the two factors so dots stay round.
func scaleDot(d state.Dot, to state.Extent) (x, y, r float64) {
	sx, sy := scaleFactors(d.Captured, to)
	return d.X * sx, d.Y * sy, d.Radius * min(sx, sy)
}

// scaleLine positions l on a surface of size to. Only the endpoints move;
// the stroke width is kept as captured.
func scaleLine(l state.Line, to state.Extent) (x0, y0, x1, y1, width float64) {
	sx, sy := scaleFactors(l.Captured, to)
	return l.X0 * sx, l.Y0 * sy, l.X1 * sx, l.Y1 * sy, l.Width
}
