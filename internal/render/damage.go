package render

import (
	"image"
	"math"
)

// damagePadding covers anti-aliased edge pixels outside the geometric shape.
const damagePadding = 2

// dotDamage returns the pixels a filled circle can touch.
func dotDamage(x, y, r float64) image.Rectangle {
	return spanRect(x-r, y-r, x+r, y+r)
}

// lineDamage returns the pixels a round-capped segment can touch.
func lineDamage(x0, y0, x1, y1, width float64) image.Rectangle {
	half := width / 2
	return spanRect(
		math.Min(x0, x1)-half, math.Min(y0, y1)-half,
		math.Max(x0, x1)+half, math.Max(y0, y1)+half,
	)
}

func spanRect(minX, minY, maxX, maxY float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(minX))-damagePadding,
		int(math.Floor(minY))-damagePadding,
		int(math.Ceil(maxX))+damagePadding,
		int(math.Ceil(maxY))+damagePadding,
	)
}
