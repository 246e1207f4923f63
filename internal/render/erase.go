package render

import (
	"image"

	"github.com/gogpu/gg"
)

// erase removes destination pixels covered by shape (destination-out).
//
// The shape is rasterized into the scratch mask in the opaque background
// color, then every surface pixel inside area keeps alpha*(1-coverage). The
// mask is cleared again inside area, so area must contain the whole shape.
// Pixmaps store straight alpha, so only the alpha channel is scaled.
func (s *Surface) erase(area image.Rectangle, shape func(dc *gg.Context) error) error {
	bg := s.bg
	bg.A = 0xff
	setColor(s.mask, bg)
	if err := shape(s.mask); err != nil {
		return err
	}

	w := s.dc.Width()
	area = area.Intersect(image.Rect(0, 0, w, s.dc.Height()))
	dst := s.dc.ResizeTarget().Data()
	cov := s.mask.ResizeTarget().Data()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		i := (y*w + area.Min.X) * 4
		for x := area.Min.X; x < area.Max.X; x, i = x+1, i+4 {
			c := cov[i+3]
			if c == 0 {
				continue
			}
			clear(cov[i : i+4])
			a := uint32(dst[i+3]) * uint32(255-c) / 255
			dst[i+3] = uint8(a)
			if a == 0 {
				clear(dst[i : i+3])
			}
		}
	}
	return nil
}
