package imaging

import (
	"image"
	"math"
)

// MinSkew is the angle in degrees below which a page is left untouched.
// Rotating for smaller angles costs more recognition quality than it buys.
const MinSkew = 0.15

// EstimateSkew estimates the page's skew angle in degrees using a projection
// profile search: the rotation that concentrates dark pixels into the fewest
// rows is the one that makes the form's ruled lines horizontal. The search
// covers ±3° in MinSkew steps, which is the range scanner feeds produce.
func EstimateSkew(g *image.Gray) float64 {
	small := downsample(g, 512)
	b := small.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	dark := make([][]bool, h)
	for y := 0; y < h; y++ {
		dark[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			dark[y][x] = small.Pix[y*small.Stride+x] < 128
		}
	}

	var bestAngle, bestScore float64
	for angle := -3.0; angle <= 3.0; angle += MinSkew {
		score := profileScore(dark, w, h, angle)
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}
	if math.Abs(bestAngle) < MinSkew {
		return 0
	}
	return bestAngle
}

// profileScore shears each row by tan(angle) and sums the squared row
// darkness counts. Sharp peaks (aligned lines) score higher than the same
// ink smeared across rows.
func profileScore(dark [][]bool, w, h int, angle float64) float64 {
	shear := math.Tan(angle * math.Pi / 180)
	counts := make([]int, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !dark[y][x] {
				continue
			}
			yy := y + int(math.Round(float64(x)*shear))
			if yy >= 0 && yy < h {
				counts[yy]++
			}
		}
	}
	var score float64
	for _, c := range counts {
		score += float64(c) * float64(c)
	}
	return score
}

// Deskew rotates the image to counter its estimated skew. Images within
// MinSkew of level are returned unchanged.
func Deskew(img image.Image) image.Image {
	angle := EstimateSkew(Grayscale(img))
	if angle == 0 {
		return img
	}
	return Rotate(img, -angle)
}

func downsample(g *image.Gray, maxWidth int) *image.Gray {
	b := g.Bounds()
	if b.Dx() <= maxWidth {
		return g
	}
	factor := float64(maxWidth) / float64(b.Dx())
	return Grayscale(Scale(g, factor))
}
