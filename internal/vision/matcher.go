// internal/vision/matcher.go
package vision

import (
	"context"
	"image"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

// minCoarseSide is the smallest scaled template side worth a coarse pass.
const minCoarseSide = 6

// Matcher locates template images inside captured frames.
type Matcher struct {
	assets    *AssetStore
	threshold float64
	scale     float64
	workers   int
	logger    *zap.Logger
}

// NewMatcher creates a matcher. cfg.Threshold is the minimum similarity in
// [0, 1]; cfg.Scale is the coarse pass downscale factor in (0, 1].
func NewMatcher(assets *AssetStore, cfg config.VisionConfig, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		assets:    assets,
		threshold: cfg.Threshold,
		scale:     cfg.Scale,
		workers:   runtime.GOMAXPROCS(0),
		logger:    logger.Named("vision"),
	}
}

// Find searches frame for the template ref. On a hit it returns the centre
// of the matched region in frame coordinates. A template that does not fit
// in the frame is simply not found.
func (m *Matcher) Find(ctx context.Context, frame *image.RGBA, ref navigation.TemplateRef) (image.Point, bool, error) {
	tpl, err := m.assets.Load(ref)
	if err != nil {
		return image.Point{}, false, err
	}
	gray := toGray(frame)

	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()
	fw, fh := gray.Bounds().Dx(), gray.Bounds().Dy()
	if tw == 0 || th == 0 || tw > fw || th > fh {
		return image.Point{}, false, nil
	}

	full := image.Rect(0, 0, fw-tw+1, fh-th+1)
	window := full
	if m.scale > 0 && m.scale < 1 && int(float64(tw)*m.scale) >= minCoarseSide && int(float64(th)*m.scale) >= minCoarseSide {
		coarse, err := m.search(ctx, downscale(gray, m.scale), downscale(tpl, m.scale), image.Rectangle{})
		if err != nil {
			return image.Point{}, false, err
		}
		// Refine in a neighbourhood large enough to absorb rounding in both scalings.
		radius := int(math.Ceil(1/m.scale)) + 2
		cx := int(float64(coarse.pos.X) / m.scale)
		cy := int(float64(coarse.pos.Y) / m.scale)
		window = image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1).Intersect(full)
	}

	best, err := m.search(ctx, gray, tpl, window)
	if err != nil {
		return image.Point{}, false, err
	}
	// Fine detail can alias away in the coarse frame and steer the refinement
	// to the wrong place; a miss there is only final after a full search.
	if best.score < m.threshold && window != full {
		m.logger.Debug("Coarse candidate rejected, searching at full resolution.",
			zap.String("template", string(ref)),
			zap.Float64("score", best.score))
		if best, err = m.search(ctx, gray, tpl, full); err != nil {
			return image.Point{}, false, err
		}
	}

	m.logger.Debug("Template search finished.",
		zap.String("template", string(ref)),
		zap.Float64("score", best.score),
		zap.Int("x", best.pos.X),
		zap.Int("y", best.pos.Y),
	)
	if best.score < m.threshold {
		return image.Point{}, false, nil
	}
	return best.pos.Add(image.Pt(tw/2, th/2)), true, nil
}

type match struct {
	pos   image.Point
	score float64
}

// search scores every top-left position in window (all valid positions when
// window is empty) and returns the best. Rows are split into bands scanned
// in parallel.
func (m *Matcher) search(ctx context.Context, frame, tpl *image.Gray, window image.Rectangle) (match, error) {
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()
	valid := image.Rect(0, 0, frame.Bounds().Dx()-tw+1, frame.Bounds().Dy()-th+1)
	if window.Empty() {
		window = valid
	} else {
		window = window.Intersect(valid)
	}
	if window.Empty() {
		return match{score: math.Inf(-1)}, nil
	}

	var tplEnergy float64
	for _, v := range tpl.Pix {
		tplEnergy += float64(v) * float64(v)
	}

	workers := m.workers
	if workers < 1 {
		workers = 1
	}
	rows := window.Dy()
	band := (rows + workers - 1) / workers

	var mu sync.Mutex
	best := match{score: math.Inf(-1)}

	g, gctx := errgroup.WithContext(ctx)
	for y0 := window.Min.Y; y0 < window.Max.Y; y0 += band {
		y1 := min(y0+band, window.Max.Y)
		g.Go(func() error {
			local := match{score: math.Inf(-1)}
			for y := y0; y < y1; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for x := window.Min.X; x < window.Max.X; x++ {
					if s := similarity(frame, tpl, x, y, tplEnergy); s > local.score {
						local = match{pos: image.Pt(x, y), score: s}
					}
				}
			}
			mu.Lock()
			if local.score > best.score || (local.score == best.score && less(local.pos, best.pos)) {
				best = local
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return match{}, err
	}
	return best, nil
}

// less orders positions top-to-bottom then left-to-right so ties resolve
// the same way regardless of band scheduling.
func less(a, b image.Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// similarity is 1 minus the normalized sum of squared differences between
// tpl and the frame window at (x, y), clamped to [0, 1].
func similarity(frame, tpl *image.Gray, x, y int, tplEnergy float64) float64 {
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()
	var ssd, frameEnergy float64
	for j := 0; j < th; j++ {
		frow := frame.Pix[(y+j)*frame.Stride+x : (y+j)*frame.Stride+x+tw]
		trow := tpl.Pix[j*tpl.Stride : j*tpl.Stride+tw]
		for i, fv := range frow {
			f := float64(fv)
			d := f - float64(trow[i])
			ssd += d * d
			frameEnergy += f * f
		}
	}

	switch {
	case frameEnergy == 0 && tplEnergy == 0:
		return 1
	case frameEnergy == 0 || tplEnergy == 0:
		return 0
	}
	s := 1 - ssd/math.Sqrt(frameEnergy*tplEnergy)
	return math.Max(0, math.Min(1, s))
}

// downscale resizes img by factor, averaging over each source footprint.
func downscale(img *image.Gray, factor float64) *image.Gray {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
