package gamutcheck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Step is one raster transform of a Pipeline.
type Step interface {
	Name() string
	Apply(img *Raster) (*Raster, error)
}

type stepFunc struct {
	name string
	fn   func(img *Raster) (*Raster, error)
}

func (s stepFunc) Name() string                       { return s.name }
func (s stepFunc) Apply(img *Raster) (*Raster, error) { return s.fn(img) }

// NewStep wraps a function as a named step.
func NewStep(name string, fn func(img *Raster) (*Raster, error)) Step {
	return stepFunc{name: name, fn: fn}
}

// ReduceTo8BitStep reduces 16-bit samples by shifting, eagerly or through a read-only view.
func ReduceTo8BitStep(lazy bool) Step {
	if lazy {
		return NewStep("reduce to 8 bit (view)", ReduceTo8BitView)
	}
	return NewStep("reduce to 8 bit", ReduceTo8Bit)
}

// StandardRGB8Step converts to a new 8-bit standard RGB raster.
func StandardRGB8Step() Step {
	return NewStep("convert to sRGB 8 bit", ConvertToStandardRGB8)
}

// ConvertProfilesStep converts with an explicit profile pair.
func ConvertProfilesStep(src, dst *Profile) Step {
	return NewStep("convert "+src.Describe()+" to "+dst.Describe(), func(img *Raster) (*Raster, error) {
		return ConvertProfiles(img, src, dst)
	})
}

// ColorChannelsStep converts color components in place, keeping alpha.
// A nil src uses the profile of the raster. Read-only input is copied first.
func ColorChannelsStep(src, dst *Profile) Step {
	return NewStep("convert color channels to "+dst.Describe(), func(img *Raster) (*Raster, error) {
		if img.ReadOnly() {
			img = img.Clone()
		}
		return ConvertColorChannels(img, src, dst)
	})
}

// AssignProfileStep reinterprets samples under p without converting them.
func AssignProfileStep(p *Profile) Step {
	return NewStep("assign "+p.Describe(), func(img *Raster) (*Raster, error) {
		return img.WithProfile(p), nil
	})
}

// DropAlphaStep flattens to an opaque 8-bit raster.
func DropAlphaStep() Step {
	return NewStep("drop alpha", DropAlpha)
}

// ScaleStep resamples by the given factors.
func ScaleStep(factorX, factorY float64, interpolate bool, rounding RoundingRule) Step {
	name := fmt.Sprintf("scale %gx%g", factorX, factorY)
	if interpolate {
		name += " interpolated"
	}
	return NewStep(name, func(img *Raster) (*Raster, error) {
		return Scale(img, factorX, factorY, interpolate, func(o *ScaleOptions) {
			o.Rounding = rounding
		})
	})
}

// BlurStep applies the 2x2 box kernel.
func BlurStep() Step {
	return NewStep("blur", Blur)
}

// ParseSteps builds steps from a comma separated list:
// 8bit, 8bit-view, srgb, srgb-channels, noalpha, blur, scale=FXxFY, smooth-scale=FXxFY.
func ParseSteps(list string, cfg Config) ([]Step, error) {
	var steps []Step
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, arg, _ := strings.Cut(item, "=")
		switch name {
		case "8bit":
			steps = append(steps, ReduceTo8BitStep(false))
		case "8bit-view":
			steps = append(steps, ReduceTo8BitStep(true))
		case "srgb":
			steps = append(steps, StandardRGB8Step())
		case "srgb-channels":
			steps = append(steps, ColorChannelsStep(nil, StandardRGB()))
		case "noalpha":
			steps = append(steps, DropAlphaStep())
		case "blur":
			steps = append(steps, BlurStep())
		case "scale", "smooth-scale":
			fx, fy, err := parseFactors(arg)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", item, err)
			}
			steps = append(steps, ScaleStep(fx, fy, name == "smooth-scale", cfg.Rounding))
		default:
			return nil, fmt.Errorf("unknown step %q", item)
		}
	}
	return steps, nil
}

func parseFactors(s string) (float64, float64, error) {
	xs, ys, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		ys = xs
	}
	fx, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, err
	}
	fy, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, err
	}
	if fx <= 0 || fy <= 0 {
		return 0, 0, fmt.Errorf("%w: non-positive scale factor", ErrInvalidDimensions)
	}
	return fx, fy, nil
}

// Result is the outcome of a pipeline run.
type Result struct {
	Image *Raster
	// Before is zero when the input was too small to sample. After and
	// Outcome are only meaningful when Sampled is set.
	Before  GamutSample
	After   GamutSample
	Outcome Outcome
	Sampled bool
}

// Pipeline applies steps in order and classifies the final raster.
type Pipeline struct {
	steps    []Step
	log      logrus.FieldLogger
	analyzer *Analyzer
}

// NewPipeline creates a pipeline, nil logger discards diagnostics.
func NewPipeline(log logrus.FieldLogger, steps ...Step) *Pipeline {
	if log == nil {
		log = discardLogger()
	}
	return &Pipeline{
		steps:    steps,
		log:      log,
		analyzer: NewAnalyzer(log),
	}
}

// Run applies all steps to img. Any step failure aborts the run.
func (p *Pipeline) Run(img *Raster) (*Result, error) {
	res := &Result{}

	p.analyzer.Summarize(img)
	before, err := p.analyzer.Sample(img)
	sampled := err == nil
	if err != nil && !errors.Is(err, ErrRasterTooSmall) {
		return nil, err
	}
	res.Before = before

	for _, s := range p.steps {
		p.log.Info("applying " + s.Name())
		if img, err = s.Apply(img); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		p.analyzer.Summarize(img)
	}
	res.Image = img

	after, err := p.analyzer.Sample(img)
	if err != nil {
		if errors.Is(err, ErrRasterTooSmall) {
			p.log.Warn("raster too small for gamut sampling")
			return res, nil
		}
		return nil, err
	}
	res.After = after
	res.Sampled = true
	if sampled {
		res.Outcome = p.analyzer.Compare(before, after)
	} else {
		res.Outcome = p.analyzer.Check(after)
	}
	return res, nil
}
