package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/vearutop/gamutcheck"
)

const logLevelEnv = "GAMUTCHECK_LOG_LEVEL"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		if err := runCheck(os.Args[2:]); err != nil {
			fail(err)
		}
	case "convert":
		if err := runConvert(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gamutcheck <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  check   -in input.png [-type image/png] [-srgb] [-v debug]")
	fmt.Fprintln(os.Stderr, "  convert -in input.tif -out output.png [-format png] [-steps 8bit,srgb,noalpha,scale=2x2,blur]")
	fmt.Fprintln(os.Stderr, "          [-icc target.icc] [-round half-up|down|up] [-q 95] [-deflate] [-profile cpu|mem] [-v debug]")
	fmt.Fprintln(os.Stderr, "Steps: 8bit, 8bit-view, srgb, srgb-channels, noalpha, blur, scale=FXxFY, smooth-scale=FXxFY")
	fmt.Fprintln(os.Stderr, "Log level defaults to $"+logLevelEnv+" or info.")
}

func logLevel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(logLevelEnv)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	format := fs.String("type", "", "input format, detected when empty")
	toSRGB := fs.Bool("srgb", false, "convert to sRGB while decoding")
	verbosity := fs.String("v", "", "log level")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}

	cfg := gamutcheck.DefaultConfig()
	cfg.LogLevel = logLevel(*verbosity)
	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	img, native, err := decode(cfg, log, *inPath, *format, *toSRGB)
	if err != nil {
		return err
	}
	log.WithField("profile", native.Describe()).Debug("native profile")

	_, outcome, err := gamutcheck.NewAnalyzer(log).Analyze(img)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, outcome)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output image")
	inFormat := fs.String("type", "", "input format, detected when empty")
	outFormat := fs.String("format", "", "output format, taken from -out extension when empty")
	steps := fs.String("steps", "", "comma separated pipeline steps")
	iccPath := fs.String("icc", "", "convert color channels into this ICC profile after all steps")
	round := fs.String("round", "half-up", "scaled size rounding: half-up, down, up")
	q := fs.Int("q", 95, "JPEG quality")
	deflate := fs.Bool("deflate", false, "deflate compression for TIFF output")
	prof := fs.String("profile", "", "enable cpu or mem profiling")
	verbosity := fs.String("v", "", "log level")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *prof)
	}

	cfg := gamutcheck.DefaultConfig()
	cfg.LogLevel = logLevel(*verbosity)
	cfg.JPEGQuality = *q
	cfg.TIFFDeflate = *deflate
	switch *round {
	case "half-up":
		cfg.Rounding = gamutcheck.RoundHalfUp
	case "down":
		cfg.Rounding = gamutcheck.RoundDown
	case "up":
		cfg.Rounding = gamutcheck.RoundUp
	default:
		return fmt.Errorf("unknown rounding %q", *round)
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	pipelineSteps, err := gamutcheck.ParseSteps(*steps, cfg)
	if err != nil {
		return err
	}
	if *iccPath != "" {
		target, err := gamutcheck.LoadProfile(filepath.Clean(*iccPath))
		if err != nil {
			return err
		}
		pipelineSteps = append(pipelineSteps, gamutcheck.ColorChannelsStep(nil, target))
	}

	img, _, err := decode(cfg, log, *inPath, *inFormat, false)
	if err != nil {
		return err
	}

	res, err := gamutcheck.NewPipeline(log, pipelineSteps...).Run(img)
	if err != nil {
		return err
	}
	if res.Sampled {
		fmt.Fprintln(os.Stdout, res.Outcome)
	}

	if *outFormat == "" {
		*outFormat = strings.TrimPrefix(filepath.Ext(*outPath), ".")
	}
	return gamutcheck.NewRegistry(cfg, log).EncodeFile(res.Image, *outFormat, filepath.Clean(*outPath))
}

func decode(cfg gamutcheck.Config, log logrus.FieldLogger, path, format string, toSRGB bool) (*gamutcheck.Raster, *gamutcheck.Profile, error) {
	path = filepath.Clean(path)
	if format == "" {
		var err error
		if format, err = gamutcheck.DetectFileFormat(path); err != nil {
			return nil, nil, err
		}
	}

	return gamutcheck.NewRegistry(cfg, log).DecodeFile(format, path, func(o *gamutcheck.DecodeOptions) {
		if toSRGB {
			o.Profile = gamutcheck.StandardRGB()
		}
	})
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
