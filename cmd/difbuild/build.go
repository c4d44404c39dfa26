package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vertexsoup/difbuilder/bsp"
	"github.com/vertexsoup/difbuilder/builder"
	"github.com/vertexsoup/difbuilder/dif"
)

type buildCommand struct {
	MBOnly       bool    `long:"mbg-only" description:"Encode the MBG one-stub-element poly-list form instead of the dense layout"`
	SplitMethod  string  `long:"split-method" description:"BSP splitter strategy: fast, exhaustive, or none" default:"fast"`
	PointEpsilon float64 `long:"point-epsilon" description:"Tolerance for deduplicating vertex positions"`
	PlaneEpsilon float64 `long:"plane-epsilon" description:"Tolerance for deduplicating face planes"`
	SplitEpsilon float64 `long:"split-epsilon" description:"Tolerance the BSP splitter uses for point-plane classification"`
	Out          string  `short:"o" long:"out" description:"Output .dif path (default: input path with .dif appended)"`
	DebugOut     string  `long:"debug-out" description:"Write a JSON build-report sidecar to this path"`
	Args         struct {
		Input string `positional-arg-name:"input" description:"Triangle-soup input file" required:"true"`
	} `positional-args:"yes"`
}

func (c *buildCommand) Execute(args []string) error {
	cfg := builder.DefaultConfig()
	cfg.MBOnly = c.MBOnly
	if c.PointEpsilon > 0 {
		cfg.PointEpsilon = float32(c.PointEpsilon)
	}
	if c.PlaneEpsilon > 0 {
		cfg.PlaneEpsilon = float32(c.PlaneEpsilon)
	}
	if c.SplitEpsilon > 0 {
		cfg.BSP.Epsilon = float32(c.SplitEpsilon)
	}
	method, err := parseSplitMethod(c.SplitMethod)
	if err != nil {
		return err
	}
	cfg.BSP.Method = method

	in, err := os.Open(c.Args.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	b := builder.NewBuilder(cfg, nil)
	if err := builder.LoadTriangleSoup(in, b); err != nil {
		return fmt.Errorf("loading triangle soup: %w", err)
	}

	interior, report, err := b.Build()
	if err != nil {
		return fmt.Errorf("building interior: %w", err)
	}

	out := c.Out
	if out == "" {
		out = c.Args.Input + ".dif"
	}
	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()

	d := &dif.Dif{Interiors: []*dif.Interior{interior}}
	if err := d.Write(outFile, dif.NewMBGVersion()); err != nil {
		return fmt.Errorf("writing dif: %w", err)
	}

	fmt.Printf("Wrote %s\n", out)
	fmt.Printf("  Surfaces: %d, balance factor: %d\n", len(interior.Surfaces), report.BalanceFactor)
	fmt.Printf("  Raycast coverage: %d/%d (%.1f%%)\n", report.Hit, report.Total, report.HitAreaPercentage)

	if c.DebugOut != "" {
		if err := writeDebugReport(c.DebugOut, report); err != nil {
			return fmt.Errorf("writing debug report: %w", err)
		}
	}

	return nil
}

func parseSplitMethod(s string) (bsp.SplitMethod, error) {
	switch s {
	case "fast", "":
		return bsp.SplitFast, nil
	case "exhaustive":
		return bsp.SplitExhaustive, nil
	case "none":
		return bsp.SplitNone, nil
	default:
		return 0, fmt.Errorf("unknown split method %q (want fast, exhaustive, or none)", s)
	}
}

func writeDebugReport(path string, report builder.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
