package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/vertexsoup/difbuilder/builder"
	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/vizdebug"
)

type vizCommand struct {
	Report string `short:"r" long:"report" description:"Load a .dif file produced by difbuild instead of rebuilding"`
	Width  int    `short:"W" long:"width" description:"Image width in pixels" default:"800"`
	Height int    `short:"H" long:"height" description:"Image height in pixels" default:"800"`
	PDF    bool   `long:"pdf" description:"Write a PDF instead of a PNG"`
	Out    string `short:"o" long:"out" description:"Output filename (default: input path with .png or .pdf appended)"`
	Args   struct {
		Input string `positional-arg-name:"input" description:"Triangle-soup input file (ignored when --report is set)"`
	} `positional-args:"yes"`
}

func (c *vizCommand) Execute(args []string) error {
	interior, err := c.loadInterior()
	if err != nil {
		return err
	}

	svg := vizdebug.NewSceneSVG(interior, c.Width, c.Height).String()

	out := c.Out
	var data []byte
	if c.PDF {
		if out == "" {
			out = c.reportOrInputName() + ".pdf"
		}
		data, err = vizdebug.RenderPDF(svg, c.Width, c.Height)
		if err != nil {
			return fmt.Errorf("rendering pdf: %w", err)
		}
	} else {
		if out == "" {
			out = c.reportOrInputName() + ".png"
		}
		data, err = vizdebug.RasterizePNG(svg, c.Width, c.Height)
		if err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func (c *vizCommand) reportOrInputName() string {
	if c.Report != "" {
		return strings.TrimSuffix(c.Report, ".dif")
	}
	return c.Args.Input
}

func (c *vizCommand) loadInterior() (*dif.Interior, error) {
	if c.Report != "" {
		data, err := os.ReadFile(c.Report)
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}
		d, _, err := dif.ReadDif(data)
		if err != nil {
			return nil, fmt.Errorf("decoding report: %w", err)
		}
		if len(d.Interiors) == 0 {
			return nil, fmt.Errorf("%s has no interiors", c.Report)
		}
		return d.Interiors[0], nil
	}

	if c.Args.Input == "" {
		return nil, fmt.Errorf("either --report or a triangle-soup input file is required")
	}

	in, err := os.Open(c.Args.Input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	b := builder.NewBuilder(builder.DefaultConfig(), nil)
	if err := builder.LoadTriangleSoup(in, b); err != nil {
		return nil, fmt.Errorf("loading triangle soup: %w", err)
	}
	interior, _, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("building interior: %w", err)
	}
	return interior, nil
}
