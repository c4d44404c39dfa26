// Command difviz renders a built interior's coord-bin grid, hull boxes, and
// BSP split-plane traces to PNG or PDF for inspecting build quality.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type globalOptions struct {
	Version func() `short:"V" long:"version" description:"Print version and exit"`
}

func addVizCommand(parser *flags.Parser) {
	_, err := parser.AddCommand("render",
		"Render a built interior's debug visualization",
		"Loads an interior (either decoded from a --report .dif file or rebuilt\n"+
			"from a triangle-soup input) and renders its coord-bin grid, convex-hull\n"+
			"bounding boxes, and BSP split-plane traces to a PNG or PDF.",
		&vizCommand{})
	if err != nil {
		panic(err)
	}
}

func main() {
	var globals globalOptions
	globals.Version = func() {
		fmt.Println("difviz (development build)")
		os.Exit(0)
	}

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "difviz"
	parser.LongDescription = "Renders debug visualizations of built DIF interiors."

	addVizCommand(parser)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}
		os.Exit(1)
	}
}
