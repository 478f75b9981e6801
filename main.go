package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/flavioribeiro/nalsplit/internal/app"
	"github.com/flavioribeiro/nalsplit/internal/controllers"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/flavioribeiro/nalsplit/internal/mapper"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input> <output> <frame_num> <h264|h265|vp8|vp9>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	extension := pflag.String("ext", "", "output file extension, defaults to the input's one")
	quiet := pflag.Bool("quiet", false, "do not print a progress marker per picture")
	pflag.Parse()
	if len(pflag.Args()) != 4 {
		pflag.Usage()
		os.Exit(1)
	}

	minFrames, err := parseMinFrames(pflag.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(1)
	}

	var split *controllers.SplitController
	var m *mapper.Mapper
	fxApp := fx.New(
		app.Dependencies(*quiet),
		fx.Populate(&split, &m),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	params := &entities.SplitParams{
		Input:     pflag.Arg(0),
		Output:    pflag.Arg(1),
		MinFrames: minFrames,
		Codec:     m.FromStringToCodec(pflag.Arg(3)),
		Extension: *extension,
	}

	if err := params.Valid(); err != nil {
		fmt.Fprintf(os.Stderr, "Problem parsing arguments: %v\n", err)
		pflag.Usage()
		os.Exit(1)
	}

	if _, err := split.Run(params); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseMinFrames(s string) (int, error) {
	minFrames, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("can't parse frame_num %q: %w: %w", s, entities.ErrConfig, err)
	}
	return minFrames, nil
}
