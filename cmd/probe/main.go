package main

import (
	"flag"
	"os"

	"github.com/goccy/go-json"

	"camview/pkg/camera"
	"camview/pkg/utils"
)

var (
	devName = flag.String("d", camera.DefaultDevice, "device name (path)")
	width   = flag.Int("width", camera.DefaultWidth, "requested width")
	height  = flag.Int("height", camera.DefaultHeight, "requested height")
	exact   = flag.Bool("exact", false, "request the exact size instead of the highest resolution")
)

func main() {
	flag.Parse()
	logger := utils.GetLogger()
	defer logger.Sync()

	req := camera.FormatRequest{Width: *width, Height: *height, Policy: camera.HighestResolution}
	if *exact {
		req.Policy = camera.Exact
	}

	res, err := camera.Probe(*devName, req)
	if err != nil {
		logger.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(res); err != nil {
		logger.Fatal(err)
	}
}
