package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"go.uber.org/zap"

	"camview/pkg/camera"
	"camview/pkg/capture"
	"camview/pkg/config"
	"camview/pkg/display"
	"camview/pkg/display/fyne"
	"camview/pkg/display/web"
	"camview/pkg/handoff"
	"camview/pkg/utils"
)

var (
	configFile = flag.String("config", "", "json config file")
	device     = flag.Int("device", 0, "camera index")
	backend    = flag.String("backend", "v4l2", "camera backend: v4l2, webcam or pattern")
	host       = flag.String("host", config.HostFyne, "display host: fyne or web")
	port       = flag.Int("port", web.DefaultPort, "web host port")
	width      = flag.Int("width", 1280, "canvas width")
	height     = flag.Int("height", 720, "canvas height")
	fps        = flag.Int("fps", display.DefaultFPS, "redraw rate")
	interval   = flag.Duration("interval", capture.DefaultInterval, "pause between captures")
	queue      = flag.String("queue", string(handoff.ModeLatest), "hand-off mode: latest or fifo")
	onError    = flag.String("on-error", string(capture.PolicySkip), "frame error policy: skip or stop")
	logLevel   = flag.String("log-level", "info", "log level")

	logger *zap.SugaredLogger
)

func init() {
	logger = utils.GetLogger()
	flag.Parse()
}

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Error(err)
		return 1
	}
	if err = utils.SetLevel(cfg.LogLevel); err != nil {
		logger.Errorf("log level: %s", err)
		return 1
	}

	open, err := camera.Backend(cfg.Backend, cfg.CameraOptions())
	if err != nil {
		logger.Error(err)
		return 1
	}
	ch, err := handoff.New(handoff.Mode(cfg.Queue))
	if err != nil {
		logger.Error(err)
		return 1
	}
	policy, err := capture.ParsePolicy(cfg.OnError)
	if err != nil {
		logger.Error(err)
		return 1
	}

	stop := handoff.NewSignal()
	worker := capture.New(open, ch, stop,
		capture.WithDevice(cfg.Device),
		capture.WithRequest(cfg.Request()),
		capture.WithInterval(cfg.Interval()),
		capture.WithPolicy(policy),
		capture.WithMaxConsecutiveErrors(cfg.MaxConsecutiveErrors),
		capture.WithCanvas(cfg.Width, cfg.Height),
	)
	drv := display.NewDriver(ch, stop, worker.Start(),
		display.WithFPS(cfg.FPS),
		display.WithCanvas(cfg.Width, cfg.Height),
	)
	logger.Infof("camview started, backend %s, host %s, queue %s", cfg.Backend, cfg.Host, cfg.Queue)

	ctx := context.Background()
	switch cfg.Host {
	case config.HostWeb:
		err = web.New(drv, cfg.Port, web.WithStats("capture", func() any { return worker.Stats() })).Run(ctx)
	default:
		err = fyne.New(drv).Run(ctx)
	}
	if err != nil {
		logger.Errorf("camview stopped: %s (%s)", err, capture.KindOf(err))
		return 1
	}
	logger.Info("camview stopped")

	return 0
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	var errs []error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "backend":
			cfg.Backend = *backend
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "fps":
			cfg.FPS = *fps
		case "interval":
			if err := cfg.SetInterval(*interval); err != nil {
				errs = append(errs, err)
			}
		case "queue":
			cfg.Queue = *queue
		case "on-error":
			cfg.OnError = *onError
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	errs = append(errs, cfg.Validate())

	return cfg, errors.Join(errs...)
}
