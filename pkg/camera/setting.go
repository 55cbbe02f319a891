package camera

import (
	"fmt"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
	"go.uber.org/zap"

	"camview/pkg/ov"
	"camview/pkg/utils"
)

var logger *zap.SugaredLogger

func init() {
	logger = utils.GetLogger().Named("camera")
}

// knownCtrlID lists the user controls worth exposing for a live view.
var knownCtrlID = []v4l2.CtrlID{
	9963776,  // Brightness
	9963777,  // Contrast
	9963778,  // Saturation
	9963788,  // White Balance, Automatic
	9963795,  // Gain
	9963800,  // Power Line Frequency
	9963803,  // Sharpness
	10094849, // Auto Exposure
	10094850, // Exposure Time, Absolute
}

// GetKnownCtrlConfigs reads the known controls the device supports.
func GetKnownCtrlConfigs(dev *device.Device) ([]ov.Config, error) {
	var res []ov.Config
	for _, id := range knownCtrlID {
		ctrl, err := v4l2.GetControl(dev.Fd(), id)
		if err != nil {
			logger.Debugf("the device does not support control(%d)", id)
			continue
		}
		cfg, err := ctrlToConfig(ctrl)
		if err != nil {
			return nil, err
		}
		res = append(res, cfg)
	}

	return res, nil
}

func ctrlToConfig(ctrl v4l2.Control) (ov.Config, error) {
	cfg := ov.Config{
		ID:      ctrl.ID,
		Value:   ctrl.Value,
		Name:    ctrl.Name,
		IsMenu:  ctrl.IsMenu(),
		Minimum: ctrl.Minimum,
		Maximum: ctrl.Maximum,
		Step:    ctrl.Step,
	}
	if !cfg.IsMenu {
		return cfg, nil
	}
	menus, err := ctrl.GetMenuItems()
	if err != nil {
		return cfg, fmt.Errorf("menu items of %s: %w", ctrl.Name, err)
	}
	for _, m := range menus {
		cfg.MenuItems = append(cfg.MenuItems, m.Name)
	}

	return cfg, nil
}
