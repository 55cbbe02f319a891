package camera

import (
	"fmt"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"camview/pkg/ov"
)

// Probe reports the formats and controls devName offers and the format
// OpenV4L2 would choose for req.
func Probe(devName string, req FormatRequest) (ov.Probe, error) {
	res := ov.Probe{Device: devName}

	dev, err := device.Open(devName, device.WithBufferSize(1))
	if err != nil {
		return res, fmt.Errorf("open %s: %w", devName, err)
	}
	defer dev.Close()

	descs, err := v4l2.GetAllFormatDescriptions(dev.Fd())
	if err != nil {
		return res, fmt.Errorf("list formats: %w", err)
	}
	enums, err := v4l2.GetAllFormatFrameSizes(dev.Fd())
	if err != nil {
		return res, fmt.Errorf("list frame sizes: %w", err)
	}

	for _, d := range descs {
		f := ov.Format{FourCC: fourccString(d.PixelFormat), Description: d.Description}
		for _, e := range enums {
			if e.PixelFormat != d.PixelFormat {
				continue
			}
			if e.Size.MaxWidth*e.Size.MaxHeight > f.MaxWidth*f.MaxHeight {
				f.MaxWidth, f.MaxHeight = e.Size.MaxWidth, e.Size.MaxHeight
			}
		}
		res.Formats = append(res.Formats, f)
	}

	if fourcc, size, ok := chooseFormat(enums, req); ok {
		res.Selected = fmt.Sprintf("%s %s", fourccString(fourcc), size)
	}

	if res.Controls, err = GetKnownCtrlConfigs(dev); err != nil {
		return res, err
	}

	return res, nil
}
