package types

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// CameraSettings maps V4L2 control ids to the value applied once the
// stream is running.
type CameraSettings map[v4l2.CtrlID]v4l2.CtrlValue

// UnmarshalJSON accepts the control ids as object keys, which JSON can
// only express as strings.
func (s *CameraSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]int32
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	res := make(CameraSettings, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return err
		}
		res[v4l2.CtrlID(id)] = v4l2.CtrlValue(v)
	}
	*s = res

	return nil
}
