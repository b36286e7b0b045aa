package capability

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"go.uber.org/zap"
)

const (
	// EnvReducedMotion is read by Probe as the reduced-motion preference.
	EnvReducedMotion = "OXY_HOVER_REDUCED_MOTION"

	// EnvSaveData is read by Probe as the data-saving preference.
	EnvSaveData = "OXY_HOVER_SAVE_DATA"
)

// Overrides replace individual probed signals. Nil fields keep the probed value.
type Overrides struct {
	ReducedMotion  *bool
	SaveData       *bool
	DeviceMemoryGB *float64
	LogicalCores   *int
}

// Probe gathers Signals from the running host. Memory comes from the platform
// specific deviceMemoryGB, cores from the Go runtime and the two preferences
// from the environment.
//
// Parameters:
//   - o: explicit overrides applied after probing
//
// Returns:
//   - Signals: the collected signals
func Probe(o Overrides) Signals {
	s := Signals{
		ReducedMotion: envFlag(EnvReducedMotion),
		SaveData:      envFlag(EnvSaveData),
	}
	if mem, ok := deviceMemoryGB(); ok {
		s.DeviceMemoryGB = &mem
	}
	if cores := runtime.NumCPU(); cores > 0 {
		s.LogicalCores = &cores
	}

	if o.ReducedMotion != nil {
		s.ReducedMotion = *o.ReducedMotion
	}
	if o.SaveData != nil {
		s.SaveData = *o.SaveData
	}
	if o.DeviceMemoryGB != nil {
		s.DeviceMemoryGB = o.DeviceMemoryGB
	}
	if o.LogicalCores != nil {
		s.LogicalCores = o.LogicalCores
	}
	return s
}

// envFlag reads a boolean environment variable. Unset or unparsable values are false.
func envFlag(name string) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "reduce", "on", "yes":
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logging.Named("capability").Warn("ignoring unparsable preference",
			zap.String("env", name), zap.String("value", v), zap.Error(err))
		return false
	}
	return b
}
