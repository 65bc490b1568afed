package sattrack

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _sattrackconfig{}
)

// _sattrackconfig is a "hidden" struct, just use `sattrackConfig`
type _sattrackconfig struct {
	refractionHorizonDeg float64
	solarFlareAngleDeg   float64
	lunarFlareAngleDeg   float64
	panelTiltDeg         float64
	fastTrig             bool
	outputDir            string
}

// sattrackConfig returns the library configuration. Unlike most tools the
// configuration is optional: when the SATTRACK_CONFIG environment variable is
// unset, the built-in defaults apply. When it is set, the directory it names
// must contain a readable conf.toml.
func sattrackConfig() _sattrackconfig {
	if cfgLoaded {
		return config
	}
	conf := _sattrackconfig{
		refractionHorizonDeg: -34.0 / 60.0,
		solarFlareAngleDeg:   2.0,
		lunarFlareAngleDeg:   0.5,
		panelTiltDeg:         40.0,
		fastTrig:             false,
		outputDir:            "./",
	}
	confPath := os.Getenv("SATTRACK_CONFIG")
	if confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml not found", confPath))
		}
		if viper.IsSet("horizon.refraction_deg") {
			conf.refractionHorizonDeg = viper.GetFloat64("horizon.refraction_deg")
		}
		if viper.IsSet("flares.solar_angle_deg") {
			conf.solarFlareAngleDeg = viper.GetFloat64("flares.solar_angle_deg")
		}
		if viper.IsSet("flares.lunar_angle_deg") {
			conf.lunarFlareAngleDeg = viper.GetFloat64("flares.lunar_angle_deg")
		}
		if viper.IsSet("flares.panel_tilt_deg") {
			conf.panelTiltDeg = viper.GetFloat64("flares.panel_tilt_deg")
		}
		if viper.IsSet("general.fast_trig") {
			conf.fastTrig = viper.GetBool("general.fast_trig")
		}
		if viper.IsSet("general.output_path") {
			conf.outputDir = viper.GetString("general.output_path")
		}
	}
	if conf.solarFlareAngleDeg <= 0 || conf.lunarFlareAngleDeg <= 0 {
		panic("flare angle thresholds must be strictly positive")
	}
	cfgLoaded = true
	config = conf
	return config
}

// DefaultPrecision returns the precision mode selected by the configuration.
func DefaultPrecision() PrecisionMode {
	if sattrackConfig().fastTrig {
		return PrecisionFast
	}
	return PrecisionExact
}

// RefractionHorizon returns the configured optical horizon in radians. The
// default accounts for standard atmospheric refraction (-34 arcminutes).
func RefractionHorizon() float64 {
	return sattrackConfig().refractionHorizonDeg * deg2rad
}
