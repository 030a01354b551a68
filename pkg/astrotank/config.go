package astrotank

import (
	"github.com/Asteroidea-tn/tankbox/pkg/astroenv"
	"github.com/Asteroidea-tn/tankbox/pkg/astrogeom"
	"github.com/Asteroidea-tn/tankbox/pkg/astrolog"
	"github.com/Asteroidea-tn/tankbox/pkg/astroreport"
)

// TankConfig is the body being modeled. Rotation is in degrees,
// counter-clockwise from north; Front and Side share one length unit.
type TankConfig struct {
	X        float64 `env:"TANK_X,3.0" yaml:"x"`
	Y        float64 `env:"TANK_Y,3.0" yaml:"y"`
	Rotation float64 `env:"TANK_ROT,270.0" yaml:"rotation"`
	Front    float64 `env:"TANK_FRONT,1.2" yaml:"front"`
	Side     float64 `env:"TANK_SIDE,2.5" yaml:"side"`
	Validate bool    `env:"TANK_VALIDATE,true" yaml:"validate"`
}

func (c TankConfig) Position() astrogeom.Position {
	return astrogeom.Position{X: c.X, Y: c.Y, Orientation: c.Rotation}
}

func (c TankConfig) Dimensions() astrogeom.Dimensions {
	return astrogeom.Dimensions{Front: c.Front, Side: c.Side}
}

type Config struct {
	Tank TankConfig             `yaml:"tank"`
	Log  astrolog.Config        `yaml:"log"`
	Mail astroreport.MailConfig `yaml:"mail"`

	ConfigFile string `env:"TANK_CONFIG_FILE," yaml:"-"`
}

// DefaultTank is the reference tank: centered at (3, 3), facing 270°,
// 1.2 x 2.5 inches.
func DefaultTank() TankConfig {
	return TankConfig{
		X:        3.0,
		Y:        3.0,
		Rotation: 270.0,
		Front:    1.2,
		Side:     2.5,
		Validate: true,
	}
}

// LoadConfig reads the environment (and dotenv files), then overlays the YAML
// file named by yamlPath or, when empty, by TANK_CONFIG_FILE.
func LoadConfig(yamlPath string, envFiles ...string) (Config, error) {
	var cfg Config
	if err := astroenv.LoadEnv(&cfg, envFiles...); err != nil {
		return Config{}, err
	}

	if yamlPath == "" {
		yamlPath = cfg.ConfigFile
	}
	if yamlPath != "" {
		if err := astroenv.LoadYAMLFile(yamlPath, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = yamlPath
	}

	return cfg, nil
}
