package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/game"
	"github.com/xpbowler/climbe-terminal/utils"
)

var ErrInvalidConfig = errors.New("invalid config")

// Load reads an agent configuration from a JSON or YAML file, chosen by the
// file extension. Anything the file leaves out keeps its value from
// agent.DefaultConfig; lists and maps given in the file replace the defaults
// rather than merging into them.
func Load(path string) (agent.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("name", agent.DefaultConfig().Name)

	if err := v.ReadInConfig(); err != nil {
		return agent.Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (agent.Config, error) {
	config := agent.DefaultConfig()
	err := v.Unmarshal(&config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			cellHook(),
		)),
		func(c *mapstructure.DecoderConfig) {
			c.ZeroFields = true
			c.ErrorUnused = true
		},
	)
	if err != nil {
		return agent.Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := Validate(config); err != nil {
		return agent.Config{}, err
	}
	return config, nil
}

var cellType = reflect.TypeOf(game.Cell{})

// cellHook reads a cell written as an [x, y] pair.
func cellHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != cellType || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
			return data, nil
		}
		pair, err := cast.ToSliceE(data)
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("cell needs 2 coordinates, got %d", len(pair))
		}
		x, err := cast.ToIntE(pair[0])
		if err != nil {
			return nil, fmt.Errorf("cell x: %w", err)
		}
		y, err := cast.ToIntE(pair[1])
		if err != nil {
			return nil, fmt.Errorf("cell y: %w", err)
		}
		return game.Cell{X: x, Y: y}, nil
	}
}

// Validate reports every problem with a configuration at once.
func Validate(config agent.Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}
	ownCell := func(what string, c game.Cell) {
		if !game.InBounds(c) || c.Y >= game.HalfArena {
			invalid("%s %v is not on our half", what, c)
		}
	}

	defense := config.Defense
	for _, p := range defense.Baseline {
		if !p.Kind.Stationary() {
			invalid("baseline %s is not a structure", p.Kind)
		}
		ownCell("baseline cell", p.Cell)
	}
	if !defense.ReinforceKind.Stationary() {
		invalid("reinforcement %s is not a structure", defense.ReinforceKind)
	}
	if defense.Tier1.Threshold <= 0 {
		invalid("tier 1 threshold %v must be positive", defense.Tier1.Threshold)
	}
	if defense.Tier2.Threshold < defense.Tier1.Threshold {
		invalid("tier 2 threshold %v below tier 1 threshold %v", defense.Tier2.Threshold, defense.Tier1.Threshold)
	}
	for _, tier := range []agent.Tier{defense.Tier1, defense.Tier2, defense.MidRush} {
		for _, cells := range tier.Cells {
			for _, c := range cells {
				ownCell("reinforcement cell", c)
			}
		}
	}

	if stage := defense.Stage2; stage.Enabled {
		for _, zoned := range []map[agent.Zone][]game.Cell{stage.Cells, stage.Final} {
			for _, cells := range zoned {
				for _, c := range cells {
					ownCell("stage two cell", c)
				}
			}
		}
		for _, c := range stage.Turrets {
			ownCell("stage two turret", c)
		}
		for _, c := range stage.EdgeWalls {
			ownCell("stage two wall", c)
			for _, option := range config.Offense.Options {
				if option.Launch == c {
					invalid("stage two wall %v blocks a launch", c)
				}
			}
		}
		for zone, m := range stage.Multipliers {
			if m <= 0 {
				invalid("stage two multiplier %v for zone %s must be positive", m, zone)
			}
		}
	}

	offense := config.Offense
	if !offense.Kind.Mobile() {
		invalid("offense %s is not a mobile unit", offense.Kind)
	}
	quadrants := make([]agent.Zone, 0, len(config.Quadrants.Zones))
	for _, span := range config.Quadrants.Zones {
		quadrants = append(quadrants, span.Zone)
	}
	for _, option := range offense.Options {
		ownCell("launch cell", option.Launch)
		if utils.FindIndex(quadrants, option.Zone) < 0 {
			invalid("launch %v targets unknown zone %q", option.Launch, option.Zone)
		}
	}
	if offense.Cooldown < 0 || offense.Jitter < 0 {
		invalid("cooldown %d and jitter %d must not be negative", offense.Cooldown, offense.Jitter)
	}

	for _, region := range []agent.RegionConfig{config.Region, config.Quadrants} {
		if len(region.Zones) == 0 {
			invalid("%s region has no zones", region.Side)
		}
		for _, span := range region.Zones {
			if span.MinX > span.MaxX {
				invalid("zone %s spans %d..%d", span.Zone, span.MinX, span.MaxX)
			}
		}
	}

	if config.Spam.Burst < 1 {
		invalid("burst size %d must be at least 1", config.Spam.Burst)
	}
	return errors.Join(errs...)
}
