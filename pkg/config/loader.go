package config

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/c9s/zigzag/pkg/datasource/csvsource"
	"github.com/c9s/zigzag/pkg/strategy/zigzag"
	"github.com/c9s/zigzag/pkg/types"
)

// Session is one csv data set replayed through its own zigzag stream
type Session struct {
	Symbol   string           `json:"symbol"`
	Files    StringSlice      `json:"file"`
	Format   csvsource.Format `json:"format,omitempty"`
	Interval types.Interval   `json:"interval,omitempty"`

	SkipInvalid bool `json:"skipInvalid,omitempty"`
}

// Optimize is the parameter grid, every devThreshold x depth pair runs separately
type Optimize struct {
	DevThresholds []float64 `json:"devThresholds,omitempty"`
	Depths        []int     `json:"depths,omitempty"`
}

type Config struct {
	// ZigZag is the strategy template shared by all the sessions
	ZigZag *zigzag.Strategy

	Optimize *Optimize
	Sessions []Session
}

// Job binds one session to one strategy instance
type Job struct {
	Stream   *csvsource.StreamConfig
	Strategy *zigzag.Strategy
}

type Stash map[string]interface{}

func loadStash(configFile string) (Stash, error) {
	config, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	return loadStashFromBytes(config)
}

func loadStashFromBytes(config []byte) (Stash, error) {
	stash := make(Stash)
	if err := yaml.Unmarshal(config, stash); err != nil {
		return nil, err
	}

	return stash, nil
}

func Load(configFile string) (*Config, error) {
	stash, err := loadStash(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load config file %s", configFile)
	}

	return loadConfig(stash)
}

// LoadFromBytes parses a yaml document that is already in memory
func LoadFromBytes(content []byte) (*Config, error) {
	stash, err := loadStashFromBytes(content)
	if err != nil {
		return nil, err
	}

	return loadConfig(stash)
}

func loadConfig(stash Stash) (*Config, error) {
	var config Config

	conf, ok := stash[zigzag.ID]
	if !ok {
		return nil, errors.Errorf("%s section is required", zigzag.ID)
	}

	// yaml.v3 decodes the nested mappings into the type of the outer map
	var strategyStash map[string]interface{}
	switch v := conf.(type) {
	case Stash:
		strategyStash = v
	case map[string]interface{}:
		strategyStash = v
	default:
		return nil, errors.Errorf("%s config should be a map, given: %T %+v", zigzag.ID, conf, conf)
	}

	// copy the map so that the nested sections are not fed into the strategy struct
	values := make(map[string]interface{}, len(strategyStash))
	for k, v := range strategyStash {
		values[k] = v
	}

	if sessionsConf, ok := values["sessions"]; ok {
		delete(values, "sessions")

		if _, ok := sessionsConf.([]interface{}); !ok {
			return nil, errors.New("expecting list in sessions")
		}

		val, err := reUnmarshal(sessionsConf, []Session(nil))
		if err != nil {
			return nil, err
		}
		config.Sessions = val.([]Session)
	}

	if optimizeConf, ok := values["optimize"]; ok {
		delete(values, "optimize")

		val, err := reUnmarshal(optimizeConf, &Optimize{})
		if err != nil {
			return nil, err
		}
		config.Optimize = val.(*Optimize)
	}

	// fields missing in the file keep the defaults of zigzag.New
	config.ZigZag = zigzag.New()
	if err := unmarshalInto(values, config.ZigZag); err != nil {
		return nil, err
	}

	if err := config.ZigZag.Defaults(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Jobs expands the sessions and the parameter grid into isolated strategy instances
func (c *Config) Jobs() (jobs []Job, err error) {
	if c.ZigZag == nil {
		return nil, errors.New("zigzag strategy config is not set")
	}

	devThresholds := []float64{c.ZigZag.DevThreshold}
	depths := []int{c.ZigZag.Depth}
	if c.Optimize != nil {
		if len(c.Optimize.DevThresholds) > 0 {
			devThresholds = c.Optimize.DevThresholds
		}

		if len(c.Optimize.Depths) > 0 {
			depths = c.Optimize.Depths
		}
	}

	for i, session := range c.Sessions {
		if len(session.Files) == 0 {
			err = multierr.Append(err, errors.Errorf("session #%d %s: file is required", i, session.Symbol))
			continue
		}

		if _, e := csvsource.ReaderMaker(session.Format); e != nil {
			err = multierr.Append(err, errors.Wrapf(e, "session #%d %s", i, session.Symbol))
			continue
		}

		for _, devThreshold := range devThresholds {
			for _, depth := range depths {
				strategy := *c.ZigZag
				strategy.Symbol = session.Symbol
				strategy.DevThreshold = devThreshold
				strategy.Depth = depth
				if session.Interval != "" {
					strategy.Interval = session.Interval
				}

				if e := strategy.Validate(); e != nil {
					err = multierr.Append(err, errors.Wrapf(e, "session #%d %s", i, strategy.InstanceID()))
					continue
				}

				jobs = append(jobs, Job{
					Stream: &csvsource.StreamConfig{
						Symbol:   strategy.Symbol,
						Interval: strategy.Interval,
						CsvPaths: session.Files,
						Format:   session.Format,

						SkipInvalid: session.SkipInvalid,
					},
					Strategy: &strategy,
				})
			}
		}
	}

	if err != nil {
		return nil, err
	}

	return jobs, nil
}

func reUnmarshal(conf interface{}, tpe interface{}) (interface{}, error) {
	// get the type "*Strategy"
	rt := reflect.TypeOf(tpe)

	// allocate new object from the given type
	val := reflect.New(rt)

	// now we have &(*Strategy) -> **Strategy
	if err := unmarshalInto(conf, val.Interface()); err != nil {
		return nil, err
	}

	return val.Elem().Interface(), nil
}

// unmarshalInto decodes conf over the current values of obj
func unmarshalInto(conf interface{}, obj interface{}) error {
	plain, err := json.Marshal(conf)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(plain, obj); err != nil {
		return errors.Wrapf(err, "json parsing error, given payload: %s", plain)
	}

	return nil
}
