package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Bounds for user-supplied parameters.
const (
	MinLat   = -90.0
	MaxLat   = 90.0
	MinLon   = -180.0
	MaxLon   = 180.0
	MinTemp  = 1000
	MaxTemp  = 10000
	MinGamma = 0.1
	MaxGamma = 10.0
)

// Default temperature preferences.
const (
	DefaultDayTemp   = 5500
	DefaultNightTemp = 3700
	DefaultGamma     = 1.0
)

// Config holds the validated settings for a duskshift run.
type Config struct {
	// Location
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`

	// Temperature preferences
	DayTemp   int        `yaml:"day_temp"`
	NightTemp int        `yaml:"night_temp"`
	Gamma     [3]float64 `yaml:"gamma"`

	// Backend selection
	Method string `yaml:"method"`
	Screen int    `yaml:"screen"`
	CRTC   int    `yaml:"crtc"`

	// Run mode
	OneShot     bool `yaml:"-"`
	Transitions bool `yaml:"transitions"`

	Verbose  bool   `yaml:"-"`
	LogLevel string `yaml:"log_level"`

	// Exec backend configuration
	GammaCommand     string   `yaml:"gamma_command"`
	GammaCommandArgs []string `yaml:"gamma_command_args"`

	// MQTT backend configuration
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTPort     int    `yaml:"mqtt_port"`
	MQTTUser     string `yaml:"mqtt_user"`
	MQTTPassword string `yaml:"mqtt_password"`
	MQTTClientID string `yaml:"mqtt_client_id"`
	MQTTTopic    string `yaml:"mqtt_topic"`
}

// NewConfig creates a Config with default values. Latitude and
// longitude default to NaN so Validate can tell them apart from a
// configured zero.
func NewConfig() *Config {
	return &Config{
		Latitude:    math.NaN(),
		Longitude:   math.NaN(),
		DayTemp:     DefaultDayTemp,
		NightTemp:   DefaultNightTemp,
		Gamma:       [3]float64{DefaultGamma, DefaultGamma, DefaultGamma},
		Screen:      -1,
		CRTC:        -1,
		Transitions: true,
		LogLevel:    "info",
		MQTTPort:    1883,
		MQTTTopic:   "duskshift/temperature",
	}
}

// Load builds the configuration with the hierarchy
// defaults -> config file -> env -> flags.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("duskshift", pflag.ContinueOnError)
	fs.SortFlags = false

	location := fs.StringP("location", "l", "", "current location as LAT:LON")
	temperatures := fs.StringP("temperatures", "t", "", "color temperatures as DAY:NIGHT")
	gamma := fs.StringP("gamma", "g", "", "gamma correction as R:G:B, or a single value for all channels")
	method := fs.StringP("method", "m", "", "display backend to use (dummy, exec or mqtt)")
	screen := fs.IntP("screen", "s", -1, "screen to apply adjustments to")
	crtc := fs.IntP("crtc", "c", -1, "CRTC to apply adjustments to (exec backend only)")
	oneShot := fs.BoolP("one-shot", "o", false, "set the temperature once and exit")
	noTransition := fs.BoolP("no-transition", "r", false, "disable temperature transitions")
	verbose := fs.BoolP("verbose", "v", false, "verbose output")
	configFile := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	gammaCommand := fs.String("gamma-command", "", "external gamma helper command for the exec backend")
	mqttBroker := fs.String("mqtt-broker", "", "MQTT broker hostname")
	mqttPort := fs.Int("mqtt-port", 0, "MQTT broker port")
	mqttUser := fs.String("mqtt-user", "", "MQTT username")
	mqttPassword := fs.String("mqtt-password", "", "MQTT password")
	mqttClientID := fs.String("mqtt-client-id", "", "MQTT client ID")
	mqttTopic := fs.String("mqtt-topic", "", "MQTT topic for temperature updates")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := NewConfig()

	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}

	cfg.LoadFromEnv()

	// Flags override file and environment values.
	if fs.Changed("location") {
		lat, lon, err := ParseLocation(*location)
		if err != nil {
			return nil, err
		}
		cfg.Latitude, cfg.Longitude = lat, lon
	}
	if fs.Changed("temperatures") {
		day, night, err := ParseTemperatures(*temperatures)
		if err != nil {
			return nil, err
		}
		cfg.DayTemp, cfg.NightTemp = day, night
	}
	if fs.Changed("gamma") {
		g, err := ParseGamma(*gamma)
		if err != nil {
			return nil, err
		}
		cfg.Gamma = g
	}
	if fs.Changed("method") {
		cfg.Method = *method
	}
	if fs.Changed("screen") {
		cfg.Screen = *screen
	}
	if fs.Changed("crtc") {
		cfg.CRTC = *crtc
	}
	if fs.Changed("one-shot") {
		cfg.OneShot = *oneShot
	}
	if fs.Changed("no-transition") {
		cfg.Transitions = !*noTransition
	}
	if fs.Changed("verbose") {
		cfg.Verbose = *verbose
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("gamma-command") {
		cfg.GammaCommand = *gammaCommand
	}
	if fs.Changed("mqtt-broker") {
		cfg.MQTTBroker = *mqttBroker
	}
	if fs.Changed("mqtt-port") {
		cfg.MQTTPort = *mqttPort
	}
	if fs.Changed("mqtt-user") {
		cfg.MQTTUser = *mqttUser
	}
	if fs.Changed("mqtt-password") {
		cfg.MQTTPassword = *mqttPassword
	}
	if fs.Changed("mqtt-client-id") {
		cfg.MQTTClientID = *mqttClientID
	}
	if fs.Changed("mqtt-topic") {
		cfg.MQTTTopic = *mqttTopic
	}

	return cfg, nil
}

// LoadFromFile merges values from a YAML configuration file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv merges values from environment variables with the
// DUSKSHIFT_ prefix.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("DUSKSHIFT_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("DUSKSHIFT_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("DUSKSHIFT_DAY_TEMP"); v != "" {
		if temp, err := strconv.Atoi(v); err == nil {
			c.DayTemp = temp
		}
	}
	if v := os.Getenv("DUSKSHIFT_NIGHT_TEMP"); v != "" {
		if temp, err := strconv.Atoi(v); err == nil {
			c.NightTemp = temp
		}
	}
	if v := os.Getenv("DUSKSHIFT_GAMMA"); v != "" {
		if g, err := ParseGamma(v); err == nil {
			c.Gamma = g
		}
	}
	if v := os.Getenv("DUSKSHIFT_METHOD"); v != "" {
		c.Method = v
	}
	if v := os.Getenv("DUSKSHIFT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DUSKSHIFT_GAMMA_COMMAND"); v != "" {
		c.GammaCommand = v
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}
	if v := os.Getenv("DUSKSHIFT_MQTT_TOPIC"); v != "" {
		c.MQTTTopic = v
	}
}

// ParseLocation parses a LAT:LON argument.
func ParseLocation(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New("malformed location argument, expected LAT:LON")
	}
	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude %q: %w", parts[0], err)
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude %q: %w", parts[1], err)
	}
	return lat, lon, nil
}

// ParseTemperatures parses a DAY:NIGHT argument in Kelvin.
func ParseTemperatures(s string) (day, night int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New("malformed temperature argument, expected DAY:NIGHT")
	}
	day, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed day temperature %q: %w", parts[0], err)
	}
	night, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed night temperature %q: %w", parts[1], err)
	}
	return day, night, nil
}

// ParseGamma parses an R:G:B gamma argument, or a single value applied
// to all three channels. Components are assigned to the channel slots
// in the order given, matching the original argument parser.
func ParseGamma(s string) ([3]float64, error) {
	var g [3]float64

	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return g, fmt.Errorf("malformed gamma argument %q: %w", s, err)
		}
		g[0], g[1], g[2] = v, v, v
		return g, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return g, errors.New("malformed gamma argument, expected R:G:B")
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return g, fmt.Errorf("malformed gamma component %q: %w", part, err)
		}
		g[i] = v
	}
	return g, nil
}

// Validate checks all parameters against their documented bounds. A
// failure here is fatal before the engine starts.
func (c *Config) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return errors.New("latitude and longitude must be set")
	}
	if c.Latitude < MinLat || c.Latitude > MaxLat {
		return fmt.Errorf("latitude must be between %.1f and %.1f", MinLat, MaxLat)
	}
	if c.Longitude < MinLon || c.Longitude > MaxLon {
		return fmt.Errorf("longitude must be between %.1f and %.1f", MinLon, MaxLon)
	}
	if c.DayTemp < MinTemp || c.DayTemp >= MaxTemp {
		return fmt.Errorf("day temperature must be between %dK and %dK", MinTemp, MaxTemp)
	}
	if c.NightTemp < MinTemp || c.NightTemp >= MaxTemp {
		return fmt.Errorf("night temperature must be between %dK and %dK", MinTemp, MaxTemp)
	}
	for _, g := range c.Gamma {
		if g < MinGamma || g > MaxGamma {
			return fmt.Errorf("gamma value must be between %.1f and %.1f", MinGamma, MaxGamma)
		}
	}
	if c.CRTC > -1 && c.Method != "exec" {
		return errors.New("CRTC can only be selected with the exec method")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address.
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}
