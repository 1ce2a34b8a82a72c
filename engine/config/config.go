package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "pneumostabsim.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. PNEUMOSTABSIM_CAMERA_FOV.
const EnvPrefix = "PNEUMOSTABSIM"

// FlagKeys maps command line flag names to the config keys they override.
var FlagKeys = map[string]string{
	"log-level": "logLevel",
	"log-file":  "logFile",
	"width":     "window.width",
	"height":    "window.height",
	"tick-rate": "engine.tickRate",
	"profile":   "engine.profiling",
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// EngineConfig holds loop settings.
type EngineConfig struct {
	TickRate  float64 `json:"tickRate" mapstructure:"tickRate"`
	Profiling bool    `json:"profiling" mapstructure:"profiling"`
}

// CameraConfig holds the initial camera state. Lengths are in controller units
// (millimetres).
type CameraConfig struct {
	Distance                float64 `json:"distance" mapstructure:"distance"`
	YawDeg                  float64 `json:"yawDeg" mapstructure:"yawDeg"`
	PitchDeg                float64 `json:"pitchDeg" mapstructure:"pitchDeg"`
	Fov                     float64 `json:"fov" mapstructure:"fov"`
	Near                    float64 `json:"near" mapstructure:"near"`
	Far                     float64 `json:"far" mapstructure:"far"`
	Speed                   float64 `json:"speed" mapstructure:"speed"`
	RotateSpeed             float64 `json:"rotateSpeed" mapstructure:"rotateSpeed"`
	AutoRotate              bool    `json:"autoRotate" mapstructure:"autoRotate"`
	AutoRotateSpeed         float64 `json:"autoRotateSpeed" mapstructure:"autoRotateSpeed"`
	MotionSettlingMs        int64   `json:"motionSettlingMs" mapstructure:"motionSettlingMs"`
	AdaptiveMotion          bool    `json:"adaptiveMotion" mapstructure:"adaptiveMotion"`
	SceneScaleFactor        float64 `json:"sceneScaleFactor" mapstructure:"sceneScaleFactor"`
	ControllerUnitsPerMeter float64 `json:"controllerUnitsPerMeter" mapstructure:"controllerUnitsPerMeter"`
	SceneUnitsPerMeter      float64 `json:"sceneUnitsPerMeter" mapstructure:"sceneUnitsPerMeter"`
	SmoothingMs             int64   `json:"smoothingMs" mapstructure:"smoothingMs"`
}

// GeometryConfig holds the initial frame geometry in controller units.
type GeometryConfig struct {
	FrameLength float64 `json:"frameLength" mapstructure:"frameLength"`
	TrackWidth  float64 `json:"trackWidth" mapstructure:"trackWidth"`
	FrameHeight float64 `json:"frameHeight" mapstructure:"frameHeight"`
	BeamSize    float64 `json:"beamSize" mapstructure:"beamSize"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string         `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string         `json:"logFile" mapstructure:"logFile"`
	Window   WindowConfig   `json:"window" mapstructure:"window"`
	Engine   EngineConfig   `json:"engine" mapstructure:"engine"`
	Camera   CameraConfig   `json:"camera" mapstructure:"camera"`
	Geometry GeometryConfig `json:"geometry" mapstructure:"geometry"`
}

// setDefaults registers every key with its default so environment overrides
// and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")

	v.SetDefault("window.title", "PneumoStabSim")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)

	v.SetDefault("engine.tickRate", 60.0)
	v.SetDefault("engine.profiling", false)

	v.SetDefault("camera.distance", camera.DefaultDistance)
	v.SetDefault("camera.yawDeg", camera.DefaultYawDeg)
	v.SetDefault("camera.pitchDeg", camera.DefaultPitchDeg)
	v.SetDefault("camera.fov", camera.DefaultFov)
	v.SetDefault("camera.near", camera.DefaultNearPlane)
	v.SetDefault("camera.far", camera.DefaultFarPlane)
	v.SetDefault("camera.speed", camera.DefaultSpeed)
	v.SetDefault("camera.rotateSpeed", camera.DefaultRotateSpeed)
	v.SetDefault("camera.autoRotate", false)
	v.SetDefault("camera.autoRotateSpeed", camera.DefaultAutoRotateSpeed)
	v.SetDefault("camera.motionSettlingMs", camera.DefaultMotionSettling.Milliseconds())
	v.SetDefault("camera.adaptiveMotion", true)
	v.SetDefault("camera.sceneScaleFactor", camera.DefaultSceneScaleFactor)
	v.SetDefault("camera.controllerUnitsPerMeter", camera.DefaultControllerUnitsPerMeter)
	v.SetDefault("camera.sceneUnitsPerMeter", camera.DefaultSceneUnitsPerMeter)
	v.SetDefault("camera.smoothingMs", camera.DefaultSmoothing.Milliseconds())

	g := camera.DefaultGeometry()
	v.SetDefault("geometry.frameLength", g.FrameLength)
	v.SetDefault("geometry.trackWidth", g.TrackWidth)
	v.SetDefault("geometry.frameHeight", g.FrameHeight)
	v.SetDefault("geometry.beamSize", g.BeamSize)
}

// Load reads the JSON config file from configDir, layered over defaults and
// under environment variables and any changed command line flags named in
// FlagKeys. A missing file is not an error; a malformed one is.
//
// Parameters:
//   - configDir: the directory containing the config file (empty skips the file)
//   - flags: the parsed command line (nil for none)
//
// Returns:
//   - Config: the resolved configuration
//   - error: error if the file cannot be parsed or decoded
func Load(configDir string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("error binding flag %q: %w", name, err)
			}
		}
	}

	if configDir != "" {
		v.SetConfigName(FileName)
		v.SetConfigType("json")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize repairs values the camera would reject so startup always begins
// from a valid pose.
func (c *Config) normalize() {
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	c.Window.Title = common.Coalesce(c.Window.Title, "PneumoStabSim")
	c.LogLevel = common.Coalesce(c.LogLevel, "info")

	cam := &c.Camera
	cam.Distance = camera.ClampDistance(cam.Distance)
	cam.YawDeg = common.ClampFinite(cam.YawDeg, -1e6, 1e6, camera.DefaultYawDeg)
	cam.PitchDeg = camera.ClampPitch(cam.PitchDeg)
	cam.Fov = common.ClampFinite(cam.Fov, camera.MinFov, camera.MaxFov, camera.DefaultFov)
	cam.Near = common.PositiveOr(cam.Near, camera.DefaultNearPlane)
	cam.Far = common.PositiveOr(cam.Far, camera.DefaultFarPlane)
	if cam.Far <= cam.Near+camera.MinClipGap {
		cam.Far = cam.Near + 1
	}
	if !common.IsFinite(cam.Speed) || cam.Speed < 0 {
		cam.Speed = camera.DefaultSpeed
	}
	cam.RotateSpeed = common.PositiveOr(cam.RotateSpeed, camera.DefaultRotateSpeed)
	cam.AutoRotateSpeed = common.ClampFinite(cam.AutoRotateSpeed, -1e3, 1e3, camera.DefaultAutoRotateSpeed)
	if cam.MotionSettlingMs < 0 {
		cam.MotionSettlingMs = camera.DefaultMotionSettling.Milliseconds()
	}
	if cam.SmoothingMs < 0 {
		cam.SmoothingMs = 0
	}
}

// CameraGeometry returns the configured frame geometry.
//
// Returns:
//   - camera.Geometry: the geometry with FrameToPivot absent
func (c Config) CameraGeometry() camera.Geometry {
	g := camera.DefaultGeometry()
	g.FrameLength = c.Geometry.FrameLength
	g.TrackWidth = c.Geometry.TrackWidth
	g.FrameHeight = c.Geometry.FrameHeight
	g.BeamSize = c.Geometry.BeamSize
	return g
}

// ControllerOptions translates the camera and geometry sections into camera
// controller options.
//
// Returns:
//   - []camera.ControllerOption: options for camera.NewCameraController
func (c Config) ControllerOptions() []camera.ControllerOption {
	cam := c.Camera
	return []camera.ControllerOption{
		camera.WithGeometry(c.CameraGeometry()),
		camera.WithSceneScaleFactor(cam.SceneScaleFactor),
		camera.WithSmoothing(time.Duration(cam.SmoothingMs) * time.Millisecond),
		camera.WithStateOptions(
			camera.WithDistance(cam.Distance),
			camera.WithOrbit(cam.YawDeg, cam.PitchDeg),
			camera.WithFov(cam.Fov),
			camera.WithClipPlanes(cam.Near, cam.Far),
			camera.WithSpeed(cam.Speed),
			camera.WithRotateSpeed(cam.RotateSpeed),
			camera.WithAutoRotate(cam.AutoRotate, cam.AutoRotateSpeed),
		),
		camera.WithRigOptions(
			camera.WithControllerUnitsPerMeter(cam.ControllerUnitsPerMeter),
			camera.WithSceneUnitsPerMeter(cam.SceneUnitsPerMeter),
		),
		camera.WithInputOptions(
			camera.WithMotionSettling(time.Duration(cam.MotionSettlingMs)*time.Millisecond),
			camera.WithAdaptiveMotion(cam.AdaptiveMotion),
			camera.WithViewportHeight(float64(c.Window.Height)),
		),
	}
}
