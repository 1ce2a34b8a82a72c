package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/rs/zerolog"
)

// Commands an envelope may carry after its payloads are applied.
const (
	CommandResetView     = "reset_view"
	CommandFullResetView = "full_reset_view"
	CommandAutoFit       = "auto_fit"
)

// Envelope is one host update. Geometry is applied before Camera so a
// center_camera request fits the new frame.
type Envelope struct {
	Geometry map[string]any `json:"geometry"`
	Camera   map[string]any `json:"camera"`
	Command  string         `json:"command"`
}

// Target is the part of the camera controller the bridge drives.
type Target interface {
	UpdateGeometryPayload(payload map[string]any)
	ApplyCameraPayload(payload map[string]any)
	ResetView()
	FullResetView()
	AutoFitFrame(margin float64)
}

var _ Target = camera.CameraController(nil)

// Decode reads envelopes from r. The stream may hold a single object, an
// array of objects, or several concatenated objects. Numbers are kept as
// json.Number so integer-valued lengths survive unchanged.
//
// Parameters:
//   - r: the JSON source
//
// Returns:
//   - []Envelope: the decoded envelopes in order
//   - error: error if the stream is not valid JSON of the expected shape
func Decode(r io.Reader) ([]Envelope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var list []Envelope
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to decode payload list: %w", err)
		}
		return list, nil
	}

	var out []Envelope
	for {
		var env Envelope
		err := dec.Decode(&env)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload %d: %w", len(out), err)
		}
		out = append(out, env)
	}
}

// Load decodes envelopes from a file.
//
// Parameters:
//   - path: the payload file
//
// Returns:
//   - []Envelope: the decoded envelopes in order
//   - error: error if the file cannot be opened or decoded
func Load(path string) ([]Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload file: %w", err)
	}
	defer f.Close()

	envs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return envs, nil
}

// Apply feeds one envelope to the target: geometry, then camera, then the
// command. Unknown commands are logged and skipped.
//
// Parameters:
//   - t: the controller to update
//   - env: the envelope
//   - logger: receives a warning for unknown commands
func Apply(t Target, env Envelope, logger zerolog.Logger) {
	if len(env.Geometry) > 0 {
		t.UpdateGeometryPayload(env.Geometry)
	}
	if len(env.Camera) > 0 {
		t.ApplyCameraPayload(env.Camera)
	}

	switch strings.ToLower(strings.TrimSpace(env.Command)) {
	case "":
	case CommandResetView, "reset":
		t.ResetView()
	case CommandFullResetView:
		t.FullResetView()
	case CommandAutoFit, "fit":
		t.AutoFitFrame(camera.DefaultMarginFactor)
	default:
		logger.Warn().Str("command", env.Command).Msg("unknown bridge command")
	}
}

// ApplyFile loads a payload file and applies every envelope in order.
//
// Parameters:
//   - t: the controller to update
//   - path: the payload file
//   - logger: the logger for progress and unknown commands
//
// Returns:
//   - int: the number of envelopes applied
//   - error: error if the file cannot be loaded
func ApplyFile(t Target, path string, logger zerolog.Logger) (int, error) {
	envs, err := Load(path)
	if err != nil {
		return 0, err
	}
	for _, env := range envs {
		Apply(t, env, logger)
	}
	logger.Debug().Str("path", path).Int("envelopes", len(envs)).Msg("applied payload file")
	return len(envs), nil
}
