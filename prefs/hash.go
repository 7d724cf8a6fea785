package prefs

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// deviceIDKey obfuscates the raw device ID before it enters any MAC, so a
// stored digest never reveals it.
const deviceIDKey = "PrefMetricsService"

// ValidationResult is the outcome of HashCalculator.Validate.
type ValidationResult int

const (
	Invalid ValidationResult = iota
	Valid
	// ValidLegacy means the digest was computed without a device ID.
	ValidLegacy
)

func (r ValidationResult) String() string {
	switch r {
	case Valid:
		return "valid"
	case ValidLegacy:
		return "valid-legacy"
	default:
		return "invalid"
	}
}

// HashCalculator computes MACs binding preference values to their path, the
// seed and the device.
type HashCalculator struct {
	seed     []byte
	deviceID string
}

// NewHashCalculator returns a calculator keyed by seed. deviceID may be
// empty, in which case digests are device independent.
func NewHashCalculator(seed []byte, deviceID string) *HashCalculator {
	return &HashCalculator{seed: append([]byte(nil), seed...), deviceID: deviceID}
}

// NewHashCalculatorFromDevice looks up the device ID and obfuscates it. Any
// status other than StatusSuccess, including a disabled machine ID, yields a
// device-independent calculator.
func NewHashCalculatorFromDevice(ctx context.Context, seed []byte, d *DeviceID) (*HashCalculator, Status) {
	raw, status := d.MachineSpecificID(ctx)
	if status != StatusSuccess {
		return NewHashCalculator(seed, ""), status
	}

	return NewHashCalculator(seed, ObfuscateDeviceID(raw)), status
}

// ObfuscateDeviceID hides a raw OS identifier behind a keyed digest.
func ObfuscateDeviceID(raw string) string {
	if raw == "" {
		return ""
	}

	return digest([]byte(deviceIDKey), raw)
}

// Calculate returns the upper-case hex MAC of value stored at path.
func (c *HashCalculator) Calculate(path string, value any) (string, error) {
	return c.calculate(c.deviceID, path, value)
}

// Validate checks a stored digest against value.
func (c *HashCalculator) Validate(path string, value any, stored string) (ValidationResult, error) {
	want, err := c.calculate(c.deviceID, path, value)
	if err != nil {
		return Invalid, err
	}
	if hmac.Equal([]byte(want), []byte(strings.ToUpper(stored))) {
		return Valid, nil
	}

	if c.deviceID == "" {
		return Invalid, nil
	}

	legacy, err := c.calculate("", path, value)
	if err != nil {
		return Invalid, err
	}
	if hmac.Equal([]byte(legacy), []byte(strings.ToUpper(stored))) {
		return ValidLegacy, nil
	}

	return Invalid, nil
}

func (c *HashCalculator) calculate(deviceID, path string, value any) (string, error) {
	serialized, err := serialize(value)
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", path, err)
	}

	return digest(c.seed, deviceID+path+serialized), nil
}

// serialize renders value as canonical JSON. nil serializes to "" and empty
// nested objects are dropped so that they do not affect the digest.
func serialize(value any) (string, error) {
	if value == nil {
		return "", nil
	}

	if m, ok := value.(map[string]any); ok {
		value = pruneEmpty(m)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func pruneEmpty(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			child = pruneEmpty(child)
			if len(child) == 0 {
				continue
			}
			v = child
		}
		out[k] = v
	}

	return out
}

func digest(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
