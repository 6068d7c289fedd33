package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// canvasRef carries the optional "canvas" preset key that is not a
// Config field itself.
type canvasRef struct {
	Canvas string `toml:"canvas" json:"canvas"`
}

// Load reads a TOML config file. Keys absent from the file keep their
// Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := DecodeTOML(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeTOML parses a TOML document on top of Default.
func DecodeTOML(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	var ref canvasRef
	if err := toml.Unmarshal(data, &ref); err != nil {
		return Config{}, err
	}
	return applyCanvas(cfg, ref)
}

// DecodeJSON parses a JSON object on top of Default.
func DecodeJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	var ref canvasRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return Config{}, err
	}
	return applyCanvas(cfg, ref)
}

func applyCanvas(cfg Config, ref canvasRef) (Config, error) {
	if ref.Canvas == "" {
		return cfg, nil
	}
	cv, err := ParseCanvas(ref.Canvas)
	if err != nil {
		return Config{}, err
	}
	return cfg.WithCanvas(cv), nil
}

// EncodeTOML renders cfg as a TOML document, e.g. for `stylize presets --dump`.
func EncodeTOML(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
