package barni

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SensorConfig is the on-disk description of a GaussianModel, loaded from
// YAML alongside the pipeline configuration.
type SensorConfig struct {
	Resolution      float64 `yaml:"resolution"`
	RefEnergy       float64 `yaml:"ref_energy"`
	ElectronicNoise float64 `yaml:"electronic_noise"`
	WideningPower   float64 `yaml:"widening_power"`
}

// Build constructs the GaussianModel described by this config.
func (c SensorConfig) Build() (*GaussianModel, error) {
	return NewGaussianModel(c.Resolution, c.RefEnergy, c.ElectronicNoise, c.WideningPower)
}

// PipelineConfig is the full on-disk configuration for a batch analysis
// run: the detector model plus the smoothing/discrimination tunables.
type PipelineConfig struct {
	Sensor          SensorConfig `yaml:"sensor"`
	SmoothingFactor float64      `yaml:"smoothing_factor"`
	StartEnergy     float64      `yaml:"start_energy"`
	Workers         int          `yaml:"workers"`
}

// LoadPipelineConfig reads and parses a PipelineConfig from a YAML file.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("barni: reading config %s: %w", path, err)
	}
	var cfg PipelineConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("barni: parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
