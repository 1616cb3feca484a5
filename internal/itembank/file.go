package itembank

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// CalibrationMajor is the calibration format major version this build reads.
const CalibrationMajor = "v1"

// ErrIncompatibleCalibration is returned for bank files calibrated under a
// different major version.
var ErrIncompatibleCalibration = errors.New("incompatible calibration version")

// BankFile is the on-disk YAML form of an item bank.
type BankFile struct {
	CalibrationVersion string   `yaml:"calibration_version"`
	Description        string   `yaml:"description,omitempty"`
	Records            []Record `yaml:"items,omitempty"`
	Items              []Item   `yaml:"calibrated_items,omitempty"`
}

// ReadBankFile parses and version-checks a YAML bank file.
func ReadBankFile(path string) (*BankFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return ParseBankFile(data)
}

// ParseBankFile parses YAML bank data.
func ParseBankFile(data []byte) (*BankFile, error) {
	var f BankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bank file: %w", err)
	}
	if err := checkCalibration(f.CalibrationVersion); err != nil {
		return nil, err
	}
	return &f, nil
}

func checkCalibration(v string) error {
	if v == "" {
		return fmt.Errorf("%w: calibration_version is required", ErrIncompatibleCalibration)
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleCalibration, v)
	}
	if semver.Major(v) != CalibrationMajor {
		return fmt.Errorf("%w: got %s, want %s.x", ErrIncompatibleCalibration, v, CalibrationMajor)
	}
	return nil
}

// AllRecords returns calibrated items as records followed by plain records.
func (f *BankFile) AllRecords() []Record {
	out := make([]Record, 0, len(f.Items)+len(f.Records))
	for _, it := range f.Items {
		out = append(out, RecordFromItem(it))
	}
	return append(out, f.Records...)
}

// FileRepository serves records from a YAML bank file.
type FileRepository struct {
	Path string
}

// AllItems reads the file on every call.
func (r FileRepository) AllItems(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := ReadBankFile(r.Path)
	if err != nil {
		return nil, err
	}
	return f.AllRecords(), nil
}

// WriteBankFile marshals items as a v1 calibrated bank.
func WriteBankFile(path string, items []Item) error {
	f := BankFile{CalibrationVersion: CalibrationMajor + ".0.0", Items: items}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal bank file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write bank file: %w", err)
	}
	return nil
}
