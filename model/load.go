package model

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// 算例文件，coaxial 与 multicircuit 二选一
type CaseFile struct {
	Coaxial      *CoaxialCase      `yaml:"coaxial"`
	MultiCircuit *MultiCircuitCase `yaml:"multicircuit"`
}

// ParseCaseFile decodes a YAML case document. Unknown keys are rejected.
func ParseCaseFile(data []byte) (*CaseFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f CaseFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding case file: %w", err)
	}
	switch {
	case f.Coaxial == nil && f.MultiCircuit == nil:
		return nil, errors.New("case file defines neither coaxial nor multicircuit")
	case f.Coaxial != nil && f.MultiCircuit != nil:
		return nil, errors.New("case file defines both coaxial and multicircuit")
	}
	return &f, nil
}

func LoadCaseFile(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCaseFile(data)
}
