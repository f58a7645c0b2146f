// Package models resolves the directory holding optional detector assets
// (pigo face cascade, ONNX face model).
package models

import (
	"os"
	"path/filepath"
)

const (
	// EnvModelsDir overrides the default models directory.
	EnvModelsDir = "RELIEF_MODELS_DIR"

	// FaceCascadeFile is the expected pigo cascade filename.
	FaceCascadeFile = "facefinder"

	// FaceONNXFile is the expected ONNX face detector filename.
	FaceONNXFile = "ultraface-320.onnx"
)

// DefaultModelsDir returns the per-user default models directory.
func DefaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "models")
	}
	return filepath.Join(home, ".cache", "relief", "models")
}

// GetModelsDir resolves the models directory: an explicit override wins,
// then the environment variable, then the default.
func GetModelsDir(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvModelsDir); env != "" {
		return env
	}
	return DefaultModelsDir()
}

// FaceCascadePath returns the expected pigo cascade path under dir.
func FaceCascadePath(dir string) string {
	return filepath.Join(GetModelsDir(dir), FaceCascadeFile)
}

// FaceONNXPath returns the expected ONNX face model path under dir.
func FaceONNXPath(dir string) string {
	return filepath.Join(GetModelsDir(dir), FaceONNXFile)
}
