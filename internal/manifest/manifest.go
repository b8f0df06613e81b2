// Package manifest renders the Azure Functions deployment metadata
// (host.json and one function.json per function) for the custom handler.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nyambati/funclet/internal/registry"
	"github.com/sirupsen/logrus"
)

const (
	HostFile     = "host.json"
	FunctionFile = "function.json"

	extensionBundleID      = "Microsoft.Azure.Functions.ExtensionBundle"
	extensionBundleVersion = "[4.*, 5.0.0)"
)

type Host struct {
	Version         string          `json:"version"`
	ExtensionBundle ExtensionBundle `json:"extensionBundle"`
	CustomHandler   CustomHandler   `json:"customHandler"`
}

type ExtensionBundle struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

type CustomHandler struct {
	Description                 Description `json:"description"`
	EnableForwardingHTTPRequest bool        `json:"enableForwardingHttpRequest"`
}

type Description struct {
	DefaultExecutablePath string   `json:"defaultExecutablePath"`
	WorkingDirectory      string   `json:"workingDirectory"`
	Arguments             []string `json:"arguments"`
}

type FunctionManifest struct {
	Bindings []registry.Binding `json:"bindings"`
}

// NewHost describes a host that launches executable with the worker command.
func NewHost(executable string) *Host {
	return &Host{
		Version: "2.0",
		ExtensionBundle: ExtensionBundle{
			ID:      extensionBundleID,
			Version: extensionBundleVersion,
		},
		CustomHandler: CustomHandler{
			Description: Description{
				DefaultExecutablePath: executable,
				Arguments:             []string{"worker"},
			},
		},
	}
}

// Write renders host.json into dir and <Function>/function.json for every
// registered function. It returns the written paths.
func Write(ctx context.Context, dir, executable string, reg registry.FunctionRegistryInterface, logger *logrus.Entry) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}

	hostPath := filepath.Join(dir, HostFile)
	if err := writeJSON(hostPath, NewHost(executable)); err != nil {
		return nil, err
	}
	written := []string{hostPath}

	for _, fn := range reg.ListFunctions(ctx) {
		fnDir := filepath.Join(dir, fn.Name)
		if err := os.MkdirAll(fnDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create function directory %s: %w", fn.Name, err)
		}
		path := filepath.Join(fnDir, FunctionFile)
		if err := writeJSON(path, &FunctionManifest{Bindings: fn.Bindings}); err != nil {
			return nil, err
		}
		written = append(written, path)
		logger.WithField("function", fn.Name).Info("wrote function manifest")
	}
	return written, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
