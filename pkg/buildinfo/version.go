// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/pdfwatermark/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pdfwatermark/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pdfwatermark/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/pdfwatermark
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// pdfcpuModule is the PDF engine whose version is reported alongside ours.
const pdfcpuModule = "github.com/pdfcpu/pdfcpu"

// Engine returns the version of the linked PDF engine, or "unknown" when the
// binary carries no module information.
func Engine() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == pdfcpuModule {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}

// Fields returns the build information as key/value pairs for structured
// logging.
func Fields() []any {
	return []any{"version", Version, "commit", Commit, "built", Date, "pdfcpu", Engine()}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\npdfcpu: %s\n", Version, Commit, Date, Engine())
}
