package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cmmoran/apitypegen/internal/model"
	"github.com/cmmoran/apitypegen/pkg/action/annotate"
	"github.com/cmmoran/apitypegen/pkg/codegen"
	"github.com/cmmoran/apitypegen/pkg/manifest"
)

var ErrNoPrevious = errors.New("no current/previous snapshots recorded")

// Generate annotates opts.InFile into a versioned document next to
// opts.OutFile and records it in the manifest.
func Generate(ctx context.Context, opts *codegen.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	if snapshotVersion == "" {
		return "", errors.New("snapshot version is required")
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	versioned := *opts
	versioned.OutFile = versionedFile(opts.OutFile, snapshotName, snapshotVersion)
	g, outFile, err := annotate.Generate(ctx, &versioned)
	if err != nil {
		return "", err
	}

	digest, err := manifest.Digest(outFile)
	if err != nil {
		return "", err
	}
	m.AddSnapshot(manifest.Snapshot{
		Name:       snapshotName,
		Version:    snapshotVersion,
		File:       outFile,
		Digest:     digest,
		Models:     len(g.Schema.Models),
		Operations: len(g.Schema.Operations),
	})

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return outFile, nil
}

// versionedFile turns "types_gen.yaml" into "types_gen.<name>-<version>.yaml".
func versionedFile(outFile, name, version string) string {
	if outFile == "" {
		outFile = codegen.DefaultOutFile
	}
	ext := filepath.Ext(outFile)
	base := strings.TrimSuffix(outFile, ext)
	tag := version
	if name != "" {
		tag = name + "-" + version
	}
	return base + "." + tag + ext
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the current and previous snapshot documents
// and returns their structural diff, empty when they are equal.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", ErrNoPrevious
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := codegen.ReadDocument(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := codegen.ReadDocument(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return cmp.Diff(previous, current,
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(model.Property{}, "Annotated"),
		cmpopts.IgnoreFields(model.Parameter{}, "Annotated"),
		cmpopts.IgnoreFields(model.Operation{}, "Annotated"),
	), nil
}
