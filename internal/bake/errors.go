package bake

import "fmt"

// AtlasBuildError reports that the chart packer rejected a submesh.
// Fatal: aborts the pipeline.
type AtlasBuildError struct {
	SubMeshIndex int
	Reason       string
}

func (e *AtlasBuildError) Error() string {
	return fmt.Sprintf("atlas build failed for submesh %d: %s", e.SubMeshIndex, e.Reason)
}

// RayOracleInitError reports that the ray-scene intersection oracle
// failed to initialize. Fatal: aborts the pipeline.
type RayOracleInitError struct {
	Reason string
}

func (e *RayOracleInitError) Error() string {
	return fmt.Sprintf("ray oracle init failed: %s", e.Reason)
}

// IoError wraps a persistence failure (LightmapStore.Save/Load). The
// bake CLI only saves: it never loads a cached lightmap and always
// bakes anew, and a failed save is fatal there.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// NumericError reports a NaN or non-finite value produced during path
// tracing. In debug builds the caller should treat this as fatal; in
// release builds the offending sample is clamped to zero and counted.
type NumericError struct {
	Context string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s", e.Context)
}
