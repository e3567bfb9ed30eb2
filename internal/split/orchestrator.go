package split

import (
	"log"
	"time"

	"schemsplit/internal/materials"
	"schemsplit/internal/schematic"
)

// Options are the splitter tunables. Validation of user-facing bounds
// happens in the config layer; the orchestrator only refuses a
// non-positive edge (via the planner).
type Options struct {
	Enabled         bool
	ChunkEdge       int
	GenerateReports bool
}

// ChunkWriter persists split artifacts. Failures are reported through
// the error, never silently swallowed.
type ChunkWriter interface {
	WriteChunkVolume(dir, baseName string, chunk *schematic.Schematic) error
	WriteTextReport(dir, fileName, content string) error
}

// Recorder is an optional index of split runs and their artifacts.
type Recorder interface {
	BeginRun(source string, edge int, reports bool, startedAt time.Time) (int64, error)
	RecordChunk(runID int64, region string, index [3]int, path string, blocks int) error
	RecordReport(runID int64, chunkName, path string, items int) error
	FinishRun(runID int64, code string, chunks int) error
}

// Notifier carries the single user-facing success/failure signal.
type Notifier interface {
	SplitComplete(totalChunks int, dirName string)
	SplitFailed(baseName string)
}

// Result summarizes one split invocation.
type Result struct {
	Code   string
	Chunks int
	OutDir string
}

func (r Result) OK() bool {
	return r.Code == CodeDisabled || r.Code == CodeComplete
}

// Orchestrator drives the whole split: per-region grid planning, per-
// chunk extraction and persistence, optional material reports, outcome
// accounting. Per-chunk and per-region faults are recovered locally; no
// fault propagates to the caller.
type Orchestrator struct {
	Opts   Options
	Log    *log.Logger
	Writer ChunkWriter

	// Resolver enables material reports; nil disables them regardless
	// of Opts.GenerateReports.
	Resolver materials.Resolver

	Index  Recorder // optional
	Notify Notifier // optional

	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Split partitions every region of src into chunks of the configured
// edge length, writing each as baseName_region_xI_yJ_zK under outDir.
// Disabled is a successful no-op. The run fails only when it produces
// no chunks at all or hits a fault outside the per-chunk loops.
func (o *Orchestrator) Split(src *schematic.Schematic, baseName, outDir string) (res Result) {
	if !o.Opts.Enabled {
		return Result{Code: CodeDisabled}
	}

	defer func() {
		if r := recover(); r != nil {
			o.Log.Printf("error splitting schematic %q: %v", baseName, r)
			res = Result{Code: CodeUnrecoverable, OutDir: outDir}
			o.notifyFailed(baseName)
		}
	}()

	edge := o.Opts.ChunkEdge
	o.Log.Printf("starting schematic split for %q into %dx%dx%d chunks", baseName, edge, edge, edge)

	var runID int64
	if o.Index != nil {
		id, err := o.Index.BeginRun(baseName, edge, o.Opts.GenerateReports, o.now())
		if err != nil {
			o.Log.Printf("index: begin run: %v", err)
		} else {
			runID = id
		}
	}

	extractor := &Extractor{Log: o.Log, Now: o.Now}
	totalChunks := 0

	for _, region := range src.Regions {
		if region == nil || hasZeroComponent(region.Size) || len(region.Blocks) == 0 {
			name := "?"
			if region != nil {
				name = region.Name
			}
			o.Log.Printf("%s: skipping region %q - missing size or position data", CodeMissingRegionData, name)
			continue
		}

		grid, err := PlanGrid(region.Size[0], region.Size[1], region.Size[2], edge)
		if err != nil {
			o.Log.Printf("%s: %v", CodeInvalidConfig, err)
			res = Result{Code: CodeInvalidConfig, OutDir: outDir}
			o.finishRun(runID, res)
			o.notifyFailed(baseName)
			return res
		}

		sx, sy, sz := region.Extent()
		o.Log.Printf("region %q size %dx%dx%d will create %dx%dx%d chunks (%d total)",
			region.Name, sx, sy, sz, grid.X, grid.Y, grid.Z, grid.Total())

		for ix := 0; ix < grid.X; ix++ {
			for iy := 0; iy < grid.Y; iy++ {
				for iz := 0; iz < grid.Z; iz++ {
					plan, ok := PlanChunk(region.Name, region.Size, ix, iy, iz, edge)
					if !ok {
						continue
					}
					chunk := extractor.Extract(src, region, plan)
					if chunk == nil {
						continue
					}

					chunkName := ChunkFileName(baseName, region.Name, plan.Index)
					if err := o.Writer.WriteChunkVolume(outDir, chunkName, chunk); err != nil {
						o.Log.Printf("%s: failed to write chunk %q: %v", CodePersistenceFault, chunkName, err)
						continue
					}
					totalChunks++
					o.recordChunk(runID, plan, chunkName, chunk.Meta.TotalBlocks)

					if o.Opts.GenerateReports && o.Resolver != nil {
						o.writeReport(runID, chunk, outDir, chunkName, plan.Index)
					}
				}
			}
		}
	}

	if totalChunks > 0 {
		o.Log.Printf("successfully split schematic into %d chunks in %q", totalChunks, outDir)
		res = Result{Code: CodeComplete, Chunks: totalChunks, OutDir: outDir}
		o.finishRun(runID, res)
		if o.Notify != nil {
			o.Notify.SplitComplete(totalChunks, outDir)
		}
		return res
	}

	o.Log.Printf("%s: no chunks were created during split operation", CodeNoChunks)
	res = Result{Code: CodeNoChunks, OutDir: outDir}
	o.finishRun(runID, res)
	o.notifyFailed(baseName)
	return res
}

// writeReport aggregates and persists one chunk's material list. Report
// failures are logged and never fail the chunk.
func (o *Orchestrator) writeReport(runID int64, chunk *schematic.Schematic, outDir, chunkName string, index [3]int) {
	entries := materials.Aggregate(chunk, o.Resolver)
	if len(entries) == 0 {
		return
	}
	content := materials.RenderReport(index, chunk.Meta.Name, entries)
	fileName := chunkName + "_materials.txt"
	if err := o.Writer.WriteTextReport(outDir, fileName, content); err != nil {
		o.Log.Printf("%s: failed to write material list %q: %v", CodePersistenceFault, fileName, err)
		return
	}
	if o.Index != nil && runID != 0 {
		if err := o.Index.RecordReport(runID, chunkName, fileName, materials.TotalItems(entries)); err != nil {
			o.Log.Printf("index: record report: %v", err)
		}
	}
}

func (o *Orchestrator) recordChunk(runID int64, plan ChunkPlan, chunkName string, blocks int) {
	if o.Index == nil || runID == 0 {
		return
	}
	if err := o.Index.RecordChunk(runID, plan.Region, plan.Index, chunkName, blocks); err != nil {
		o.Log.Printf("index: record chunk: %v", err)
	}
}

func (o *Orchestrator) finishRun(runID int64, res Result) {
	if o.Index == nil || runID == 0 {
		return
	}
	if err := o.Index.FinishRun(runID, res.Code, res.Chunks); err != nil {
		o.Log.Printf("index: finish run: %v", err)
	}
}

func (o *Orchestrator) notifyFailed(baseName string) {
	if o.Notify != nil {
		o.Notify.SplitFailed(baseName)
	}
}

func hasZeroComponent(size [3]int) bool {
	return size[0] == 0 || size[1] == 0 || size[2] == 0
}
