package split

import (
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"schemsplit/internal/schematic"
	"schemsplit/internal/schemtest"
)

// memWriter captures artifacts in memory and can be told to fail.
type memWriter struct {
	chunks  map[string]*schematic.Schematic
	reports map[string]string

	failChunks  map[string]bool
	failReports bool
	panicOnce   bool
}

func newMemWriter() *memWriter {
	return &memWriter{
		chunks:     map[string]*schematic.Schematic{},
		reports:    map[string]string{},
		failChunks: map[string]bool{},
	}
}

func (w *memWriter) WriteChunkVolume(dir, baseName string, chunk *schematic.Schematic) error {
	if w.panicOnce {
		w.panicOnce = false
		panic("disk on fire")
	}
	if w.failChunks[baseName] {
		return fmt.Errorf("write %s: no space", baseName)
	}
	w.chunks[baseName] = chunk
	return nil
}

func (w *memWriter) WriteTextReport(dir, fileName, content string) error {
	if w.failReports {
		return fmt.Errorf("write %s: no space", fileName)
	}
	w.reports[fileName] = content
	return nil
}

type memNotifier struct {
	completed []string
	failed    []string
}

func (n *memNotifier) SplitComplete(totalChunks int, dirName string) {
	n.completed = append(n.completed, fmt.Sprintf("%d:%s", totalChunks, dirName))
}

func (n *memNotifier) SplitFailed(baseName string) {
	n.failed = append(n.failed, baseName)
}

func testOrchestrator(w *memWriter, opts Options) (*Orchestrator, *memNotifier) {
	n := &memNotifier{}
	return &Orchestrator{
		Opts:     opts,
		Log:      log.New(os.Stdout, "[test] ", 0),
		Writer:   w,
		Resolver: schemtest.StaticResolver{},
		Notify:   n,
		Now:      func() time.Time { return time.UnixMilli(1700000000000) },
	}, n
}

func TestSplit_DisabledIsNoOp(t *testing.T) {
	w := newMemWriter()
	o, n := testOrchestrator(w, Options{Enabled: false, ChunkEdge: 16})

	res := o.Split(schemtest.Patterned("tower", [3]int{10, 10, 10}), "tower", "out")
	if !res.OK() || res.Code != CodeDisabled {
		t.Fatalf("result %+v", res)
	}
	if len(w.chunks) != 0 || len(n.completed) != 0 || len(n.failed) != 0 {
		t.Fatal("disabled split must not write or notify")
	}
}

func TestSplit_WritesAllChunks(t *testing.T) {
	w := newMemWriter()
	o, n := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 4, GenerateReports: true})

	res := o.Split(schemtest.Patterned("tower", [3]int{10, 10, 10}), "tower", "out")
	if res.Code != CodeComplete {
		t.Fatalf("code %s", res.Code)
	}
	if res.Chunks != 27 || len(w.chunks) != 27 {
		t.Fatalf("chunks %d (written %d), want 27", res.Chunks, len(w.chunks))
	}
	if _, ok := w.chunks["tower_main_x0_y0_z0"]; !ok {
		t.Fatal("missing chunk tower_main_x0_y0_z0")
	}
	if _, ok := w.chunks["tower_main_x2_y2_z2"]; !ok {
		t.Fatal("missing partial corner chunk tower_main_x2_y2_z2")
	}
	if len(n.completed) != 1 || n.completed[0] != "27:out" {
		t.Fatalf("notifications %v", n.completed)
	}
	if len(w.reports) != 27 {
		t.Fatalf("reports %d, want 27", len(w.reports))
	}
	content := w.reports["tower_main_x0_y0_z0_materials.txt"]
	if !strings.Contains(content, "Material List for Chunk [0, 0, 0]") {
		t.Fatalf("report content:\n%s", content)
	}
}

func TestSplit_EmptyRegionFails(t *testing.T) {
	empty := schematic.New("empty")
	empty.Regions = []*schematic.Region{
		schematic.NewRegion("main", [3]int{0, 0, 0}, [3]int{8, 8, 8}),
	}

	w := newMemWriter()
	o, n := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 4})

	res := o.Split(empty, "empty", "out")
	if res.OK() || res.Code != CodeNoChunks {
		t.Fatalf("result %+v", res)
	}
	if len(w.chunks) != 0 {
		t.Fatalf("wrote %d chunks from an all-absent region", len(w.chunks))
	}
	if len(n.failed) != 1 || n.failed[0] != "empty" {
		t.Fatalf("failure notifications %v", n.failed)
	}
}

func TestSplit_MissingRegionDataSkipsRegion(t *testing.T) {
	src := schemtest.Patterned("mixed", [3]int{6, 6, 6})
	src.Regions = append(src.Regions, &schematic.Region{Name: "broken"}) // no size, no blocks

	w := newMemWriter()
	o, _ := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 6})

	res := o.Split(src, "mixed", "out")
	if res.Code != CodeComplete || res.Chunks != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestSplit_PersistenceFailureContinues(t *testing.T) {
	w := newMemWriter()
	w.failChunks["tower_main_x0_y0_z0"] = true
	o, _ := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 4, GenerateReports: true})

	res := o.Split(schemtest.Patterned("tower", [3]int{10, 10, 10}), "tower", "out")
	if res.Code != CodeComplete {
		t.Fatalf("code %s", res.Code)
	}
	if res.Chunks != 26 {
		t.Fatalf("chunks %d, want 26 (one write failed)", res.Chunks)
	}
	if _, ok := w.reports["tower_main_x0_y0_z0_materials.txt"]; ok {
		t.Fatal("report written for a chunk whose volume write failed")
	}
}

func TestSplit_AllWritesFailIsFailure(t *testing.T) {
	w := newMemWriter()
	o, n := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 8})
	src := schemtest.Patterned("tower", [3]int{8, 8, 8})
	w.failChunks["tower_main_x0_y0_z0"] = true

	res := o.Split(src, "tower", "out")
	if res.Code != CodeNoChunks {
		t.Fatalf("code %s", res.Code)
	}
	if len(n.failed) != 1 {
		t.Fatalf("failure notifications %v", n.failed)
	}
}

func TestSplit_ReportFailureNonFatal(t *testing.T) {
	w := newMemWriter()
	w.failReports = true
	o, _ := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 8, GenerateReports: true})

	res := o.Split(schemtest.Patterned("tower", [3]int{8, 8, 8}), "tower", "out")
	if res.Code != CodeComplete || res.Chunks != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestSplit_InvalidEdge(t *testing.T) {
	w := newMemWriter()
	o, n := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 0})

	res := o.Split(schemtest.Patterned("tower", [3]int{8, 8, 8}), "tower", "out")
	if res.OK() || res.Code != CodeInvalidConfig {
		t.Fatalf("result %+v", res)
	}
	if len(n.failed) != 1 {
		t.Fatalf("failure notifications %v", n.failed)
	}
}

func TestSplit_PanicRecovered(t *testing.T) {
	w := newMemWriter()
	w.panicOnce = true
	o, n := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 8})

	res := o.Split(schemtest.Patterned("tower", [3]int{8, 8, 8}), "tower", "out")
	if res.Code != CodeUnrecoverable {
		t.Fatalf("code %s", res.Code)
	}
	if len(n.failed) != 1 {
		t.Fatalf("failure notifications %v", n.failed)
	}
}

func TestSplit_NoResolverSkipsReports(t *testing.T) {
	w := newMemWriter()
	o, _ := testOrchestrator(w, Options{Enabled: true, ChunkEdge: 8, GenerateReports: true})
	o.Resolver = nil

	res := o.Split(schemtest.Patterned("tower", [3]int{8, 8, 8}), "tower", "out")
	if res.Code != CodeComplete {
		t.Fatalf("code %s", res.Code)
	}
	if len(w.reports) != 0 {
		t.Fatalf("reports %d, want 0 without a resolver", len(w.reports))
	}
}
