package schemfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"schemsplit/internal/persistence/schemfile"
	"schemsplit/internal/schematic"
	"schemsplit/internal/schemtest"
)

func fixture() *schematic.Schematic {
	s := schemtest.Patterned("tower", [3]int{6, 4, 5})
	s.Meta.Author = "builder"
	s.Meta.Description = "test fixture"
	s.Meta.CreatedMillis = 1700000000000
	s.Meta.ModifiedMillis = 1700000000000

	r := s.Regions[0]
	r.BlockEntities = []schematic.BlockEntity{
		{Pos: [3]int{1, 2, 3}, Data: map[string]any{
			"x": float64(1), "y": float64(2), "z": float64(3),
			"inventory": map[string]any{"slots": []any{"IRON_ORE", "COAL"}},
		}},
	}
	r.Entities = []schematic.Entity{
		{ID: "minecart", Pos: [3]float64{1.5, 0.0, 2.25}, Data: map[string]any{"fuel": float64(3)}},
	}
	return s
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower"+schemfile.Extension)
	src := fixture()

	if err := schemfile.Write(path, src); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := schemfile.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Header != src.Header {
		t.Fatalf("header %+v, want %+v", got.Header, src.Header)
	}
	if got.Meta != src.Meta {
		t.Fatalf("meta %+v, want %+v", got.Meta, src.Meta)
	}
	if len(got.Regions) != 1 {
		t.Fatalf("regions %d", len(got.Regions))
	}

	r, w := got.Regions[0], src.Regions[0]
	if r.Name != w.Name || r.Pos != w.Pos || r.Size != w.Size {
		t.Fatalf("region identity %q %v %v", r.Name, r.Pos, r.Size)
	}
	if r.BlockDigest() != w.BlockDigest() {
		t.Fatal("block contents changed across the round trip")
	}
	if len(r.BlockEntities) != 1 || r.BlockEntities[0].Pos != [3]int{1, 2, 3} {
		t.Fatalf("block entities %+v", r.BlockEntities)
	}
	inv := r.BlockEntities[0].Data["inventory"].(map[string]any)
	slots := inv["slots"].([]any)
	if len(slots) != 2 || slots[0] != "IRON_ORE" {
		t.Fatalf("inventory %v", inv)
	}
	if len(r.Entities) != 1 || r.Entities[0].Pos != [3]float64{1.5, 0.0, 2.25} {
		t.Fatalf("entities %+v", r.Entities)
	}
	if r.Entities[0].Data["fuel"] != float64(3) {
		t.Fatalf("entity payload %v", r.Entities[0].Data)
	}
}

func TestWrite_Idempotent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a"+schemfile.Extension)
	pathB := filepath.Join(dir, "b"+schemfile.Extension)
	src := fixture()

	if err := schemfile.Write(pathA, src); err != nil {
		t.Fatal(err)
	}
	if err := schemfile.Write(pathB, src); err != nil {
		t.Fatal(err)
	}
	// and overwrite in place
	if err := schemfile.Write(pathA, src); err != nil {
		t.Fatal(err)
	}

	a, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("writing the same schematic twice produced different bytes")
	}
}

func TestWrite_SurfacesLateWriteFailure(t *testing.T) {
	// Small documents only reach the file when the buffers drain at the
	// end of Write; a failure there must come back as an error.
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	if err := schemfile.Write("/dev/full", fixture()); err == nil {
		t.Fatal("Write to a full device reported success")
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower"+schemfile.Extension)
	if err := schemfile.Write(path, fixture()); err != nil {
		t.Fatal(err)
	}
	h, err := schemfile.ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Version != schematic.Version || h.Name != "tower" {
		t.Fatalf("header %+v", h)
	}
}

func TestStore_WritesUnderDir(t *testing.T) {
	dir := t.TempDir()
	st := schemfile.Store{}

	if err := st.WriteChunkVolume(dir, "tower_main_x0_y0_z0", fixture()); err != nil {
		t.Fatalf("WriteChunkVolume: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tower_main_x0_y0_z0"+schemfile.Extension)); err != nil {
		t.Fatalf("chunk file: %v", err)
	}

	if err := st.WriteTextReport(dir, "tower_main_x0_y0_z0_materials.txt", "report"); err != nil {
		t.Fatalf("WriteTextReport: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "tower_main_x0_y0_z0_materials.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "report" {
		t.Fatalf("report content %q", raw)
	}
}
