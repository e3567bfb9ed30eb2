package schemfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"schemsplit/internal/schematic"
)

// Extension is the on-disk suffix of schematic container files.
const Extension = ".schem.zst"

// Write stores a schematic as a zstd frame holding a JSON header line
// followed by the JSON document. Existing files are truncated, so
// rerunning a split over unchanged input rewrites identical bytes.
func Write(path string, s *schematic.Schematic) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	werr := writeDocument(bw, s)

	// Flush and close in order; any of them can surface a late write
	// failure (e.g. a full disk) that must not be swallowed.
	if err := bw.Flush(); werr == nil {
		werr = err
	}
	if err := enc.Close(); werr == nil {
		werr = err
	}
	if err := f.Close(); werr == nil {
		werr = err
	}
	return werr
}

func writeDocument(bw *bufio.Writer, s *schematic.Schematic) error {
	hb, _ := json.Marshal(s.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(s); err != nil {
		return fmt.Errorf("encode schematic: %w", err)
	}
	return nil
}

// Read loads a schematic container written by Write.
func Read(path string) (*schematic.Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line repeats inside the document; skip it.
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var s schematic.Schematic
	if err := json.NewDecoder(br).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schematic: %w", err)
	}
	return &s, nil
}

// ReadHeader decodes only the header line, without materializing the
// full document.
func ReadHeader(path string) (schematic.Header, error) {
	var h schematic.Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}
