package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"schemsplit/internal/config"
	"schemsplit/internal/materials"
	"schemsplit/internal/persistence/indexdb"
	"schemsplit/internal/persistence/schemfile"
	"schemsplit/internal/split"
)

func main() {
	os.Exit(run())
}

// run carries the whole program so deferred cleanup (the index's WAL
// checkpoint in particular) happens before the process exits.
func run() int {
	var (
		configPath = flag.String("config", "", "path to splitter config yaml (optional)")
		inPath     = flag.String("in", "", "source schematic container to split")
		outDir     = flag.String("out", "", "output directory (default: <base>_chunks next to the source)")
		edge       = flag.Int("edge", 0, "chunk edge length override")
		reports    = flag.Bool("reports", false, "generate material reports override")
		indexPath  = flag.String("index", "", "split index sqlite path override")
		catalogDir = flag.String("catalogs", "", "material catalog directory override")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[splitter] ", log.LstdFlags|log.Lmicroseconds)

	if *inPath == "" {
		logger.Fatal("missing -in: nothing to split")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "edge":
			cfg.ChunkEdge = *edge
		case "reports":
			cfg.GenerateReports = *reports
		case "index":
			cfg.IndexDB = *indexPath
		case "catalogs":
			cfg.CatalogDir = *catalogDir
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	src, err := schemfile.Read(*inPath)
	if err != nil {
		logger.Fatalf("read %s: %v", *inPath, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(*inPath), schemfile.Extension)
	dir := *outDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(*inPath), baseName+"_chunks")
	}

	o := &split.Orchestrator{
		Opts: split.Options{
			Enabled:         cfg.Enabled,
			ChunkEdge:       cfg.ChunkEdge,
			GenerateReports: cfg.GenerateReports,
		},
		Log:    logger,
		Writer: schemfile.Store{},
		Notify: messenger{},
	}

	if cfg.GenerateReports && cfg.CatalogDir != "" {
		cat, err := materials.LoadCatalog(cfg.CatalogDir)
		if err != nil {
			logger.Fatalf("load material catalogs: %v", err)
		}
		o.Resolver = cat
	}

	if cfg.IndexDB != "" {
		idx, err := indexdb.Open(cfg.IndexDB)
		if err != nil {
			logger.Fatalf("open split index: %v", err)
		}
		defer idx.Close()
		o.Index = idx
	}

	res := o.Split(src, baseName, dir)
	if !res.OK() {
		return 1
	}
	return 0
}

// messenger is the user-facing notification sink: plain stdout lines,
// detailed causes stay in the log.
type messenger struct{}

func (messenger) SplitComplete(totalChunks int, dirName string) {
	fmt.Printf("schematic split complete: %d chunks in %s\n", totalChunks, filepath.Base(dirName))
}

func (messenger) SplitFailed(baseName string) {
	fmt.Printf("schematic split failed: %s\n", baseName)
}
