// Command import liest MRRT-Templates aus Dateien oder Verzeichnissen ein.
//
//	import [-dry-run] <file|dir>...
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"report-templates/config"
	"report-templates/errs"
	"report-templates/metrics"
	"report-templates/models"
	"report-templates/parser"
	"report-templates/repository"
	"report-templates/services"
	"report-templates/storage"
	"report-templates/terms"
)

// Importer ist der Teil des TemplateService, den das Kommando benötigt.
type Importer interface {
	Import(ctx context.Context, raw string) (*models.Template, error)
}

// parseOnly prüft Templates, ohne etwas zu speichern.
type parseOnly struct{}

func (parseOnly) Import(_ context.Context, raw string) (*models.Template, error) {
	p, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	return services.FromParsed(p), nil
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, func() (Importer, func()) {
		return newService()
	}))
}

// execute führt das Kommando aus und gibt den Exit-Code zurück. Der Service wird erst nach
// der Flag-Auswertung gebaut und vor der Rückkehr immer geschlossen.
func execute(args []string, stdout, stderr io.Writer, newImporter func() (Importer, func())) int {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dryRun := flags.Bool("dry-run", false, "nur parsen, nichts speichern")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: import [-dry-run] <file|dir>...")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	paths, err := collectFiles(flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Eingabe nicht lesbar: %v\n", err)
		return 1
	}

	var importer Importer = parseOnly{}
	if !*dryRun {
		svc, closeSvc := newImporter()
		defer closeSvc()
		importer = svc
	}

	if failed := run(context.Background(), importer, paths, stdout); failed > 0 {
		return 1
	}
	return 0
}

func newService() (*services.TemplateService, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}
	logging, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}

	db, err := repository.Open(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}
	concepts := repository.NewConceptRepository(db)
	if cfg.ConceptCatalogFile != "" {
		if _, err := terms.SeedCatalog(context.Background(), concepts, cfg.ConceptCatalogFile); err != nil {
			logging.Fatal("Konzeptkatalog konnte nicht geladen werden", zap.Error(err))
		}
	}
	files, err := storage.NewFileStore(cfg.TemplateHome, logging)
	if err != nil {
		logging.Fatal("Template home not usable", zap.Error(err))
	}

	store := services.NewTemplateStore(repository.NewTemplateRepository(db), files, logging)
	svc := services.NewTemplateService(store, terms.NewResolver(concepts, logging), metrics.New(prometheus.NewRegistry()), logging)
	return svc, func() {
		_ = logging.Sync()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// collectFiles expandiert Verzeichnisse rekursiv zu allen *.html-Dateien.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), storage.TemplateFileExt) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// run importiert alle Dateien, schreibt eine Zeile pro Datei nach out und gibt die Zahl der
// Fehlschläge zurück.
func run(ctx context.Context, importer Importer, paths []string, out io.Writer) int {
	failed := 0
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err == nil {
			var tpl *models.Template
			tpl, err = importer.Import(ctx, string(raw))
			if err == nil {
				fmt.Fprintf(out, "ok\t%s\t%s\t%s\n", path, tpl.Identifier, tpl.Title)
				continue
			}
		}
		failed++
		code := errs.CodeOf(err)
		if code == "" {
			code = errs.CodeStorageFailure
		}
		fmt.Fprintf(out, "%s\t%s\t%v\n", code, path, err)
	}
	return failed
}
