// relgraph resolves the relationship graph of a relational schema and writes
// the artifact consumed by client-side query engines.
//
// Usage:
//
//	relgraph -schema schema.yaml -out ./gen -format json,msgpack
//	relgraph -dsn "file:app.db" -dialect sqlite -include include.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/relgraph/compiler/gen"
	"github.com/syssam/relgraph/compiler/load"
	dsql "github.com/syssam/relgraph/dialect/sql"
)

type options struct {
	schema   string
	dsn      string
	dialect  string
	include  string
	casing   string
	keys     string
	strict   bool
	formats  string
	out      string
	basename string
	watch    bool
}

func main() {
	var (
		opts    options
		verbose bool
	)
	flag.StringVar(&opts.schema, "schema", "", "schema document (yaml, json or toml)")
	flag.StringVar(&opts.dsn, "dsn", "", "database to inspect instead of a schema document")
	flag.StringVar(&opts.dialect, "dialect", load.DialectSQLite, "dialect of the -dsn database: sqlite, mysql or postgres")
	flag.StringVar(&opts.include, "include", "", "document holding the inclusion configuration; overrides the one of -schema")
	flag.StringVar(&opts.casing, "casing", "", "casing of storage names derived from column keys: none, snake or camel")
	flag.StringVar(&opts.keys, "keys", "", "casing of column keys derived from inspected names: camel or snake")
	flag.BoolVar(&opts.strict, "strict", false, "fail on ambiguous relation inference")
	flag.StringVar(&opts.formats, "format", string(gen.EncodingJSON), "comma separated artifact encodings: json, msgpack")
	flag.StringVar(&opts.out, "out", "", "output directory; the artifact is written to stdout when empty")
	flag.StringVar(&opts.basename, "name", "schema", "base name of the written files")
	flag.BoolVar(&opts.watch, "watch", false, "rebuild when the schema document changes")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("relgraph failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	switch {
	case opts.schema == "" && opts.dsn == "":
		return errors.New("one of -schema or -dsn is required")
	case opts.schema != "" && opts.dsn != "":
		return errors.New("-schema and -dsn are mutually exclusive")
	case opts.watch && opts.schema == "":
		return errors.New("-watch requires -schema")
	}
	var encodings []gen.Encoding
	for _, s := range strings.Split(opts.formats, ",") {
		e, err := gen.ParseEncoding(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		encodings = append(encodings, e)
	}
	if opts.out == "" && len(encodings) > 1 {
		return errors.New("several encodings require -out")
	}
	b := &builder{opts: opts, encodings: encodings, logger: logger}
	if err := b.build(ctx); err != nil {
		return err
	}
	if opts.watch {
		return b.watch(ctx)
	}
	return nil
}

// builder runs one build of the artifact.
type builder struct {
	opts      options
	encodings []gen.Encoding
	logger    *slog.Logger
}

func (b *builder) build(ctx context.Context) error {
	schemas, doc, err := b.load(ctx)
	if err != nil {
		return err
	}
	include := doc.Include
	if b.opts.include != "" {
		inc, err := load.ParseFile(b.opts.include)
		if err != nil {
			return err
		}
		include = inc.Include
	}
	casing := doc.Casing
	if b.opts.casing != "" {
		casing = b.opts.casing
	}
	cfgOpts := []gen.Option{
		gen.WithInclusionMap(include),
		gen.WithCasing(casing),
		gen.WithLogger(b.logger),
		gen.WithDiagnostics(gen.NewDiagnostics()),
	}
	if b.opts.strict {
		cfgOpts = append(cfgOpts, gen.WithStrictInference())
	}
	cfg, err := gen.NewConfig(cfgOpts...)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(cfg, schemas...)
	if err != nil {
		return err
	}
	if b.opts.out == "" {
		return g.Artifact().Encode(os.Stdout, b.encodings[0])
	}
	w := gen.NewArtifactWriter(g, b.opts.out, b.encodings...).WithBaseName(b.opts.basename)
	if err := w.WriteAll(ctx); err != nil {
		return err
	}
	m := w.Metrics()
	b.logger.Info("artifact written",
		slog.String("dir", b.opts.out),
		slog.Int("files", m.FilesWritten),
		slog.Int64("bytes", m.TotalBytes),
		slog.Int("warnings", g.Diagnostics.Len()),
	)
	return nil
}

// load returns the schemas of the document or the database. Database
// inspection returns an empty document.
func (b *builder) load(ctx context.Context) ([]*load.Schema, *load.Document, error) {
	if b.opts.schema != "" {
		doc, err := load.ParseFile(b.opts.schema)
		if err != nil {
			return nil, nil, err
		}
		return doc.Tables, doc, nil
	}
	storage, err := load.NewStorage(b.opts.dialect)
	if err != nil {
		return nil, nil, err
	}
	db, err := dsql.OpenWithStats(storage.DriverName, b.opts.dsn,
		dsql.WithQueryLog(b.logger),
		dsql.WithSlowQueryLog(b.logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", storage, err)
	}
	defer db.Close()
	realmOpts := []load.RealmOption{load.WithForeignKeyRelations()}
	if b.opts.keys != "" {
		realmOpts = append(realmOpts, load.WithKeyCasing(b.opts.keys))
	}
	schemas, err := load.InspectDB(ctx, db, storage.Name, realmOpts...)
	if err != nil {
		return nil, nil, err
	}
	b.logger.Debug("database inspected",
		slog.String("dialect", storage.Name),
		slog.Int("tables", len(schemas)),
		slog.Any("stats", db.QueryStats().Stats()),
	)
	return schemas, &load.Document{}, nil
}

// watch rebuilds the artifact every time the schema or inclusion document
// changes, until ctx is done. Build errors are logged.
func (b *builder) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	files := make(map[string]bool)
	for _, path := range []string{b.opts.schema, b.opts.include} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files[abs] = true
		// Editors replace files on save; watch the directory.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	b.logger.Info("watching for changes", slog.String("schema", b.opts.schema))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || !files[abs] {
				continue
			}
			b.logger.Debug("schema changed", slog.String("file", event.Name))
			if err := b.build(ctx); err != nil {
				b.logger.Warn("rebuild failed", slog.Any("error", err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("watcher error", slog.Any("error", err))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
