package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lotconv/internal"
	"lotconv/internal/applog"
	"lotconv/internal/config"
	"lotconv/internal/mapping"
	"lotconv/internal/pipeline"
	"lotconv/internal/storage"
	"lotconv/internal/web"
)

func main() {
	cfg, err := config.Load()
	must(err)
	applog.Setup(os.Getenv("LOG_LEVEL"))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input xlsx path")
		outdir := fs.String("outdir", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		blob, err := os.ReadFile(*input)
		must(err)

		cache := makeCache(cfg)
		keys, err := cache.Keys(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: mapping fetch failed, continuing with empty mapping: %v\n", err)
		}

		svc := pipeline.NewConversionService(db)
		result, err := svc.Convert(blob, keys, "cli", filepath.Base(*input))
		must(err)
		must(pipeline.SaveBlob(result.Passthrough, filepath.Join(*outdir, pipeline.PassthroughFilename)))
		must(pipeline.SaveBlob(result.Fulfillment, filepath.Join(*outdir, pipeline.FulfillmentFilename)))
		fmt.Printf("convert done matched=%d converted=%d filtered=%d outdir=%s\n",
			len(result.Matched), len(result.Converted), result.Filtered, *outdir)
		if result.Deal.Fallbacks > 0 {
			fmt.Printf("warning: %d deal rows had unrecognized flavors and were coded as the first table entry\n", result.Deal.Fallbacks)
		}
	case "mapping:list":
		cache := makeCache(cfg)
		entries, err := cache.Entries(context.Background())
		must(err)
		for _, e := range entries {
			fmt.Printf("%s\t%s\n", e.ProductNo, e.ProductName)
		}
		fmt.Printf("total=%d\n", len(entries))
	case "mapping:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "product number (required, min 3 chars)")
		name := fs.String("name", "", "product name")
		_ = fs.Parse(os.Args[2:])
		if len(strings.TrimSpace(*key)) < 3 {
			must(fmt.Errorf("--key must be at least 3 characters"))
		}

		cache := makeCache(cfg)
		entry := internal.MappingEntry{ProductNo: strings.TrimSpace(*key), ProductName: strings.TrimSpace(*name)}
		must(cache.Append(context.Background(), entry))
		_ = db.InsertMappingAudit(entry.ProductNo, entry.ProductName, "cli")
		fmt.Printf("mapping added: %s %s\n", entry.ProductNo, entry.ProductName)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListConversionRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\tmatched=%d converted=%d filtered=%d\n",
				r.ID, r.CreatedAt, r.Source, r.InputName, r.Matched, r.Converted, r.Filtered)
		}
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.HTTPAddr, "listen address")
		_ = fs.Parse(os.Args[2:])

		cache := makeCache(cfg)
		e := web.NewServer(cfg, cache, db)
		must(e.Start(*addr))
	default:
		usage()
		os.Exit(1)
	}
}

func makeCache(cfg config.Config) *mapping.Cache {
	store, err := mapping.NewSheetsStore(cfg)
	must(err)
	return mapping.NewCache(store, time.Duration(cfg.MappingTTLSec)*time.Second)
}

func usage() {
	fmt.Println("usage: lotconv <command>")
	fmt.Println("commands:")
	fmt.Println("  convert --input=orders.xlsx [--outdir=./out]")
	fmt.Println("  mapping:list")
	fmt.Println("  mapping:add --key=12345678 [--name=상품명]")
	fmt.Println("  runs [--limit=20]")
	fmt.Println("  serve [--addr=:8081]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
