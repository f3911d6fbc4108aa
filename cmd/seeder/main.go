package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/bioindex"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage/rawjson"
)

// sampleRecords is a small corpus of fictional public figures used to
// exercise the index without a scraper run.
var sampleRecords = []core.RawRecord{
	{
		"name":       "Marta Quinn",
		"scraped_at": "2025-03-14T09:00:00Z",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Marta_Quinn",
			"summary": "Marta Quinn is a senator known for her work on rural broadband expansion and agricultural policy.",
			"sections": map[string]any{
				"Early life": "Quinn grew up on a dairy farm and studied agricultural economics before entering public service.",
				"Career":     "She served two terms as state treasurer before winning her senate seat on a platform of infrastructure investment.",
			},
			"infobox": map[string]any{
				"Born":   "July 22, 1968",
				"Party":  "Prairie Alliance",
				"Office": "Senator",
			},
		},
		"ballotpedia": map[string]any{
			"url": "https://ballotpedia.org/Marta_Quinn",
			"sections": map[string]any{
				"Biography": "Marta Quinn was born July 22, 1968 and raised on a working dairy farm outside Cedar Falls.",
				"Career":    "Quinn was elected state treasurer in 2010 and served as treasurer for two terms.",
			},
		},
		"news_articles": []any{
			map[string]any{
				"title":          "Quinn introduces rural broadband bill",
				"description":    "The bill would fund fiber connections for underserved farming communities across three states.",
				"url":            "https://example.com/news/quinn-broadband",
				"published_date": "2025-02-10T12:00:00Z",
			},
		},
		"speeches": []any{
			map[string]any{
				"title":  "Remarks at the State Agricultural Fair",
				"text":   "Our farms feed this country, and they deserve the same digital roads our cities take for granted.",
				"source": "https://example.com/speeches/quinn-ag-fair",
			},
		},
	},
	{
		"name":       "Devon Park",
		"scraped_at": "2025-03-14T09:05:00Z",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Devon_Park",
			"summary": "Devon Park is a city mayor recognized for transit modernization and an open data initiative.",
			"infobox": map[string]any{
				"Party":  "Civic Union",
				"Office": "Mayor",
			},
		},
		"social_media": map[string]any{
			"twitter": "https://twitter.com/mayordevonpark",
		},
		"speeches": []any{
			"Public transit is not a luxury. It is the circulatory system of a working city.",
		},
	},
	{
		"name":       "Imani Walsh",
		"scraped_at": "2025-03-14T09:10:00Z",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Imani_Walsh",
			"summary": "Imani Walsh is a representative focused on healthcare affordability and veterans' services.",
			"sections": map[string]any{
				"Career": "Walsh practiced as a nurse for a decade before running for office, and chairs the veterans' affairs subcommittee.",
			},
		},
		"news_articles": []any{
			map[string]any{
				"title":          "Walsh pushes prescription price cap",
				"description":    "The proposal would cap monthly insulin costs and fund community health clinics.",
				"url":            "https://example.com/news/walsh-prices",
				"published_date": "2025-01-28T12:00:00Z",
			},
		},
		"voting_record": map[string]any{
			"sections": map[string]any{
				"ballotpedia_Key votes": "Voted for the Community Clinics Act and against the hospital consolidation waiver.",
			},
		},
	},
}

var (
	seedDirName = flag.String("src", "", "directory of raw record JSON files")
	dbPath      = flag.String("db", "./bioindex_db", "path to BadgerDB database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	db, err := bioindex.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	raws := sampleRecords
	if *seedDirName != "" {
		raws, err = rawjson.NewLoader().LoadDir(*seedDirName)
		if err != nil {
			panic(err)
		}
	}

	ctx := context.Background()
	records, skipped, err := pipeline.IngestAll(ctx, raws)
	if err != nil {
		panic(err)
	}
	pipeline.Wait()

	fmt.Printf("Seeded %d records (%d skipped)\n", len(records), skipped)
}
