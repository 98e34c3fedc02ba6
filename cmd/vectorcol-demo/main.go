// Command vectorcol-demo embeds a handful of sentences with OpenAI,
// upserts them into an in-process collection, and runs search and
// scroll against it end to end.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bwmarrin/snowflake"

	"github.com/vc-labs/vectorcol/collection"
	"github.com/vc-labs/vectorcol/config"
	"github.com/vc-labs/vectorcol/demo"
)

func main() {
	fmt.Println("vectorcol demo")

	envPath, found := config.FindEnvFile()
	if !found {
		fmt.Println("no .env file found, trying environment variables directly")
	} else {
		fmt.Printf("using config file: %s\n", envPath)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	embedder, err := demo.NewEmbedder(demo.EmbedderConfig{
		APIKey:     mustEnv("OPENAI_API_KEY"),
		Dimensions: cfg.Vector.Size,
	})
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	ctx := context.Background()
	dims := embedder.Dimensions()

	col, err := collection.NewCollection(ctx, collection.CollectionConfig{
		Vectors: map[string]collection.VectorParams{
			collection.DefaultVectorName: {Size: dims, Distance: collection.DistanceCosine},
		},
	})
	if err != nil {
		log.Fatalf("failed to create collection: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("failed to create id generator: %v", err)
	}

	sentences := []string{
		"The espresso machine needs descaling.",
		"Our quarterly revenue grew twelve percent.",
		"A cold brew takes twelve hours to steep.",
		"The board approved the new budget.",
	}

	fmt.Println("embedding and upserting sentences...")
	for _, text := range sentences {
		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			log.Fatalf("failed to embed %q: %v", text, err)
		}
		id := collection.NewNumID(uint64(node.Generate().Int64()))
		err = col.Upsert(ctx, []collection.UpsertPoint{{
			ID:      id,
			Payload: collection.Payload{"text": text},
			Vectors: map[string][]float32{collection.DefaultVectorName: vector},
		}})
		if err != nil {
			log.Fatalf("failed to upsert %q: %v", text, err)
		}
	}

	query := "coffee brewing"
	queryVector, err := embedder.Embed(ctx, query)
	if err != nil {
		log.Fatalf("failed to embed query: %v", err)
	}

	results, err := col.Search(collection.SearchParams{
		Vector:      collection.RawVector(queryVector),
		Limit:       2,
		WithPayload: collection.AllPayload(),
	})
	if err != nil {
		log.Fatalf("failed to search: %v", err)
	}

	fmt.Printf("top matches for %q:\n", query)
	for i, r := range results {
		fmt.Printf("  %d. [score %.3f] %v\n", i+1, r.Score, r.Payload["text"])
	}

	records, nextOffset, err := col.Scroll(collection.ScrollParams{
		Limit:       10,
		WithPayload: collection.AllPayload(),
	})
	if err != nil {
		log.Fatalf("failed to scroll: %v", err)
	}
	fmt.Printf("scrolled %d records, next offset present: %v\n", len(records), nextOffset != nil)

	info := col.Info()
	fmt.Printf("collection info: points=%d vectors=%d status=%s\n", info.PointsCount, info.VectorsCount, info.Status)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required environment variable %s", key)
	}
	return v
}
