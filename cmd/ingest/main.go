package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kanishkautag/munchy-mumbai/internal/bootstrap"
	"github.com/kanishkautag/munchy-mumbai/internal/config"
	"github.com/kanishkautag/munchy-mumbai/internal/dto"
	"github.com/kanishkautag/munchy-mumbai/internal/model"
	"github.com/kanishkautag/munchy-mumbai/internal/repository/implementation"
	"github.com/kanishkautag/munchy-mumbai/pkg/database"

	"gorm.io/datatypes"
)

// Loads a restaurant CSV into Postgres and embeds every row that has no
// vector yet. Expected header: name,area,cuisine,rating,cost,url,tags
// where tags is a semicolon-separated list.
func main() {
	csvPath := flag.String("csv", "data/restaurants.csv", "path to the restaurant CSV")
	embedWait := flag.Duration("embed-wait", 10*time.Minute, "how long to wait for embeddings to finish")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	repo := implementation.NewRestaurantRepository(gormDB)
	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()

	// The event bus is in-process, so the ingest runs its own consumer.
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	// 1. Load CSV rows
	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV %s: %v", *csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}
	col := columnIndex(header)

	inserted := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warn: skipping malformed row: %v", err)
			continue
		}

		restaurant, err := rowToRestaurant(record, col)
		if err != nil {
			log.Printf("Warn: skipping row: %v", err)
			continue
		}

		if err := repo.Upsert(ctx, restaurant); err != nil {
			log.Printf("Warn: upsert failed for %q: %v", restaurant.Name, err)
			continue
		}
		inserted++
	}
	log.Printf("Loaded %d restaurants from %s", inserted, *csvPath)

	// 2. Publish embed events for rows without a vector
	missing, err := repo.FindMissingEmbedding(ctx, inserted+1)
	if err != nil {
		log.Fatalf("Failed to list rows missing embeddings: %v", err)
	}
	for _, r := range missing {
		payload, err := json.Marshal(dto.PublishEmbedRestaurantMessage{RestaurantId: r.Id})
		if err != nil {
			log.Printf("Warn: marshal failed for %s: %v", r.Id, err)
			continue
		}
		if err := container.PublisherService.Publish(ctx, payload); err != nil {
			log.Printf("Warn: publish failed for %s: %v", r.Id, err)
		}
	}
	log.Printf("Queued %d restaurants for embedding", len(missing))

	// 3. Wait for the consumer to drain the queue
	deadline := time.Now().Add(*embedWait)
	for {
		count, err := repo.CountMissingEmbedding(ctx)
		if err != nil {
			log.Fatalf("Failed to count missing embeddings: %v", err)
		}
		if count == 0 {
			log.Println("✅ Ingest complete, all rows embedded.")
			return
		}
		if time.Now().After(deadline) {
			log.Printf("Timed out with %d rows still missing embeddings. Re-run to retry.", count)
			return
		}
		log.Printf("Waiting for embeddings... %d remaining", count)
		time.Sleep(5 * time.Second)
	}
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

func rowToRestaurant(record []string, col map[string]int) (*model.Restaurant, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := get("name")
	if name == "" {
		return nil, errors.New("row has no name")
	}

	rating, _ := strconv.ParseFloat(get("rating"), 64)
	cost, _ := strconv.Atoi(get("cost"))

	var tagsJSON datatypes.JSON
	if raw := get("tags"); raw != "" {
		parts := strings.Split(raw, ";")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if b, err := json.Marshal(parts); err == nil {
			tagsJSON = b
		}
	}

	return &model.Restaurant{
		Name:    name,
		Area:    get("area"),
		Cuisine: get("cuisine"),
		Rating:  rating,
		Cost:    cost,
		Url:     get("url"),
		Tags:    tagsJSON,
	}, nil
}
