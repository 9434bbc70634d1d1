package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"driphorizon/internal/catalog"
	"driphorizon/internal/domain"
)

// catalog checks a product CSV before it is handed to the api through CATALOG_FILE.
func main() {
	var (
		filePath string
		category string
	)
	flag.StringVar(&filePath, "file", "", "Path to product CSV (id,name,price[,image,category]); empty prints the built-in catalog")
	flag.StringVar(&category, "category", "", "Only list products of this category")
	flag.Parse()

	start := time.Now()
	products := catalog.Default()
	if filePath != "" {
		var err error
		if products, err = catalog.LoadFile(filePath); err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	}

	listed := products.List(category)
	for _, p := range listed {
		fmt.Fprintf(os.Stdout, "%-6s %-28s %10s  %-8s %s\n", p.ID, p.Name, domain.FormatCents(p.UnitPriceCents), p.Category, p.ImageRef)
	}
	fmt.Printf("Validated %d products (%d listed) in %s\n", products.Len(), len(listed), time.Since(start).Truncate(time.Millisecond))
}
