package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/listinglens/resolver/internal/domain"
)

// maxLineBytes bounds a single catalog line; real product records are a
// few hundred bytes.
const maxLineBytes = 1 << 20

// LoadProducts reads a JSON-lines product catalog into memory, one
// product per line, preserving file order. Blank lines are skipped. A
// malformed line fails the load: matching never starts on a partially
// understood catalog. An empty catalog is not an error; it simply
// matches nothing.
func LoadProducts(path string) ([]domain.Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoCatalog, err)
	}
	defer file.Close()

	var products []domain.Product
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var product domain.Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrMalformedRecord, path, line, err)
		}
		products = append(products, product)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	log.Printf("[CATALOG] loaded %d products from %s", len(products), path)
	return products, nil
}
