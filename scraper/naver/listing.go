package naver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"
)

const (
	containerSelector = "#container"
	panelClass        = "category_panel"
	listTag           = "ul"
	itemTag           = "li"
)

// ErrContainerNotFound means the listing container never appeared. Pages
// without results look like this too, so callers treat it as empty.
var ErrContainerNotFound = errors.New("listing container not found")

// ExtractListing waits for the listing container, then extracts every item
// under it. Malformed items are logged and skipped.
func ExtractListing(ctx context.Context, s Session, timeout time.Duration, log *utils.Logger) ([]models.ProductRecord, error) {
	if err := s.WaitReady(ctx, containerSelector, timeout); err != nil {
		if errors.Is(err, ErrWaitTimeout) {
			return []models.ProductRecord{}, ErrContainerNotFound
		}
		return nil, fmt.Errorf("wait for listing container: %w", err)
	}

	markup, err := s.OuterHTML(ctx, containerSelector)
	if err != nil {
		return nil, fmt.Errorf("read listing container: %w", err)
	}

	container, err := ParseFragment(markup, containerSelector)
	if err != nil {
		return nil, err
	}

	return ExtractItems(container, log), nil
}

// ExtractItems applies ExtractProduct to every item of the container's
// product list. A container without the panel or list yields no records.
func ExtractItems(container Node, log *utils.Logger) []models.ProductRecord {
	products := []models.ProductRecord{}

	panel, ok := container.FindClass(panelClass)
	if !ok {
		log.Warn("Product panel .%s not found in listing container", panelClass)
		return products
	}
	list, ok := panel.Find(listTag)
	if !ok {
		log.Warn("Product list not found in .%s", panelClass)
		return products
	}

	// Any li under the list counts, wrapped or not.
	items := list.FindAll(itemTag)
	skipped := 0
	for i, item := range items {
		product, err := ExtractProduct(item)
		if err != nil {
			skipped++
			log.Warn("Skipping item %d: %v", i+1, err)
			continue
		}
		products = append(products, product)
	}

	if skipped > 0 {
		log.Info("Extracted %d of %d items (%d skipped)", len(products), len(items), skipped)
	}
	return products
}
