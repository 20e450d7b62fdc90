package services

import (
	"sort"
	"strconv"
	"strings"

	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"
)

// Summary is a run-level digest. It goes to the log, never into the
// JSON document.
type Summary struct {
	Jobs             int
	Succeeded        int
	Failed           int
	Products         int
	LowestFlagged    int
	NoDeliveryFee    int
	MinPrice         int64
	MaxPrice         int64
	PricedProducts   int
	FailedCategories []string
}

func Summarize(results []models.JobResult) Summary {
	s := Summary{Jobs: len(results)}

	for _, r := range results {
		if r.Code != models.CodeOK {
			s.Failed++
			label := r.CategoryID
			if label == "" {
				label = r.URL
			}
			s.FailedCategories = append(s.FailedCategories, label)
			continue
		}
		s.Succeeded++

		for _, p := range r.Data {
			s.Products++
			if p.IsMaxLow {
				s.LowestFlagged++
			}
			if strings.TrimSpace(p.DeliveryPrice) == "" {
				s.NoDeliveryFee++
			}

			price, ok := parsePrice(p.LowPrice)
			if !ok {
				continue
			}
			if s.PricedProducts == 0 || price < s.MinPrice {
				s.MinPrice = price
			}
			if s.PricedProducts == 0 || price > s.MaxPrice {
				s.MaxPrice = price
			}
			s.PricedProducts++
		}
	}

	sort.Strings(s.FailedCategories)
	return s
}

func LogSummary(log *utils.Logger, s Summary) {
	log.Section("CRAWL COMPLETE")
	log.WithFields(map[string]interface{}{
		"jobs":      s.Jobs,
		"succeeded": s.Succeeded,
		"failed":    s.Failed,
	}).Info("Jobs finished")

	if s.Products == 0 {
		log.Warn("No products extracted")
	} else {
		log.WithFields(map[string]interface{}{
			"products":       s.Products,
			"lowest_flagged": s.LowestFlagged,
			"no_delivery":    s.NoDeliveryFee,
		}).Info("Products extracted")
	}

	if s.PricedProducts > 0 {
		log.Info("Price range: %d - %d", s.MinPrice, s.MaxPrice)
	}
	if len(s.FailedCategories) > 0 {
		log.Warn("Failed: %s", strings.Join(s.FailedCategories, ", "))
	}
}

func parsePrice(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
