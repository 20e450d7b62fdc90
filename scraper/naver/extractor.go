package naver

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"naver-shop-crawler/models"
)

// Layout knowledge for one listing item. Edit here when the page changes.
const (
	productIDAttr     = "id"
	lowestPriceMarker = "최저"
	priceTag          = "strong"
	deliveryLabelTag  = "span"
	deliveryIconTag   = "svg"
	iconCloseMarker   = "</svg>"
	currencySuffix    = "원"
	thousandsSep      = ","
)

type pathStep struct {
	tag   string
	index int
}

var (
	// a[1]/div[1]/div[1]/span[1]
	rankPath = []pathStep{{"a", 1}, {"div", 1}, {"div", 1}, {"span", 1}}
	// a[1]/div[2]/div[1]
	textBlockPath = []pathStep{{"a", 1}, {"div", 2}, {"div", 1}}
)

// ErrMissingNode marks a record-fatal missing sub-node.
var ErrMissingNode = errors.New("required node missing")

// ExtractionFailure reports why one item could not become a record.
type ExtractionFailure struct {
	ProductID string
	Step      string
	Err       error
}

func (e *ExtractionFailure) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("extract product: %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("extract product %s: %s: %v", e.ProductID, e.Step, e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

// ExtractProduct parses one listing item. Only a missing text block or a
// missing price node fails the item; rank and delivery fee fall back to "".
func ExtractProduct(item Node) (models.ProductRecord, error) {
	if item == nil {
		return models.ProductRecord{}, &ExtractionFailure{Step: "item", Err: ErrMissingNode}
	}

	productID, _ := item.Attr(productIDAttr)

	textBlock, ok := walk(item, textBlockPath)
	if !ok {
		return models.ProductRecord{}, &ExtractionFailure{ProductID: productID, Step: "text block", Err: ErrMissingNode}
	}

	priceNode, ok := textBlock.Find(priceTag)
	if !ok {
		return models.ProductRecord{}, &ExtractionFailure{ProductID: productID, Step: "price", Err: ErrMissingNode}
	}

	sequence, _ := rankLabel(item)
	delivery, _ := deliveryFee(textBlock)

	return models.ProductRecord{
		Sequence:      sequence,
		ProductID:     productID,
		IsMaxLow:      strings.Contains(textBlock.Text(), lowestPriceMarker),
		LowPrice:      stripSeparators(priceNode.Text()),
		DeliveryPrice: delivery,
	}, nil
}

func rankLabel(item Node) (string, bool) {
	node, ok := walk(item, rankPath)
	if !ok {
		return "", false
	}
	return node.Text(), true
}

// deliveryFee reads the fee that follows the delivery icon inside the label.
// The label and icon must both exist for the annotation to count.
func deliveryFee(textBlock Node) (string, bool) {
	label, ok := textBlock.Find(deliveryLabelTag)
	if !ok {
		return "", false
	}
	if _, ok := textBlock.Find(deliveryIconTag); !ok {
		return "", false
	}

	markup, err := label.InnerHTML()
	if err != nil || !strings.Contains(markup, iconCloseMarker) {
		return "", false
	}

	after := strings.Split(markup, iconCloseMarker)[1]
	fee := stripSeparators(strings.ReplaceAll(html.UnescapeString(after), currencySuffix, ""))
	return fee, true
}

func walk(n Node, path []pathStep) (Node, bool) {
	cur := n
	for _, step := range path {
		next, ok := cur.Child(step.tag, step.index)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func stripSeparators(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, thousandsSep, ""))
}
