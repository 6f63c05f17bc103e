// Package shop finds product candidates on the shopping site. The search
// page renders listing data into attributes, so a plain HTTP fetch plus HTML
// parsing is enough; no browser is involved.
package shop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/httpclient"
	"promopilot.app/writer/internal/model"
)

var nonDigits = regexp.MustCompile(`[^\d]`)

var priceSelectors = []string{
	"div.item-info div.item-info-base div.flex-container div.flex-container h3.pdt_price span.price.gsItemPriceKWR",
	"div.item-info div.item-info-base h3.pdt_price span.price",
	"div.item-info-base .pdt_price span[class*=price]",
	"span.price.gsItemPriceKWR",
	".pdt_price span.price",
}

type Finder struct {
	baseURL string
	client  *httpclient.Client
}

func NewFinder(cfg config.ShopConfig) (*Finder, error) {
	client, err := httpclient.New(httpclient.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("shop finder: %w", err)
	}
	return &Finder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

// Search fetches the search page for keyword and returns up to limit
// products. An unreachable site or a page with no hits yields an empty
// slice, not an error; running out of candidates is a pipeline condition,
// not a failure.
func (f *Finder) Search(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	searchURL := fmt.Sprintf("%s/shop/search.php?ss_tx=%s", f.baseURL, url.QueryEscape(keyword))

	body, err := f.fetch(ctx, searchURL)
	if err != nil {
		slog.WarnContext(ctx, "shop search fetch failed", "url", searchURL, "error", err)
		return nil, nil
	}
	defer body.Close()

	products, err := parseSearchResults(body, f.baseURL, limit)
	if err != nil {
		slog.WarnContext(ctx, "shop search parse failed", "url", searchURL, "error", err)
		return nil, nil
	}

	// Detail pages carry price and specs. A failed detail fetch keeps the
	// listing with what the search page gave us.
	for i := range products {
		detail, err := f.fetch(ctx, products[i].Link)
		if err != nil {
			slog.WarnContext(ctx, "shop detail fetch failed", "url", products[i].Link, "error", err)
			continue
		}
		price, specs, err := parseProductDetail(detail)
		detail.Close()
		if err != nil {
			slog.WarnContext(ctx, "shop detail parse failed", "url", products[i].Link, "error", err)
			continue
		}
		products[i].Price = price
		products[i].Specs = specs
	}

	slog.InfoContext(ctx, "shop search completed", "keyword", keyword, "count", len(products))
	return products, nil
}

func (f *Finder) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseSearchResults extracts listing candidates. Items without a title or
// link are skipped; relative links are absolutized against baseURL.
func parseSearchResults(r io.Reader, baseURL string, max int) ([]model.Product, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	list := doc.Find("ul.search_product_list")
	if list.Length() == 0 {
		list = doc.Find("#div_product_list")
	}

	var products []model.Product
	list.Find("li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if max > 0 && len(products) >= max {
			return false
		}

		title := strings.TrimSpace(item.AttrOr("data-title", ""))
		thumbnail := strings.TrimSpace(item.AttrOr("data-img-url", ""))

		var link string
		if href, ok := item.Find("a").First().Attr("href"); ok {
			href = strings.TrimSpace(href)
			if href != "" {
				if strings.HasPrefix(href, "http") {
					link = href
				} else {
					link = baseURL + href
				}
			}
		}

		if title == "" || link == "" {
			return true
		}

		products = append(products, model.Product{
			Title:     title,
			Link:      link,
			Thumbnail: thumbnail,
		})
		return true
	})

	return products, nil
}

// parseProductDetail extracts the price and the spec table from a product
// page. Either may be absent.
func parseProductDetail(r io.Reader) (*float64, map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse detail page: %w", err)
	}

	var price *float64
	for _, sel := range priceSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if p := parsePrice(text); p != nil {
			price = p
			break
		}
	}

	specs := make(map[string]string)
	container := doc.Find("div.pro-info-boxs")
	if container.Length() == 0 {
		container = doc.Find("#productAttributes")
	}
	container.Find("div.pro-info-item").Each(func(_ int, item *goquery.Selection) {
		name := item.Find("div.pro-info-title").First()
		if name.Length() == 0 {
			name = item.Find("div[class*=pro-info-title]").First()
		}
		value := item.Find("div.pro-info-info").First()
		if value.Length() == 0 {
			value = item.Find("div[class*=pro-info-info]").First()
		}

		key := strings.TrimSuffix(strings.TrimSpace(name.Text()), ":")
		val := strings.TrimSpace(value.Text())
		if key != "" && val != "" {
			specs[key] = val
		}
	})

	return price, specs, nil
}

// parsePrice keeps only digits, so "1,299원" parses as 1299.
func parsePrice(text string) *float64 {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}
