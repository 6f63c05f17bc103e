package shop

import (
	"strings"
	"testing"
)

const searchPage = `
<html><body>
<ul class="search_product_list">
  <li data-title="무선 마우스" data-img-url="https://cdn.example.com/1.jpg">
    <a href="/shop/item.php?it_id=1">무선 마우스</a>
  </li>
  <li data-title="기계식 키보드">
    <a href="https://ssadagu.kr/shop/item.php?it_id=2">기계식 키보드</a>
  </li>
  <li data-title="링크 없는 상품"></li>
  <li data-img-url="https://cdn.example.com/4.jpg">
    <a href="/shop/item.php?it_id=4">제목 없는 상품</a>
  </li>
  <li data-title="USB 허브" data-img-url="https://cdn.example.com/5.jpg">
    <a href="/shop/item.php?it_id=5">USB 허브</a>
  </li>
</ul>
</body></html>`

const fallbackListPage = `
<html><body>
<div id="div_product_list">
  <li data-title="백업 목록 상품"><a href="/shop/item.php?it_id=9">x</a></li>
</div>
</body></html>`

const detailPage = `
<html><body>
<div class="item-info"><div class="item-info-base">
  <h3 class="pdt_price"><span class="price gsItemPriceKWR">12,900원</span></h3>
</div></div>
<div class="pro-info-boxs">
  <div class="pro-info-item">
    <div class="pro-info-title">브랜드:</div>
    <div class="pro-info-info">로지텍</div>
  </div>
  <div class="pro-info-item">
    <div class="pro-info-title">색상</div>
    <div class="pro-info-info">블랙</div>
  </div>
  <div class="pro-info-item">
    <div class="pro-info-title">빈 값</div>
    <div class="pro-info-info"></div>
  </div>
</div>
</body></html>`

func TestParseSearchResults(t *testing.T) {
	products, err := parseSearchResults(strings.NewReader(searchPage), "https://ssadagu.kr", 20)
	if err != nil {
		t.Fatalf("parseSearchResults() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3 (items without title or link skipped)", len(products))
	}

	first := products[0]
	if first.Title != "무선 마우스" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Link != "https://ssadagu.kr/shop/item.php?it_id=1" {
		t.Errorf("relative link not absolutized: %q", first.Link)
	}
	if first.Thumbnail != "https://cdn.example.com/1.jpg" {
		t.Errorf("Thumbnail = %q", first.Thumbnail)
	}

	if products[1].Link != "https://ssadagu.kr/shop/item.php?it_id=2" {
		t.Errorf("absolute link changed: %q", products[1].Link)
	}
}

func TestParseSearchResultsLimit(t *testing.T) {
	products, err := parseSearchResults(strings.NewReader(searchPage), "https://ssadagu.kr", 1)
	if err != nil {
		t.Fatalf("parseSearchResults() error = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
}

func TestParseSearchResultsFallbackContainer(t *testing.T) {
	products, err := parseSearchResults(strings.NewReader(fallbackListPage), "https://ssadagu.kr", 20)
	if err != nil {
		t.Fatalf("parseSearchResults() error = %v", err)
	}
	if len(products) != 1 || products[0].Title != "백업 목록 상품" {
		t.Fatalf("fallback container not used: %+v", products)
	}
}

func TestParseSearchResultsEmptyPage(t *testing.T) {
	products, err := parseSearchResults(strings.NewReader("<html><body></body></html>"), "https://ssadagu.kr", 20)
	if err != nil {
		t.Fatalf("parseSearchResults() error = %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products, want 0", len(products))
	}
}

func TestParseProductDetail(t *testing.T) {
	price, specs, err := parseProductDetail(strings.NewReader(detailPage))
	if err != nil {
		t.Fatalf("parseProductDetail() error = %v", err)
	}
	if price == nil || *price != 12900 {
		t.Fatalf("price = %v, want 12900", price)
	}
	if specs["브랜드"] != "로지텍" {
		t.Errorf("spec title colon not trimmed: %+v", specs)
	}
	if specs["색상"] != "블랙" {
		t.Errorf("specs = %+v", specs)
	}
	if _, ok := specs["빈 값"]; ok {
		t.Errorf("empty spec value should be skipped")
	}
}

func TestParseProductDetailWithoutPrice(t *testing.T) {
	price, specs, err := parseProductDetail(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parseProductDetail() error = %v", err)
	}
	if price != nil {
		t.Errorf("price = %v, want nil", *price)
	}
	if len(specs) != 0 {
		t.Errorf("specs = %+v, want empty", specs)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		nilOK bool
	}{
		{"korean won", "12,900원", 12900, false},
		{"plain digits", "5000", 5000, false},
		{"currency prefix", "₩1,299", 1299, false},
		{"no digits", "품절", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePrice(tt.input)
			if tt.nilOK {
				if got != nil {
					t.Errorf("parsePrice(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
