package trends

import (
	"strings"
	"unicode/utf8"
)

// excludedTexts are UI strings from the trending page that look like trend
// entries when scraped broadly. A candidate containing any of them is noise.
var excludedTexts = []string{
	"Trends",
	"트렌드 상태",
	"트렌드 분석",
	"검색",
	"탐색",
	"실시간 인기",
	"홈",
	"전 세계",
	"지금",
	"에서 무엇을 검색하고 있는지 알아보세요",
	"검색 관심도",
	"지난 24시간",
	"이(가) 인기 있는 이유는 무엇일까요?",
	"상세 데이터 검토",
	"트렌드 데이터팀",
	"선별한 문제와 이벤트",
	"트렌드 활용법",
	"언론사",
	"자선단체",
	"전 세계에서",
	"Google 트렌드를 어떻게 사용하고 있는지",
	"확인해보세요",
	"Google 트렌드란 무엇인가요?",
	"Google 트렌드의 기본사항",
	"데이터에 관해 알아보기",
	"로그인",
	"개인정보처리방침",
	"고급 Google 트렌드",
	"도움말",
	"의견 보내기",
}

// validTerm reports whether a scraped text is a plausible trend term:
// 2 to 100 characters, not a URL, and free of known UI strings.
func validTerm(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < 2 || n > 100 {
		return false
	}
	if strings.HasPrefix(text, "http") {
		return false
	}
	for _, ex := range excludedTexts {
		if strings.Contains(text, ex) {
			return false
		}
	}
	return true
}

// collector accumulates valid, deduplicated terms up to a limit.
type collector struct {
	limit int
	seen  map[string]struct{}
	terms []string
}

func newCollector(limit int) *collector {
	return &collector{limit: limit, seen: make(map[string]struct{})}
}

// add records the text if it passes the filter. It returns true once the
// collector is full.
func (c *collector) add(text string) bool {
	text = strings.TrimSpace(text)
	if !validTerm(text) {
		return c.full()
	}
	if _, ok := c.seen[text]; ok {
		return c.full()
	}
	c.seen[text] = struct{}{}
	c.terms = append(c.terms, text)
	return c.full()
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.terms) >= c.limit
}
