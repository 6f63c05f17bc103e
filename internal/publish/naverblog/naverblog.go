// Package naverblog publishes posts through the blog's web editor with a
// real browser. Login sessions are persisted per account so repeat publishes
// skip the login form.
package naverblog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"promopilot.app/writer/core/config"
	"promopilot.app/writer/internal/model"
	"promopilot.app/writer/internal/publish"
	"promopilot.app/writer/internal/tracklog"
)

const (
	loginURL = "https://nid.naver.com/nidlogin.login"
	blogURL  = "https://blog.naver.com"
)

// Selector cascades survive editor markup drift; the first hit wins.
var (
	titleSelectors = []string{
		"p.se-text-paragraph span.se-placeholder",
		"p.se_textarea span.se_placeholder",
		"div.se_editArea h3.se_textarea",
		"div.se_editArea div.se_title",
		"div[data-testid='title']",
		"div.write_header input[type='text']",
		"[contenteditable='true'][role='textbox']",
	}
	contentSelectors = []string{
		"div.se-module-text p.se-text-paragraph span.se-placeholder",
		"div.se_component_wrap p.se_textarea span.se_placeholder",
		"div.se_editArea p.se_textarea",
		"div.se_component_wrap [contenteditable='true']",
		"div[data-testid='postEditor'] [contenteditable='true']",
		"div.write_form [contenteditable='true']",
		"[contenteditable='true'][data-placeholder]",
	}
	publishSelectors = []string{
		"button.publish_btn__m9KHH",
		"button[data-testid='seOnePublishBtn']",
	}
	draftPopupSelectors = []string{
		"button.se-popup-button-cancel",
		"button.se-popup-button-close",
	}
	helpPanelSelectors = []string{
		"button.se-help-panel-close-button",
		"button[aria-label*='닫기']",
	}
)

type Adapter struct {
	headless   bool
	timeout    time.Duration
	sessionDir string
	fallback   config.NaverConfig
	logs       *tracklog.Client
}

func New(browser config.BrowserConfig, fallback config.NaverConfig, logs *tracklog.Client) *Adapter {
	return &Adapter{
		headless:   browser.Headless,
		timeout:    browser.NavTimeout,
		sessionDir: browser.SessionDir,
		fallback:   fallback,
		logs:       logs,
	}
}

func (a *Adapter) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	loginID, loginPw, blogID := a.resolveCredentials(req.Channel.Blog)
	if loginID == "" || loginPw == "" {
		return publish.Result{}, fmt.Errorf("naverblog: missing login credentials")
	}

	l := launcher.New().Headless(a.headless)
	controlURL, err := l.Launch()
	if err != nil {
		return publish.Result{}, fmt.Errorf("naverblog: launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return publish.Result{}, fmt.Errorf("naverblog: connect browser: %w", err)
	}
	defer browser.Close()

	sessionFile := filepath.Join(a.sessionDir, fmt.Sprintf("naver_%s.json", loginID))
	if !a.restoreSession(ctx, browser, sessionFile, req) {
		a.logs.Info(ctx, "naver_blog", "세션 없음/만료 → 로그인 수행", "", req.UserID, req.JobID)
		if err := a.login(ctx, browser, loginID, loginPw, sessionFile); err != nil {
			return publish.Result{}, fmt.Errorf("naverblog: login: %w", err)
		}
	} else {
		a.logs.Info(ctx, "naver_blog", "기존 세션 사용", "", req.UserID, req.JobID)
	}

	page, frame, err := a.openEditor(browser, blogID)
	if err != nil {
		return publish.Result{}, fmt.Errorf("naverblog: open editor: %w", err)
	}
	defer page.Close()

	// Leftover-draft and help popups block the editor when present.
	tryClick(frame, draftPopupSelectors)
	tryClick(frame, helpPanelSelectors)

	if !fillText(frame, titleSelectors, req.Title) {
		return publish.Result{}, fmt.Errorf("naverblog: title input failed")
	}
	if !fillText(frame, contentSelectors, req.Body) {
		return publish.Result{}, fmt.Errorf("naverblog: body input failed")
	}
	if !a.clickPublish(frame) {
		return publish.Result{}, fmt.Errorf("naverblog: publish button not found")
	}

	link := a.waitForPostURL(page)
	a.logs.Info(ctx, "naver_blog", "게시물 발행 완료", link, req.UserID, req.JobID)
	return publish.Result{Link: link, Message: "게시물 발행 완료"}, nil
}

func (a *Adapter) resolveCredentials(blog *model.BlogCredentials) (loginID, loginPw, blogID string) {
	if blog != nil {
		loginID, loginPw, blogID = blog.LoginID, blog.LoginPw, blog.BlogID
	}
	if loginID == "" {
		loginID = a.fallback.LoginID
	}
	if loginPw == "" {
		loginPw = a.fallback.LoginPw
	}
	if blogID == "" {
		blogID = a.fallback.BlogID
	}
	if blogID == "" {
		blogID = loginID
	}
	return loginID, loginPw, blogID
}

// restoreSession loads saved cookies and verifies they still log in: the
// blog home must not redirect to the login form.
func (a *Adapter) restoreSession(ctx context.Context, browser *rod.Browser, sessionFile string, req publish.Request) bool {
	data, err := os.ReadFile(sessionFile)
	if err != nil {
		return false
	}
	var cookies []*proto.NetworkCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return false
	}
	if err := browser.SetCookies(proto.CookiesToParams(cookies)); err != nil {
		return false
	}

	a.logs.Info(ctx, "naver_blog", "기존 세션 검증 중", "", req.UserID, req.JobID)
	page, err := browser.Page(proto.TargetCreateTarget{URL: blogURL})
	if err != nil {
		return false
	}
	defer page.Close()

	if err := page.Timeout(a.timeout).WaitLoad(); err != nil {
		return false
	}
	info, err := page.Info()
	if err != nil {
		return false
	}
	return !strings.Contains(info.URL, "nidlogin.login")
}

func (a *Adapter) login(ctx context.Context, browser *rod.Browser, loginID, loginPw, sessionFile string) error {
	page, err := browser.Page(proto.TargetCreateTarget{URL: loginURL})
	if err != nil {
		return err
	}
	defer page.Close()

	if err := page.Timeout(a.timeout).WaitLoad(); err != nil {
		return err
	}
	if err := insertInto(page, "#id", loginID); err != nil {
		return fmt.Errorf("fill login id: %w", err)
	}
	if err := insertInto(page, "#pw", loginPw); err != nil {
		return fmt.Errorf("fill login pw: %w", err)
	}

	submit, err := page.Timeout(5 * time.Second).Element("button[type=submit]")
	if err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}

	if !waitURL(page, 10*time.Second, func(u string) bool {
		return !strings.Contains(u, "nidlogin.login")
	}) {
		return fmt.Errorf("still on login page")
	}

	// Device-trust prompts appear on fresh logins.
	tryClickText(page, "button", "등록|확인|다음")

	cookies, err := browser.GetCookies()
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sessionFile), 0o700); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if err := os.WriteFile(sessionFile, data, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *Adapter) openEditor(browser *rod.Browser, blogID string) (*rod.Page, *rod.Page, error) {
	page, err := browser.Page(proto.TargetCreateTarget{
		URL: fmt.Sprintf("%s/%s?Redirect=Write&", blogURL, blogID),
	})
	if err != nil {
		return nil, nil, err
	}
	if err := page.Timeout(a.timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, nil, err
	}

	el, err := page.Timeout(a.timeout).Element(`iframe[name="mainFrame"]`)
	if err != nil {
		page.Close()
		return nil, nil, fmt.Errorf("editor frame: %w", err)
	}
	frame, err := el.Frame()
	if err != nil {
		page.Close()
		return nil, nil, fmt.Errorf("enter editor frame: %w", err)
	}
	return page, frame, nil
}

func (a *Adapter) clickPublish(frame *rod.Page) bool {
	if tryClick(frame, publishSelectors) {
		return true
	}
	return tryClickText(frame, "button", "발행")
}

// waitForPostURL polls for the published-post URL. The editor URL is
// returned as a best effort when the redirect never lands.
func (a *Adapter) waitForPostURL(page *rod.Page) string {
	deadline := time.Now().Add(6 * time.Second)
	last := ""
	for time.Now().Before(deadline) {
		info, err := page.Info()
		if err == nil {
			last = info.URL
			if strings.Contains(last, "PostView.naver") {
				return last
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return last
}

func fillText(frame *rod.Page, selectors []string, text string) bool {
	for _, sel := range selectors {
		el, err := frame.Timeout(2 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		if err := frame.InsertText(text); err != nil {
			continue
		}
		return true
	}

	// Last resort: set the first editable node directly.
	err := rod.Try(func() {
		frame.MustEval(`(text) => {
			const el = document.querySelector('[contenteditable="true"],[role="textbox"],input[type="text"]');
			if (!el) throw new Error("no editable element");
			el.focus();
			el.innerText = text;
			el.textContent = text;
			if (el.value !== undefined) el.value = text;
		}`, text)
	})
	return err == nil
}

func tryClick(frame *rod.Page, selectors []string) bool {
	for _, sel := range selectors {
		el, err := frame.Timeout(2 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		return true
	}
	return false
}

func tryClickText(frame *rod.Page, selector, pattern string) bool {
	el, err := frame.Timeout(2 * time.Second).ElementR(selector, pattern)
	if err != nil {
		return false
	}
	return el.Click(proto.InputMouseButtonLeft, 1) == nil
}

func insertInto(page *rod.Page, selector, text string) error {
	el, err := page.Timeout(5 * time.Second).Element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	return page.InsertText(text)
}

func waitURL(page *rod.Page, timeout time.Duration, ok func(string) bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		info, err := page.Info()
		if err == nil && ok(info.URL) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}
