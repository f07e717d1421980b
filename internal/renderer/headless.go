package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// ErrRendererUnavailable is returned when rendering is disabled or not started.
var ErrRendererUnavailable = errors.New("headless renderer not running or disabled")

// HeadlessRenderer renders pages in a pool of Chrome instances and returns
// the resulting DOM as HTML.
type HeadlessRenderer struct {
	config      config.HeadlessConfig
	userAgent   string
	logger      zerolog.Logger
	browserPool chan *rod.Browser
	launcher    *launcher.Launcher
	mutex       sync.Mutex
	isRunning   bool
}

// NewHeadlessRenderer creates a renderer; call Start before Render.
func NewHeadlessRenderer(cfg config.HeadlessConfig, userAgent string, logger zerolog.Logger) *HeadlessRenderer {
	poolSize := cfg.PoolSize
	if poolSize < 1 {
		poolSize = 1
	}
	return &HeadlessRenderer{
		config:      cfg,
		userAgent:   userAgent,
		logger:      logger.With().Str("component", "HeadlessRenderer").Logger(),
		browserPool: make(chan *rod.Browser, poolSize),
	}
}

// Start launches Chrome and fills the browser pool. It is a no-op when
// rendering is disabled.
func (hr *HeadlessRenderer) Start() error {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	if hr.isRunning {
		return nil
	}
	if !hr.config.Enabled {
		hr.logger.Info().Msg("Headless rendering is disabled in config")
		return nil
	}

	l := launcher.New()
	if hr.config.ChromePath != "" {
		l = l.Bin(hr.config.ChromePath)
	}
	l = l.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync").
		Set("blink-settings", "imagesEnabled=false")

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	hr.launcher = l

	connected := 0
	for i := 0; i < cap(hr.browserPool); i++ {
		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			hr.logger.Error().Err(err).Int("browser_index", i).Msg("Failed to connect browser")
			continue
		}
		hr.browserPool <- browser
		connected++
	}
	if connected == 0 {
		l.Cleanup()
		return fmt.Errorf("failed to connect any browser instance")
	}

	hr.isRunning = true
	hr.logger.Info().Int("pool_size", connected).Msg("Headless renderer started")
	return nil
}

// Stop closes every browser and the launcher.
func (hr *HeadlessRenderer) Stop() {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	if !hr.isRunning {
		return
	}

	close(hr.browserPool)
	for browser := range hr.browserPool {
		_ = browser.Close()
	}
	if hr.launcher != nil {
		hr.launcher.Cleanup()
	}

	hr.isRunning = false
	hr.logger.Info().Msg("Headless renderer stopped")
}

// IsRunning reports whether Render can be used.
func (hr *HeadlessRenderer) IsRunning() bool {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()
	return hr.isRunning
}

func (hr *HeadlessRenderer) acquire(ctx context.Context) (*rod.Browser, error) {
	if !hr.IsRunning() {
		return nil, ErrRendererUnavailable
	}
	select {
	case browser, ok := <-hr.browserPool:
		if !ok {
			return nil, ErrRendererUnavailable
		}
		return browser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (hr *HeadlessRenderer) release(browser *rod.Browser) {
	hr.mutex.Lock()
	defer hr.mutex.Unlock()

	if !hr.isRunning {
		_ = browser.Close()
		return
	}
	select {
	case hr.browserPool <- browser:
	default:
		_ = browser.Close()
	}
}

// Render loads url and returns the rendered HTML.
func (hr *HeadlessRenderer) Render(ctx context.Context, url string) (string, error) {
	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(hr.config.PageLoadTimeoutSecs)*time.Second)
	defer cancel()

	browser, err := hr.acquire(loadCtx)
	if err != nil {
		return "", err
	}
	defer hr.release(browser)

	page, err := browser.Context(loadCtx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if hr.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: hr.userAgent}); err != nil {
			hr.logger.Warn().Err(err).Msg("Failed to set user agent")
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("page load timeout for %s: %w", url, err)
	}

	if wait := time.Duration(hr.config.WaitAfterLoadMillis) * time.Millisecond; wait > 0 {
		select {
		case <-time.After(wait):
		case <-loadCtx.Done():
			return "", loadCtx.Err()
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML for %s: %w", url, err)
	}

	hr.logger.Debug().Str("url", url).Int("html_bytes", len(html)).Msg("Page rendered")
	return html, nil
}
