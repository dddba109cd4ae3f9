// Package screenshot captures page renders for analysis: the full-page
// view the primary stage consumes, plus viewport captures at fixed scroll
// positions for the segment passes.
package screenshot

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kamilpajak/designlens/pkg/models"
)

// Options control browser viewport and navigation behavior.
type Options struct {
	Width     int
	Height    int
	TimeoutMS float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1920
	}
	if o.Height <= 0 {
		o.Height = 1080
	}
	if o.TimeoutMS <= 0 {
		o.TimeoutMS = 30000
	}
	return o
}

// scrollPositions are the page offsets the segment captures are taken at,
// matching the segment labels in page order.
var scrollPositions = []float64{0, 0.25, 0.5, 0.75}

// Capture holds everything one page capture produced.
type Capture struct {
	FullPage []byte
	Segments map[string][]byte
}

// Install installs the browsers playwright needs.
func Install() error {
	return playwright.Install()
}

// IsAvailable checks if playwright browsers are installed.
func IsAvailable() bool {
	pw, err := playwright.Run()
	if err != nil {
		return false
	}
	pw.Stop()
	return true
}

// CaptureURL renders the page headless and returns the full-page PNG.
func CaptureURL(url string, opts Options) ([]byte, error) {
	capture, err := capture(url, opts, false)
	if err != nil {
		return nil, err
	}
	return capture.FullPage, nil
}

// CaptureWithSegments renders the page and additionally captures the
// viewport at each scroll position for the segment analysis passes.
func CaptureWithSegments(url string, opts Options) (*Capture, error) {
	return capture(url, opts, true)
}

func capture(url string, opts Options, segments bool) (*Capture, error) {
	opts = opts.withDefaults()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: opts.Width, Height: opts.Height},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	if _, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(opts.TimeoutMS),
	}); err != nil {
		return nil, fmt.Errorf("could not navigate: %w", err)
	}

	// Let late-loading content settle before capturing.
	page.WaitForTimeout(2000)

	fullPage, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("could not capture full page: %w", err)
	}

	result := &Capture{FullPage: fullPage}
	if !segments {
		return result, nil
	}

	result.Segments = make(map[string][]byte, len(models.SegmentLabels))
	for i, label := range models.SegmentLabels {
		if _, err := page.Evaluate(
			"pos => window.scrollTo(0, document.body.scrollHeight * pos)",
			scrollPositions[i],
		); err != nil {
			return nil, fmt.Errorf("could not scroll to %s: %w", label, err)
		}
		page.WaitForTimeout(500)

		segment, err := page.Screenshot(playwright.PageScreenshotOptions{
			Type: playwright.ScreenshotTypePng,
		})
		if err != nil {
			return nil, fmt.Errorf("could not capture %s segment: %w", label, err)
		}
		result.Segments[label] = segment
	}

	return result, nil
}
