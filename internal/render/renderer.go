// Package render turns page text into fixed-size square PNG images by laying
// out an inline-styled HTML document in a shared headless browser and
// capturing a screenshot.
package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// Error wraps a browser-engine failure with the stage it happened in.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Renderer renders pages through a shared EnginePool. One logical browser
// page is created per render call and disposed after capture.
type Renderer struct {
	pool   *EnginePool
	settle time.Duration
}

// NewRenderer creates a renderer. settle is the fallback delay used when the
// font-ready signal is unavailable.
func NewRenderer(pool *EnginePool, settle time.Duration) *Renderer {
	if settle <= 0 {
		settle = 300 * time.Millisecond
	}
	return &Renderer{pool: pool, settle: settle}
}

// Render lays out text with the given style options and writes a PNG of
// exactly opts.Width x opts.Height pixels to outPath. Overflowing text is
// clipped inside the content box; the outer dimensions never change.
func (r *Renderer) Render(ctx context.Context, text string, opts Options, outPath string) error {
	opts = opts.normalized()

	html, err := buildHTML(text, opts)
	if err != nil {
		return &Error{Stage: "layout", Err: err}
	}

	browser, err := r.pool.Acquire()
	if err != nil {
		return &Error{Stage: "acquire", Err: err}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		r.invalidateOnSessionError(err)
		return &Error{Stage: "open page", Err: err}
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Debug().Err(err).Msg("page close failed")
		}
	}()

	page = page.Context(ctx)

	// Layout uses only inline styles and system fonts, so every resource
	// fetch is blocked: no images, fonts, stylesheets or XHR can slow down
	// or flake a render.
	router := page.HijackRequests()
	if err := router.Add("*", "", func(h *rod.Hijack) {
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
	}); err != nil {
		log.Warn().Err(err).Msg("could not install request blocker")
	} else {
		go router.Run()
		defer router.Stop()
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		r.invalidateOnSessionError(err)
		return &Error{Stage: "set viewport", Err: err}
	}

	if err := page.SetDocumentContent(html); err != nil {
		r.invalidateOnSessionError(err)
		return &Error{Stage: "set content", Err: err}
	}

	// Best effort: a failed load wait still proceeds to capture whatever
	// state exists rather than losing the whole batch over one flaky page.
	if err := page.WaitLoad(); err != nil {
		log.Warn().Err(err).Msg("page load wait failed, capturing current state")
	}

	r.waitSettled(page)

	shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		r.invalidateOnSessionError(err)
		return &Error{Stage: "screenshot", Err: err}
	}

	if err := os.WriteFile(outPath, shot, 0o644); err != nil {
		return &Error{Stage: "write file", Err: err}
	}
	return nil
}

// waitSettled waits for fonts and layout to apply before capture. The
// font-ready promise is the real completion signal; the fixed delay is only
// the fallback when evaluation fails.
func (r *Renderer) waitSettled(page *rod.Page) {
	if _, err := page.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		log.Debug().Err(err).Msg("font-ready wait failed, falling back to fixed settle delay")
		time.Sleep(r.settle)
	}
}

func (r *Renderer) invalidateOnSessionError(err error) {
	if IsSessionError(err) {
		r.pool.Invalidate()
	}
}
