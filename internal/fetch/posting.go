package fetch

import (
	"context"
	"log"
)

// Posting is a job posting reduced to plain text.
type Posting struct {
	URL        string
	Platform   Platform
	HTML       string
	Text       string
	StatusCode int
	Rendered   bool // text came from a headless browser render
}

// JobOptions configures JobDescription.
type JobOptions struct {
	Fetch *Options
	// Render is used when the static page yields too little text. Nil disables the fallback.
	Render  Renderer
	Verbose bool
}

// JobDescription fetches a job posting URL and extracts its description
// text using platform-specific selectors, falling back to a browser render
// for pages whose content is built client-side.
func JobDescription(ctx context.Context, urlStr string, opts *JobOptions) (*Posting, error) {
	if opts == nil {
		opts = &JobOptions{}
	}

	result, err := URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, err
	}

	posting := &Posting{
		URL:        urlStr,
		Platform:   DetectPlatform(urlStr),
		HTML:       result.HTML,
		StatusCode: result.StatusCode,
	}

	content := ContentSelectors(urlStr)
	noise := NoiseSelectors(urlStr)

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if ShouldUseBrowser(text) && opts.Render != nil {
		if opts.Verbose {
			log.Printf("[fetch] %s yielded %d chars, rendering in browser", urlStr, len(text))
		}
		html, renderErr := opts.Render(ctx, urlStr)
		if renderErr != nil {
			// The static text is still usable.
			log.Printf("[fetch] browser render failed for %s: %v", urlStr, renderErr)
		} else if rendered, extractErr := ExtractMainText(html, content, noise...); extractErr == nil && len(rendered) > len(text) {
			text = rendered
			posting.HTML = html
			posting.Rendered = true
		}
	}

	posting.Text = text
	if opts.Verbose {
		log.Printf("[fetch] extracted %d chars from %s (platform=%s, rendered=%t)", len(text), urlStr, posting.Platform, posting.Rendered)
	}
	return posting, nil
}
