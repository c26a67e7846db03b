package fetch

import (
	"context"
	"unicode/utf8"
)

// JobDescriptionText reduces a job posting page to plain text using the
// platform's content and noise selectors.
func JobDescriptionText(html string, platform Platform) (string, error) {
	return ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
}

// JobDescription fetches a job posting and extracts its text. When the HTTP
// text is too short and opts.UseBrowser is set, the page is rendered in a
// headless browser and re-extracted; a failed render keeps the HTTP text.
func JobDescription(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	platform := DetectPlatform(urlStr)

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	result.Platform = platform

	text, err := JobDescriptionText(result.HTML, platform)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	logger.Debug().Str("url", urlStr).Str("platform", string(platform)).Int("chars", utf8.RuneCountInString(text)).Msg("fetched job description")

	if opts.UseBrowser && ShouldUseBrowser(text) {
		logger.Debug().Str("url", urlStr).Msg("content too short, rendering in browser")
		html, renderErr := Render(ctx, urlStr, opts.BrowserTimeout)
		if renderErr != nil {
			logger.Warn().Err(renderErr).Str("url", urlStr).Msg("browser rendering failed, using HTTP content")
		} else if rendered, extractErr := JobDescriptionText(html, platform); extractErr == nil {
			result.HTML = html
			text = rendered
			result.Rendered = true
		}
	}

	result.Text = text
	return result, nil
}
