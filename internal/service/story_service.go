// Package service orchestrates the story pipeline: generate prose, parse it
// into pages, clear stale artifacts, render every page, and hand the results
// to the delivery adapters.
package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"fable/internal/ai"
	"fable/internal/config"
	"fable/internal/pkg/artifact"
	"fable/internal/pkg/instagram"
	"fable/internal/pkg/mailer"
	"fable/internal/pkg/storyparse"
	"fable/internal/pkg/zipper"
	"fable/internal/render"
)

// ErrNoImages is returned when a delivery is requested before any story has
// been generated.
var ErrNoImages = errors.New("no generated images exist")

// TextGenerator produces raw story text from a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*ai.Result, error)
}

// PageRenderer renders one page of text to a PNG at outPath.
type PageRenderer interface {
	Render(ctx context.Context, text string, opts render.Options, outPath string) error
}

// StoryResult is the outcome of one full generation run.
type StoryResult struct {
	Title           string
	Pages           []string
	ImagePaths      []string
	TextColor       string
	BackgroundColor string
	Model           string
}

// StoryService is the pipeline behind the story endpoints.
type StoryService interface {
	// GenerateStory runs the full pipeline and returns the parsed story
	// plus public paths of the rendered images (index 0 = title page).
	GenerateStory(ctx context.Context, params ai.StoryParams) (*StoryResult, error)

	// RerenderImages re-renders already-parsed pages with new style options.
	RerenderImages(ctx context.Context, title string, pages []string, opts render.Options) ([]string, error)

	// GalleryZip packages the current image set into an in-memory archive.
	GalleryZip() ([]byte, error)

	// SendGalleryEmail zips the requested images and mails them.
	SendGalleryEmail(to string, requested []string, attachmentName string) error

	// ValidateRecipient checks an email address against the relay policy.
	ValidateRecipient(addr string) error

	// PostInstagram forwards the gallery to the social-post adapter.
	PostInstagram(ctx context.Context, imagePaths []string, caption string, config map[string]interface{}) (string, error)
}

type storyService struct {
	// The flat naming scheme supports one story at a time: deletes and
	// writes for the same paths must not interleave across requests, so
	// every operation that touches the gallery holds this lock.
	mu sync.Mutex

	generator TextGenerator
	renderer  PageRenderer
	artifacts *artifact.Manager
	mail      *mailer.Mailer
	insta     *instagram.Adapter
	renderCfg *config.RenderConfig
}

// NewStoryService wires the pipeline together.
func NewStoryService(
	generator TextGenerator,
	renderer PageRenderer,
	artifacts *artifact.Manager,
	mail *mailer.Mailer,
	insta *instagram.Adapter,
	renderCfg *config.RenderConfig,
) StoryService {
	return &storyService{
		generator: generator,
		renderer:  renderer,
		artifacts: artifacts,
		mail:      mail,
		insta:     insta,
		renderCfg: renderCfg,
	}
}

func (s *storyService) GenerateStory(ctx context.Context, params ai.StoryParams) (*StoryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := ai.BuildPrompt(params)
	result, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate story text: %w", err)
	}

	story := storyparse.Parse(result.Text)
	log.Info().
		Str("title", story.Title).
		Int("pages", len(story.Pages)).
		Str("model", result.Model).
		Msg("story parsed")

	opts := s.baseOptions()
	opts.TextColor = story.TextColor
	opts.BackgroundColor = story.BackgroundColor

	imagePaths, err := s.renderAll(ctx, story.Title, story.Pages, opts)
	if err != nil {
		return nil, err
	}

	return &StoryResult{
		Title:           story.Title,
		Pages:           story.Pages,
		ImagePaths:      imagePaths,
		TextColor:       story.TextColor,
		BackgroundColor: story.BackgroundColor,
		Model:           result.Model,
	}, nil
}

func (s *storyService) RerenderImages(ctx context.Context, title string, pages []string, opts render.Options) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.baseOptions()
	if opts.FontFamily != "" {
		base.FontFamily = opts.FontFamily
	}
	if opts.TextColor != "" {
		base.TextColor = opts.TextColor
	}
	if opts.BackgroundColor != "" {
		base.BackgroundColor = opts.BackgroundColor
	}

	return s.renderAll(ctx, title, pages, base)
}

// renderAll clears the previous gallery and renders the title page plus
// every story page sequentially. Renders are strictly ordered; a failure
// discards the partial gallery (no partial-success contract). Callers must
// hold s.mu.
func (s *storyService) renderAll(ctx context.Context, title string, pages []string, opts render.Options) ([]string, error) {
	if err := s.artifacts.Clear(); err != nil {
		return nil, fmt.Errorf("clear prior artifacts: %w", err)
	}

	texts := append([]string{title}, pages...)
	imagePaths := make([]string, 0, len(texts))

	for i, text := range texts {
		pageOpts := opts
		if i > 0 {
			pageOpts.PageNumberLabel = fmt.Sprintf("%d / %d", i, len(pages))
		}

		renderCtx := ctx
		var cancel context.CancelFunc
		if s.renderCfg.Timeout > 0 {
			renderCtx, cancel = context.WithTimeout(ctx, s.renderCfg.Timeout)
		}
		err := s.renderer.Render(renderCtx, text, pageOpts, s.artifacts.Path(i))
		if cancel != nil {
			cancel()
		}
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i, err)
		}

		imagePaths = append(imagePaths, s.publicPath(i))
	}

	log.Info().Int("images", len(imagePaths)).Msg("gallery rendered")
	return imagePaths, nil
}

func (s *storyService) GalleryZip() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.artifacts.List()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	return zipper.Build(files)
}

func (s *storyService) SendGalleryEmail(to string, requested []string, attachmentName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]string, 0, len(requested))
	for _, req := range requested {
		if path, ok := s.artifacts.Resolve(req); ok {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return ErrNoImages
	}

	data, err := zipper.Build(files)
	if err != nil {
		return fmt.Errorf("package gallery: %w", err)
	}
	return s.mail.SendZip(to, data, attachmentName)
}

func (s *storyService) ValidateRecipient(addr string) error {
	return s.mail.ValidateAddress(addr)
}

func (s *storyService) PostInstagram(ctx context.Context, imagePaths []string, caption string, config map[string]interface{}) (string, error) {
	return s.insta.Post(ctx, imagePaths, caption, config)
}

func (s *storyService) baseOptions() render.Options {
	return render.Options{
		FontFamily: s.renderCfg.FontFamily,
		FontSize:   s.renderCfg.FontSize,
		Margin:     s.renderCfg.Margin,
		Width:      s.renderCfg.Width,
		Height:     s.renderCfg.Height,
	}
}

func (s *storyService) publicPath(index int) string {
	prefix := s.renderCfg.PublicPath
	if prefix == "" {
		prefix = "/images"
	}
	return path.Join(prefix, s.artifacts.FileName(index))
}

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// AttachmentName derives a zip filename from the narrative parameters,
// e.g. "ancient-greece_sisyphus_story.zip".
func AttachmentName(era, subject string) string {
	parts := make([]string, 0, 2)
	for _, raw := range []string{era, subject} {
		slug := unsafeNameRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
		slug = strings.Trim(slug, "-")
		if slug != "" {
			parts = append(parts, slug)
		}
	}
	if len(parts) == 0 {
		return "story_images.zip"
	}
	return strings.Join(parts, "_") + "_story.zip"
}
