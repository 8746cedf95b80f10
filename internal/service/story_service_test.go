package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/ai"
	"fable/internal/config"
	"fable/internal/pkg/artifact"
	"fable/internal/pkg/instagram"
	"fable/internal/pkg/mailer"
	"fable/internal/render"
)

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (*ai.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Result{Text: s.text, Model: "stub-model"}, nil
}

// stubRenderer writes a marker file per render and records the options used.
type stubRenderer struct {
	rendered []render.Options
	texts    []string
	failAt   int // 1-based render call to fail on; 0 disables
}

func (s *stubRenderer) Render(ctx context.Context, text string, opts render.Options, outPath string) error {
	if s.failAt > 0 && len(s.rendered)+1 == s.failAt {
		return errors.New("render blew up")
	}
	s.rendered = append(s.rendered, opts)
	s.texts = append(s.texts, text)
	return os.WriteFile(outPath, []byte("png:"+text), 0o644)
}

func newTestService(t *testing.T, gen TextGenerator, rend PageRenderer) (StoryService, *artifact.Manager) {
	t.Helper()
	m, err := artifact.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.RenderConfig{Width: 1080, Height: 1080, Margin: 96, FontSize: 44, PublicPath: "/images"}
	svc := NewStoryService(gen, rend, m, mailer.New(&config.MailConfig{AllowedDomain: "gmail.com"}), instagram.New(), cfg)
	return svc, m
}

const sampleGeneration = "Title: The Boulder\nPage 1\nHe pushed.\nPage 2\nIt fell.\nText Color: #111111\nBackground Color: #eeeeee"

func TestGenerateStory(t *testing.T) {
	Convey("GenerateStory runs the full pipeline", t, func() {
		ctx := context.Background()

		Convey("the documented end-to-end scenario", func() {
			rend := &stubRenderer{}
			svc, m := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

			result, err := svc.GenerateStory(ctx, ai.StoryParams{
				EraOrCulture:     "Ancient Greece",
				StoryOrCharacter: "Sisyphus",
			})
			So(err, ShouldBeNil)
			So(result.Title, ShouldEqual, "The Boulder")
			So(result.Pages, ShouldResemble, []string{"He pushed.", "It fell."})
			So(result.TextColor, ShouldEqual, "#111111")
			So(result.BackgroundColor, ShouldEqual, "#eeeeee")
			So(result.ImagePaths, ShouldResemble, []string{
				"/images/story_page_0.png",
				"/images/story_page_1.png",
				"/images/story_page_2.png",
			})

			files, err := m.List()
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 3)

			// Title page first, unlabeled; story pages carry labels.
			So(rend.texts[0], ShouldEqual, "The Boulder")
			So(rend.rendered[0].PageNumberLabel, ShouldEqual, "")
			So(rend.rendered[1].PageNumberLabel, ShouldEqual, "1 / 2")
			So(rend.rendered[2].PageNumberLabel, ShouldEqual, "2 / 2")

			// Parsed colors flow into the render options.
			So(rend.rendered[0].TextColor, ShouldEqual, "#111111")
			So(rend.rendered[0].BackgroundColor, ShouldEqual, "#eeeeee")
		})

		Convey("a new run replaces the previous gallery", func() {
			rend := &stubRenderer{}
			svc, m := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

			_, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldBeNil)

			shorter := &stubGenerator{text: "Title: One Pager\nPage 1\nonly page"}
			svc2 := NewStoryService(shorter, rend, m, mailer.New(&config.MailConfig{}), instagram.New(), &config.RenderConfig{Width: 1080, Height: 1080})
			_, err = svc2.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldBeNil)

			files, err := m.List()
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 2) // stale page 2 image is gone
		})

		Convey("generation failure propagates and renders nothing", func() {
			rend := &stubRenderer{}
			svc, m := newTestService(t, &stubGenerator{err: errors.New("429 rate limited")}, rend)

			_, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldNotBeNil)
			So(rend.rendered, ShouldBeEmpty)

			files, _ := m.List()
			So(files, ShouldBeEmpty)
		})

		Convey("render failure discards partial results from the response", func() {
			rend := &stubRenderer{failAt: 2}
			svc, _ := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

			_, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldNotBeNil)
		})

		Convey("zero-page story renders only the title card", func() {
			rend := &stubRenderer{}
			svc, m := newTestService(t, &stubGenerator{text: "Just a title, no markers"}, rend)

			result, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldBeNil)
			So(result.Pages, ShouldBeEmpty)
			So(result.ImagePaths, ShouldHaveLength, 1)

			files, _ := m.List()
			So(files, ShouldHaveLength, 1)
		})
	})
}

func TestRerenderImages(t *testing.T) {
	Convey("RerenderImages re-renders parsed pages with new styling", t, func() {
		ctx := context.Background()
		rend := &stubRenderer{}
		svc, m := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

		paths, err := svc.RerenderImages(ctx, "The Boulder", []string{"He pushed.", "It fell."}, render.Options{
			FontFamily:      "Courier New, monospace",
			TextColor:       "#000000",
			BackgroundColor: "#ffffff",
		})
		So(err, ShouldBeNil)
		So(paths, ShouldHaveLength, 3)

		So(rend.rendered[0].FontFamily, ShouldEqual, "Courier New, monospace")
		So(rend.rendered[0].TextColor, ShouldEqual, "#000000")
		So(rend.rendered[0].BackgroundColor, ShouldEqual, "#ffffff")

		files, _ := m.List()
		So(files, ShouldHaveLength, 3)
	})
}

func TestGalleryZip(t *testing.T) {
	Convey("GalleryZip packages the current image set", t, func() {
		ctx := context.Background()
		rend := &stubRenderer{}
		svc, _ := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

		Convey("fails with ErrNoImages before any generation", func() {
			_, err := svc.GalleryZip()
			So(errors.Is(err, ErrNoImages), ShouldBeTrue)
		})

		Convey("returns a readable archive after generation", func() {
			_, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldBeNil)

			data, err := svc.GalleryZip()
			So(err, ShouldBeNil)

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(zr.File, ShouldHaveLength, 3)
			So(zr.File[0].Name, ShouldEqual, "story_page_0.png")
		})
	})
}

func TestSendGalleryEmail(t *testing.T) {
	Convey("SendGalleryEmail resolves requested paths against the gallery", t, func() {
		ctx := context.Background()
		rend := &stubRenderer{}
		svc, _ := newTestService(t, &stubGenerator{text: sampleGeneration}, rend)

		Convey("fails with ErrNoImages when nothing resolves", func() {
			err := svc.SendGalleryEmail("reader@gmail.com", []string{"/images/story_page_0.png"}, "story.zip")
			So(errors.Is(err, ErrNoImages), ShouldBeTrue)
		})

		Convey("reaches the relay (and fails on missing credentials) once images exist", func() {
			_, err := svc.GenerateStory(ctx, ai.StoryParams{EraOrCulture: "Rome"})
			So(err, ShouldBeNil)

			err = svc.SendGalleryEmail("reader@gmail.com", []string{"/images/story_page_0.png"}, "story.zip")
			So(errors.Is(err, mailer.ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func TestPostInstagram(t *testing.T) {
	Convey("PostInstagram surfaces the unimplemented adapter", t, func() {
		svc, _ := newTestService(t, &stubGenerator{}, &stubRenderer{})
		_, err := svc.PostInstagram(context.Background(), []string{"a.png"}, "caption", nil)
		So(errors.Is(err, instagram.ErrNotImplemented), ShouldBeTrue)
	})
}

func TestAttachmentName(t *testing.T) {
	Convey("AttachmentName slugs the narrative parameters", t, func() {
		So(AttachmentName("Ancient Greece", "Sisyphus"), ShouldEqual, "ancient-greece_sisyphus_story.zip")
		So(AttachmentName("", ""), ShouldEqual, "story_images.zip")
		So(AttachmentName("Edo Japan", ""), ShouldEqual, "edo-japan_story.zip")
	})
}
