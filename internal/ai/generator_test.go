package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/config"
)

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in tests")
}

func (f *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func newTestGenerator(models ...*fakeChatModel) *Generator {
	g := &Generator{cfg: &config.AIConfig{APIKey: "test-key"}}
	for i, m := range models {
		name := string(rune('a' + i))
		g.candidates = append(g.candidates, candidate{name: "model-" + name, chat: m})
	}
	return g
}

func TestGeneratorFallback(t *testing.T) {
	Convey("Generate tries candidate models in priority order", t, func() {
		ctx := context.Background()

		Convey("first healthy model wins and later ones are untouched", func() {
			first := &fakeChatModel{reply: "Title: T\nPage 1\nbody"}
			second := &fakeChatModel{reply: "unused"}
			g := newTestGenerator(first, second)

			res, err := g.Generate(ctx, "prompt")
			So(err, ShouldBeNil)
			So(res.Text, ShouldEqual, "Title: T\nPage 1\nbody")
			So(res.Model, ShouldEqual, "model-a")
			So(second.calls, ShouldEqual, 0)
		})

		Convey("rate-limited failure falls through to the next candidate", func() {
			first := &fakeChatModel{err: errors.New("429 too many requests")}
			second := &fakeChatModel{reply: "story"}
			g := newTestGenerator(first, second)

			res, err := g.Generate(ctx, "prompt")
			So(err, ShouldBeNil)
			So(res.Model, ShouldEqual, "model-b")
			So(first.calls, ShouldEqual, 1)
		})

		Convey("unavailable failure also falls through", func() {
			first := &fakeChatModel{err: errors.New("503 service unavailable")}
			second := &fakeChatModel{reply: "story"}
			g := newTestGenerator(first, second)

			res, err := g.Generate(ctx, "prompt")
			So(err, ShouldBeNil)
			So(res.Model, ShouldEqual, "model-b")
		})

		Convey("fatal failure aborts without trying further candidates", func() {
			first := &fakeChatModel{err: errors.New("401 invalid api key")}
			second := &fakeChatModel{reply: "never reached"}
			g := newTestGenerator(first, second)

			_, err := g.Generate(ctx, "prompt")
			So(err, ShouldNotBeNil)
			var genErr *GenerationError
			So(errors.As(err, &genErr), ShouldBeTrue)
			So(genErr.Kind, ShouldEqual, KindFatal)
			So(second.calls, ShouldEqual, 0)
		})

		Convey("exhausted list surfaces the last error observed", func() {
			first := &fakeChatModel{err: errors.New("429 slow down")}
			second := &fakeChatModel{err: errors.New("model overloaded")}
			g := newTestGenerator(first, second)

			_, err := g.Generate(ctx, "prompt")
			So(err, ShouldNotBeNil)
			var genErr *GenerationError
			So(errors.As(err, &genErr), ShouldBeTrue)
			So(genErr.Model, ShouldEqual, "model-b")
			So(genErr.Kind, ShouldEqual, KindUnavailable)
		})

		Convey("empty content is a placeholder story, not a failure", func() {
			g := newTestGenerator(&fakeChatModel{reply: "   \n "})

			res, err := g.Generate(ctx, "prompt")
			So(err, ShouldBeNil)
			So(res.Text, ShouldEqual, PlaceholderText)
		})

		Convey("missing API key is a configuration error on first call", func() {
			g := &Generator{cfg: &config.AIConfig{}}
			_, err := g.Generate(ctx, "prompt")
			So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("classify derives a failure kind from the error chain", t, func() {
		cases := []struct {
			err  error
			kind Kind
		}{
			{errors.New("429 Too Many Requests"), KindRateLimited},
			{errors.New("you exceeded your current quota"), KindRateLimited},
			{errors.New("503 Service Unavailable"), KindUnavailable},
			{errors.New("upstream connection refused"), KindUnavailable},
			{context.DeadlineExceeded, KindUnavailable},
			{errors.New("401 Unauthorized"), KindFatal},
			{errors.New("invalid request: missing messages"), KindFatal},
		}
		for _, c := range cases {
			So(classify(c.err), ShouldEqual, c.kind)
		}

		Convey("an already-classified error keeps its kind", func() {
			wrapped := &GenerationError{Model: "m", Kind: KindRateLimited, Err: errors.New("whatever")}
			So(classify(wrapped), ShouldEqual, KindRateLimited)
		})
	})
}
