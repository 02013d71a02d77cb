package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/ai/fallback"
	"catalyst/internal/ai/provider"
)

type recorder struct {
	calls []string
}

func (r *recorder) provider(name, reply string, err error) provider.Provider {
	return provider.Func{ID: name, Fn: func(ctx context.Context, prompt string) (string, error) {
		r.calls = append(r.calls, name)
		return reply, err
	}}
}

func TestDispatcher(t *testing.T) {
	responder := fallback.NewResponder(fallback.DefaultRules(), fallback.DefaultPool(), func(int) int { return 0 })

	Convey("Dispatcher", t, func() {
		rec := &recorder{}
		ctx := context.Background()

		Convey("主 provider 成功时不调用备用", func() {
			d := NewDispatcher([]provider.Provider{
				rec.provider("primary", "  resposta  ", nil),
				rec.provider("secondary", "outra", nil),
			}, responder, time.Second)

			res := d.Dispatch(ctx, "prompt", "oi")
			So(res.Text, ShouldEqual, "resposta")
			So(res.Provider, ShouldEqual, "primary")
			So(res.Fallback, ShouldBeFalse)
			So(rec.calls, ShouldResemble, []string{"primary"})
		})

		Convey("主 provider 失败时使用备用", func() {
			d := NewDispatcher([]provider.Provider{
				rec.provider("primary", "", &provider.StatusError{Provider: "primary", StatusCode: 500}),
				rec.provider("secondary", "Oi!", nil),
			}, responder, time.Second)

			res := d.Dispatch(ctx, "prompt", "oi")
			So(res.Text, ShouldEqual, "Oi!")
			So(res.Provider, ShouldEqual, "secondary")
			So(rec.calls, ShouldResemble, []string{"primary", "secondary"})
		})

		Convey("空文本视为失败", func() {
			d := NewDispatcher([]provider.Provider{
				rec.provider("primary", "   ", nil),
				rec.provider("secondary", "ok", nil),
			}, responder, time.Second)

			So(d.Dispatch(ctx, "prompt", "x").Provider, ShouldEqual, "secondary")
		})

		Convey("全部失败时使用关键词兜底，每个 provider 只调用一次", func() {
			boom := errors.New("boom")
			d := NewDispatcher([]provider.Provider{
				rec.provider("primary", "", boom),
				rec.provider("secondary", "", boom),
			}, responder, time.Second)

			res := d.Dispatch(ctx, "prompt", "obrigado")
			So(res.Fallback, ShouldBeTrue)
			So(res.Provider, ShouldEqual, FallbackProvider)
			So(res.Text, ShouldStartWith, "De nada!")
			So(rec.calls, ShouldResemble, []string{"primary", "secondary"})
		})

		Convey("没有 provider 时直接兜底", func() {
			res := NewDispatcher(nil, responder, time.Second).Dispatch(ctx, "prompt", "xyz")
			So(res.Text, ShouldEqual, fallback.DefaultPool()[0])
		})

		Convey("超时的 provider 视为失败", func() {
			slow := provider.Func{ID: "slow", Fn: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}}
			d := NewDispatcher([]provider.Provider{slow, rec.provider("secondary", "rápido", nil)}, responder, 20*time.Millisecond)

			res := d.Dispatch(ctx, "prompt", "x")
			So(res.Provider, ShouldEqual, "secondary")
		})

		Convey("provider panic 视为失败", func() {
			bad := provider.Func{ID: "bad", Fn: func(context.Context, string) (string, error) {
				panic("nil map")
			}}
			d := NewDispatcher([]provider.Provider{bad, rec.provider("secondary", "ok", nil)}, responder, time.Second)

			So(d.Dispatch(ctx, "prompt", "x").Provider, ShouldEqual, "secondary")
		})

		Convey("请求已取消时不再调用 provider", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			d := NewDispatcher([]provider.Provider{rec.provider("primary", "x", nil)}, responder, time.Second)

			res := d.Dispatch(cctx, "prompt", "x")
			So(res.Fallback, ShouldBeTrue)
			So(rec.calls, ShouldBeEmpty)
		})

		Convey("Providers", func() {
			d := NewDispatcher([]provider.Provider{rec.provider("a", "", nil), rec.provider("b", "", nil)}, nil, 0)
			So(d.Providers(), ShouldResemble, []string{"a", "b"})
		})
	})
}
