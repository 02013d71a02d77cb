package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/config"
)

func TestGemini(t *testing.T) {
	Convey("Gemini", t, func() {
		var (
			gotPath   string
			gotKey    string
			gotBody   geminiRequest
			status    = http.StatusOK
			replyBody = `{"candidates":[{"content":{"parts":[{"text":"  Olá!  "}]}}]}`
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-goog-api-key")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &gotBody)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(replyBody))
		}))
		defer srv.Close()

		g, err := NewGemini(&config.GeminiConfig{
			APIKey: "k", BaseURL: srv.URL, Model: "gemini-2.0-flash",
			Temperature: 0.8, TopK: 40, TopP: 0.9, MaxOutputTokens: 1000,
		})
		So(err, ShouldBeNil)

		Convey("成功时解包并去除空白", func() {
			text, err := g.Generate(context.Background(), "prompt")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Olá!")
			So(gotPath, ShouldEqual, "/models/gemini-2.0-flash:generateContent")
			So(gotKey, ShouldEqual, "k")
			So(gotBody.Contents[0].Parts[0].Text, ShouldEqual, "prompt")
			So(gotBody.GenerationConfig.TopK, ShouldEqual, 40)
			So(gotBody.GenerationConfig.MaxOutputTokens, ShouldEqual, 1000)
		})

		Convey("HTTP 500 返回 StatusError", func() {
			status = http.StatusInternalServerError
			replyBody = `{"error":"boom"}`
			_, err := g.Generate(context.Background(), "prompt")

			var se *StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.StatusCode, ShouldEqual, 500)
		})

		Convey("没有候选结果", func() {
			replyBody = `{"candidates":[]}`
			_, err := g.Generate(context.Background(), "prompt")
			So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)
		})

		Convey("空白文本", func() {
			replyBody = `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`
			_, err := g.Generate(context.Background(), "prompt")
			So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)
		})

		Convey("响应体不是 JSON", func() {
			replyBody = `<html>oops</html>`
			_, err := g.Generate(context.Background(), "prompt")
			So(errors.Is(err, ErrMalformedResponse), ShouldBeTrue)
		})
	})

	Convey("缺少 API key", t, func() {
		_, err := NewGemini(&config.GeminiConfig{})
		So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
	})
}

func TestRaikken(t *testing.T) {
	Convey("Raikken", t, func() {
		var (
			gotPrompt, gotKey string
			replyBody         = `{"resultado":" Oi! "}`
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPrompt = r.URL.Query().Get("prompt")
			gotKey = r.URL.Query().Get("apikey")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(replyBody))
		}))
		defer srv.Close()

		r, err := NewRaikken(&config.RaikkenConfig{BaseURL: srv.URL + "/api/ia/gemini", APIKey: "static"})
		So(err, ShouldBeNil)

		Convey("读取 resultado", func() {
			text, err := r.Generate(context.Background(), "olá & tudo bem?")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Oi!")
			So(gotPrompt, ShouldEqual, "olá & tudo bem?")
			So(gotKey, ShouldEqual, "static")
		})

		Convey("resultado 为空时读取 output", func() {
			replyBody = `{"output":"via output"}`
			text, err := r.Generate(context.Background(), "x")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "via output")
		})

		Convey("两个字段都没有", func() {
			replyBody = `{"status":"ok"}`
			_, err := r.Generate(context.Background(), "x")
			So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)
		})
	})
}

type fakeChatModel struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.got = in
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestChatModel(t *testing.T) {
	Convey("ChatModel 适配器", t, func() {
		fake := &fakeChatModel{reply: schema.AssistantMessage(" resposta ", nil)}
		p := WrapChatModel("ark", fake)

		So(p.Name(), ShouldEqual, "chatmodel:ark")

		text, err := p.Generate(context.Background(), "prompt")
		So(err, ShouldBeNil)
		So(text, ShouldEqual, "resposta")
		So(fake.got, ShouldHaveLength, 1)
		So(fake.got[0].Role, ShouldEqual, schema.User)
		So(fake.got[0].Content, ShouldEqual, "prompt")

		Convey("模型报错", func() {
			fake.err = errors.New("quota")
			_, err := p.Generate(context.Background(), "prompt")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBuildChain(t *testing.T) {
	Convey("BuildChain 跳过未配置和未知的 provider", t, func() {
		cfg := &config.AIConfig{
			Chain:   []string{"gemini", "raikken", "unknown"},
			Raikken: config.RaikkenConfig{BaseURL: "http://localhost"},
		}
		chain := BuildChain(context.Background(), cfg)
		So(chain, ShouldHaveLength, 1)
		So(chain[0].Name(), ShouldEqual, "raikken")
	})
}
