package fallback

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResponder(t *testing.T) {
	Convey("默认规则", t, func() {
		r := NewResponder(DefaultRules(), DefaultPool(), func(int) int { return 0 })

		Convey("关键词规则原样返回，与随机数无关", func() {
			cases := map[string]string{
				"Quem é você?":            "identity",
				"quem criou isso":         "creator",
				"Qual app você usa?":      "app",
				"que tecnologia usa":      "system",
				"como funciona":           "how-it-works",
				"a API está funcionando?": "api-status",
				"Olá":                     "greeting",
				"como está?":              "how-are-you",
				"pode gerar um texto":     "create",
				"obrigado":                "thanks",
				"VALEU":                   "thanks",
			}
			for input, rule := range cases {
				So(r.Matched(input), ShouldEqual, rule)
			}

			thanks := r.Reply("obrigado")
			So(strings.HasPrefix(thanks, "De nada!"), ShouldBeTrue)

			other := NewResponder(DefaultRules(), DefaultPool(), func(n int) int { return n - 1 })
			So(other.Reply("obrigado"), ShouldEqual, thanks)
			So(other.Reply("quem é você"), ShouldEqual, r.Reply("quem é você"))
		})

		Convey("规则按顺序匹配", func() {
			// 同时命中 identity 和 greeting，identity 优先
			So(r.Matched("oi, quem é você?"), ShouldEqual, "identity")
		})

		Convey("未命中时从回复池选择", func() {
			So(r.Matched("xyz"), ShouldEqual, "")
			So(r.Reply("xyz"), ShouldEqual, DefaultPool()[0])

			last := NewResponder(DefaultRules(), DefaultPool(), func(n int) int { return n - 1 })
			So(last.Reply("xyz"), ShouldEqual, DefaultPool()[4])
		})

		Convey("pick 越界时退回第一条", func() {
			bad := NewResponder(nil, DefaultPool(), func(int) int { return 99 })
			So(bad.Reply("xyz"), ShouldEqual, DefaultPool()[0])
		})
	})

	Convey("任意输入都返回非空回复", t, func() {
		r := Default()
		for _, in := range []string{"", "   ", "🙂", "asdf qwer", strings.Repeat("z", 5000)} {
			So(r.Reply(in), ShouldNotBeBlank)
		}

		empty := NewResponder(nil, nil, nil)
		So(empty.Reply("x"), ShouldEqual, Emergency)
	})
}
