package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

type tokenValue struct {
	UserID string `json:"userId"`
}

func storeContract(store Store, advance func(time.Duration)) {
	ctx := context.Background()

	Convey("Set/Get 往返", func() {
		So(store.Set(ctx, "a", tokenValue{UserID: "u1"}, time.Minute), ShouldBeNil)

		var got tokenValue
		So(store.Get(ctx, "a", &got), ShouldBeNil)
		So(got.UserID, ShouldEqual, "u1")

		ok, err := store.Exists(ctx, "a")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
	})

	Convey("不存在的 key 返回 ErrNotFound", func() {
		var got tokenValue
		So(store.Get(ctx, "missing", &got), ShouldEqual, ErrNotFound)
	})

	Convey("Delete 后不可读取", func() {
		So(store.Set(ctx, "b", "x", time.Minute), ShouldBeNil)
		So(store.Delete(ctx, "b"), ShouldBeNil)

		ok, err := store.Exists(ctx, "b")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("过期后不可读取", func() {
		So(store.Set(ctx, "c", "x", time.Second), ShouldBeNil)
		advance(2 * time.Second)

		var got string
		So(store.Get(ctx, "c", &got), ShouldEqual, ErrNotFound)
	})

	Convey("Incr 在窗口内累加，窗口结束后重置", func() {
		n, err := store.Incr(ctx, "counter", time.Minute)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)

		n, err = store.Incr(ctx, "counter", time.Minute)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)

		advance(2 * time.Minute)
		n, err = store.Incr(ctx, "counter", time.Minute)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)
	})

	Convey("Ping", func() {
		So(store.Ping(ctx), ShouldBeNil)
	})
}

func TestRedisCache(t *testing.T) {
	Convey("RedisCache", t, func() {
		mr, err := miniredis.Run()
		So(err, ShouldBeNil)
		defer mr.Close()

		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := NewRedisCacheFromClient(rdb, "test:", time.Hour)
		defer store.Close()

		So(store.Name(), ShouldEqual, "redis")
		storeContract(store, mr.FastForward)

		Convey("key 带前缀", func() {
			So(store.Set(context.Background(), "k", 1, time.Minute), ShouldBeNil)
			So(mr.Exists("test:k"), ShouldBeTrue)
		})
	})
}

func TestMemoryCache(t *testing.T) {
	Convey("MemoryCache", t, func() {
		store := NewMemoryCache(16, time.Hour)
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return clock }
		defer store.Close()

		So(store.Name(), ShouldEqual, "memory")
		storeContract(store, func(d time.Duration) { clock = clock.Add(d) })

		Convey("超出容量时淘汰最久未使用的 key", func() {
			small := NewMemoryCache(2, time.Hour)
			ctx := context.Background()
			So(small.Set(ctx, "1", 1, 0), ShouldBeNil)
			So(small.Set(ctx, "2", 2, 0), ShouldBeNil)
			So(small.Set(ctx, "3", 3, 0), ShouldBeNil)

			ok, _ := small.Exists(ctx, "1")
			So(ok, ShouldBeFalse)
			ok, _ = small.Exists(ctx, "3")
			So(ok, ShouldBeTrue)
		})
	})
}

func TestRateLimitKey(t *testing.T) {
	Convey("RateLimitKey 按窗口起点区分", t, func() {
		ts := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
		So(RateLimitKey("ip", "1.2.3.4", ts), ShouldEqual, "ratelimit:ip:1.2.3.4:202603011015")
	})
}
