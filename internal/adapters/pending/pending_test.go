package pending_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tempohq/tempo/internal/adapters/pending"
)

func TestMemoryRepository(t *testing.T) {
	Convey("Given an in-memory pending-action repository with a fixed clock", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		repo := pending.NewMemoryRepository(pending.WithClock(clock))

		action := pending.Action{
			ID:        "act-1",
			Owner:     "user-1",
			Payload:   `{"confirm":"archive_project"}`,
			ExpiresAt: now.Add(10 * time.Minute),
		}

		Convey("When an action is put and fetched", func() {
			So(repo.Put(ctx, action), ShouldBeNil)
			got, err := repo.Get(ctx, "act-1")

			Convey("Then it comes back intact", func() {
				So(err, ShouldBeNil)
				So(got.Owner, ShouldEqual, "user-1")
				So(got.Payload, ShouldEqual, `{"confirm":"archive_project"}`)
				So(got.ExpiresAt, ShouldEqual, action.ExpiresAt)
			})
		})

		Convey("When an action without an expiry is put", func() {
			noExpiry := action
			noExpiry.ExpiresAt = time.Time{}
			So(repo.Put(ctx, noExpiry), ShouldBeNil)

			got, err := repo.Get(ctx, "act-1")

			Convey("Then the default TTL is applied", func() {
				So(err, ShouldBeNil)
				So(got.ExpiresAt, ShouldEqual, now.Add(pending.DefaultTTL))
			})
		})

		Convey("When the repository carries a configured TTL", func() {
			tuned := pending.NewMemoryRepository(pending.WithClock(clock), pending.WithTTL(2*time.Minute))
			noExpiry := action
			noExpiry.ExpiresAt = time.Time{}
			So(tuned.Put(ctx, noExpiry), ShouldBeNil)

			got, err := tuned.Get(ctx, "act-1")

			Convey("Then that TTL replaces the package default", func() {
				So(err, ShouldBeNil)
				So(got.ExpiresAt, ShouldEqual, now.Add(2*time.Minute))
			})
		})

		Convey("When an action misses its id or owner", func() {
			Convey("Then the put is rejected", func() {
				So(errors.Is(repo.Put(ctx, pending.Action{Owner: "user-1"}), pending.ErrInvalid), ShouldBeTrue)
				So(errors.Is(repo.Put(ctx, pending.Action{ID: "act-2"}), pending.ErrInvalid), ShouldBeTrue)
			})
		})

		Convey("When the clock passes the expiry", func() {
			So(repo.Put(ctx, action), ShouldBeNil)
			now = now.Add(11 * time.Minute)

			_, err := repo.Get(ctx, "act-1")

			Convey("Then the fetch reports the expiry", func() {
				So(errors.Is(err, pending.ErrExpired), ShouldBeTrue)
			})

			Convey("And subsequent fetches report not found", func() {
				_, _ = repo.Get(ctx, "act-1")
				_, again := repo.Get(ctx, "act-1")
				So(errors.Is(again, pending.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an action is deleted", func() {
			So(repo.Put(ctx, action), ShouldBeNil)
			So(repo.Delete(ctx, "act-1"), ShouldBeNil)

			Convey("Then it is gone and deleting again is a no-op", func() {
				_, err := repo.Get(ctx, "act-1")
				So(errors.Is(err, pending.ErrNotFound), ShouldBeTrue)
				So(repo.Delete(ctx, "act-1"), ShouldBeNil)
			})
		})

		Convey("When an unknown id is fetched", func() {
			_, err := repo.Get(ctx, "act-ghost")

			Convey("Then the fetch reports not found", func() {
				So(errors.Is(err, pending.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestActionExpired(t *testing.T) {
	Convey("Given an action with an expiry", t, func() {
		now := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
		a := pending.Action{ID: "act-1", Owner: "user-1", ExpiresAt: now}

		Convey("When checked around the boundary", func() {
			Convey("Then expiry is strict", func() {
				So(a.Expired(now), ShouldBeFalse)
				So(a.Expired(now.Add(time.Second)), ShouldBeTrue)
				So(a.Expired(now.Add(-time.Second)), ShouldBeFalse)
			})
		})

		Convey("When the action has no expiry", func() {
			a.ExpiresAt = time.Time{}

			Convey("Then it never expires", func() {
				So(a.Expired(now.AddDate(1, 0, 0)), ShouldBeFalse)
			})
		})
	})
}
