package rating_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/rating"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/skills"
)

const (
	bob  = "0xbob"
	carl = "0xcarl"
	dave = "0xdave"
)

// fakeDirectory recognizes a fixed set of addresses.
type fakeDirectory struct {
	registered map[string]bool
}

func (d *fakeDirectory) IsRegistered(address string) bool { return d.registered[address] }

// recordingSink records credits and can be told to fail.
type recordingSink struct {
	credits map[string]uint64
	calls   []uint64
	fail    error
}

func (s *recordingSink) Credit(account string, units uint64) error {
	if s.fail != nil {
		return s.fail
	}
	if s.credits == nil {
		s.credits = make(map[string]uint64)
	}
	s.credits[account] += units
	s.calls = append(s.calls, units)
	return nil
}

type fixture struct {
	item   *rating.Item
	sink   *recordingSink
	ledger *skills.Ledger
	seq    *rating.Sequence
}

func newFixture() *fixture {
	f := &fixture{
		sink:   &recordingSink{},
		ledger: skills.NewLedger(),
		seq:    rating.NewSequence(),
	}
	f.item = rating.NewItem(uuid.New(), bob, "Bobs content", "Vegetarian", rating.Deps{
		Orders:    f.seq,
		Rewards:   f.sink,
		Skills:    f.ledger,
		Directory: &fakeDirectory{registered: map[string]bool{bob: true, carl: true}},
	})
	return f
}

func TestPermissionStateMachine(t *testing.T) {
	Convey("Given an item owned by bob", t, func() {
		f := newFixture()

		Convey("Then a fresh rater starts at none", func() {
			So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
		})

		Convey("When bob grants carl", func() {
			So(f.item.Grant(bob, carl), ShouldBeNil)

			Convey("Then carl is granted", func() {
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
			})

			Convey("And re-granting is a no-op", func() {
				So(f.item.Grant(bob, carl), ShouldBeNil)
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
			})

			Convey("And bob can revoke", func() {
				So(f.item.Revoke(bob, carl), ShouldBeNil)
				So(f.item.Permission(carl), ShouldEqual, model.StatusNone)

				Convey("And revoking again stays safe", func() {
					So(f.item.Revoke(bob, carl), ShouldBeNil)
					So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
				})
			})
		})

		Convey("When someone other than bob grants", func() {
			err := f.item.Grant(dave, carl)

			Convey("Then it fails and carl stays at none", func() {
				So(err, ShouldEqual, rating.ErrNotOwner)
				So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
			})
		})

		Convey("When bob grants himself", func() {
			So(f.item.Grant(bob, bob), ShouldEqual, rating.ErrSelfGrant)
		})

		Convey("When bob grants an unregistered address", func() {
			So(f.item.Grant(bob, dave), ShouldEqual, rating.ErrRaterNotRegistered)
		})

		Convey("When someone other than bob revokes", func() {
			So(f.item.Grant(bob, carl), ShouldBeNil)
			err := f.item.Revoke(dave, carl)

			Convey("Then it fails and carl stays granted", func() {
				So(err, ShouldEqual, rating.ErrNotOwner)
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
			})
		})
	})
}

func TestCommitment(t *testing.T) {
	Convey("Given an item owned by bob", t, func() {
		f := newFixture()

		Convey("When bob commits 500 for carl", func() {
			So(f.item.Commit(bob, carl, 500), ShouldBeNil)

			Convey("Then the commitment is queryable by exact amount", func() {
				So(f.item.IsCommitted(carl, 500), ShouldBeTrue)
				So(f.item.IsCommitted(carl, 499), ShouldBeFalse)
				So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
			})

			Convey("And an exact payment grants carl", func() {
				So(f.item.ConsumePayment(carl, 500), ShouldBeTrue)
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
				So(f.item.IsCommitted(carl, 500), ShouldBeFalse)
			})

			Convey("And a mismatched payment changes nothing", func() {
				So(f.item.ConsumePayment(carl, 499), ShouldBeFalse)
				So(f.item.ConsumePayment(carl, 501), ShouldBeFalse)
				So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
				So(f.item.IsCommitted(carl, 500), ShouldBeTrue)
			})

			Convey("And a later commit overwrites the amount", func() {
				So(f.item.Commit(bob, carl, 700), ShouldBeNil)
				So(f.item.IsCommitted(carl, 500), ShouldBeFalse)
				So(f.item.IsCommitted(carl, 700), ShouldBeTrue)
			})
		})

		Convey("When a non-owner commits", func() {
			So(f.item.Commit(dave, carl, 500), ShouldEqual, rating.ErrNotOwner)
		})

		Convey("When a payment arrives without any commitment", func() {
			So(f.item.ConsumePayment(carl, 500), ShouldBeFalse)
			So(f.item.Permission(carl), ShouldEqual, model.StatusNone)
		})

		Convey("When the grant was already spent", func() {
			So(f.item.Grant(bob, carl), ShouldBeNil)
			_, err := f.item.SubmitRating(carl, 5)
			So(err, ShouldBeNil)
			So(f.item.Commit(bob, carl, 500), ShouldBeNil)

			Convey("Then an exact payment clears the commitment but cannot resurrect the grant", func() {
				So(f.item.ConsumePayment(carl, 500), ShouldBeTrue)
				So(f.item.Permission(carl), ShouldEqual, model.StatusUsed)
			})
		})
	})
}

func TestSubmitRating(t *testing.T) {
	Convey("Given an item owned by bob with carl granted", t, func() {
		f := newFixture()
		So(f.item.Grant(bob, carl), ShouldBeNil)

		Convey("When carl submits score 8", func() {
			rec, err := f.item.SubmitRating(carl, 8)

			Convey("Then the ledger gains one record", func() {
				So(err, ShouldBeNil)
				So(f.item.RatingCount(), ShouldEqual, 1)
				So(rec.Score, ShouldEqual, 8)
				So(rec.Rater, ShouldEqual, carl)
				So(rec.OrderKey, ShouldEqual, 1)
			})

			Convey("Then carl's grant is spent", func() {
				So(err, ShouldBeNil)
				So(f.item.Permission(carl), ShouldEqual, model.StatusUsed)
			})

			Convey("Then carl's skill level grows by one", func() {
				So(err, ShouldBeNil)
				So(f.ledger.Value(carl, "Vegetarian"), ShouldEqual, 1)
			})

			Convey("Then the reward equals the post-increment level", func() {
				So(err, ShouldBeNil)
				So(f.sink.credits[carl], ShouldEqual, 1)
			})

			Convey("And a second submission fails with a permission error", func() {
				So(err, ShouldBeNil)
				_, err := f.item.SubmitRating(carl, 9)
				So(err, ShouldEqual, rating.ErrNotPermitted)
				So(f.item.RatingCount(), ShouldEqual, 1)
			})
		})

		Convey("When carl submits an out-of-range score", func() {
			for _, score := range []uint64{0, 11, 100} {
				_, err := f.item.SubmitRating(carl, score)
				So(err, ShouldEqual, rating.ErrScoreOutOfRange)
			}

			Convey("Then nothing changed", func() {
				So(f.item.RatingCount(), ShouldEqual, 0)
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
				So(f.ledger.Value(carl, "Vegetarian"), ShouldEqual, 0)
				So(f.sink.credits[carl], ShouldEqual, 0)
			})
		})

		Convey("When an ungranted rater submits", func() {
			_, err := f.item.SubmitRating(dave, 5)
			So(err, ShouldEqual, rating.ErrNotPermitted)
			So(f.item.RatingCount(), ShouldEqual, 0)
		})

		Convey("When the reward sink cannot pay", func() {
			f.sink.fail = errors.New("treasury empty")
			_, err := f.item.SubmitRating(carl, 5)

			Convey("Then the call fails and every table is unchanged", func() {
				So(err, ShouldNotBeNil)
				So(f.item.RatingCount(), ShouldEqual, 0)
				So(f.item.Permission(carl), ShouldEqual, model.StatusGranted)
				So(f.ledger.Value(carl, "Vegetarian"), ShouldEqual, 0)
				So(f.seq.Current(), ShouldEqual, 0)
			})
		})

		Convey("When carl rates several items tagged with the same skill", func() {
			second := rating.NewItem(uuid.New(), bob, "Bobs second", "Vegetarian", rating.Deps{
				Orders:    f.seq,
				Rewards:   f.sink,
				Skills:    f.ledger,
				Directory: &fakeDirectory{registered: map[string]bool{bob: true, carl: true}},
			})
			So(second.Grant(bob, carl), ShouldBeNil)

			_, err := f.item.SubmitRating(carl, 7)
			So(err, ShouldBeNil)
			_, err = second.SubmitRating(carl, 9)
			So(err, ShouldBeNil)

			Convey("Then rewards scale with the growing level", func() {
				So(f.ledger.Value(carl, "Vegetarian"), ShouldEqual, 2)
				So(f.sink.calls, ShouldResemble, []uint64{1, 2})
				So(f.sink.credits[carl], ShouldEqual, 3)
			})

			Convey("Then order keys are globally increasing across items", func() {
				_, keys1, _ := f.item.Ratings()
				_, keys2, _ := second.Ratings()
				So(keys1[0], ShouldEqual, 1)
				So(keys2[0], ShouldEqual, 2)
			})
		})
	})
}

func TestRatingsProjection(t *testing.T) {
	Convey("Given an item rated by several accounts", t, func() {
		f := newFixture()
		raterList := []string{"0xr1", "0xr2", "0xr3"}
		scoreList := []uint64{5, 7, 4}

		dir := &fakeDirectory{registered: map[string]bool{bob: true}}
		item := rating.NewItem(uuid.New(), bob, "Bobs content", "Vegetarian", rating.Deps{
			Orders:    f.seq,
			Rewards:   f.sink,
			Skills:    f.ledger,
			Directory: dir,
		})
		for i, r := range raterList {
			dir.registered[r] = true
			So(item.Grant(bob, r), ShouldBeNil)
			_, err := item.SubmitRating(r, scoreList[i])
			So(err, ShouldBeNil)
		}

		Convey("Then Ratings returns aligned parallel arrays in insertion order", func() {
			scores, keys, raters := item.Ratings()
			So(scores, ShouldResemble, scoreList)
			So(raters, ShouldResemble, raterList)
			So(len(keys), ShouldEqual, item.RatingCount())
			for i := 1; i < len(keys); i++ {
				So(keys[i], ShouldBeGreaterThan, keys[i-1])
			}
		})

		Convey("Then the distinct-rater bound holds", func() {
			So(item.RatingCount(), ShouldBeLessThanOrEqualTo, len(raterList))
		})

		Convey("Then a spent rater cannot be granted again", func() {
			So(item.Grant(bob, "0xr1"), ShouldEqual, rating.ErrAlreadyRated)
		})
	})
}
