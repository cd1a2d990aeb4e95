package gop

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCloningKeepsTheObjectAlive(t *testing.T) {
	Convey("When cloning a handle twice", t, func() {
		pool := NewObjectPool[testObject](NewConfig(), nil)
		destructions := 0
		pool.Destructor = func(obj *testObject) { destructions++ }

		original, err := pool.Acquire(func(obj *testObject) error {
			obj.label = "shared"
			return nil
		})
		So(err, ShouldBeNil)

		clone1 := original.Clone()
		clone2 := original.Clone()

		Convey("then releasing all but one owner should keep the object constructed", func() {
			So(original.Release(), ShouldBeNil)
			So(clone1.Release(), ShouldBeNil)

			So(destructions, ShouldEqual, 0)
			So(pool.Stats().Live, ShouldEqual, 1)
			So(clone2.Value().label, ShouldEqual, "shared")

			Convey("and releasing the last owner should destruct it exactly once", func() {
				freeBefore := pool.Stats().Free
				So(clone2.Release(), ShouldBeNil)

				So(destructions, ShouldEqual, 1)
				So(pool.Stats().Live, ShouldEqual, 0)
				So(pool.Stats().Free, ShouldEqual, freeBefore+1)
			})
		})
	})
}

func TestReleasingTheSameHandleTwice(t *testing.T) {
	Convey("When a handle has already been released", t, func() {
		pool := NewObjectPool[testObject](NewConfig(), nil)
		destructions := 0
		pool.Destructor = func(obj *testObject) { destructions++ }

		handle, err := pool.Acquire(nil)
		So(err, ShouldBeNil)
		So(handle.Release(), ShouldBeNil)

		Convey("then a second release should be refused", func() {
			So(errors.Is(handle.Release(), ErrHandleReleased), ShouldBeTrue)

			Convey("and the slot must not have been recycled twice", func() {
				So(destructions, ShouldEqual, 1)
				So(pool.Stats().Free, ShouldEqual, pool.Stats().Capacity)
			})
		})
	})
}

func TestReleasingACloneDoesNotAffectOtherReleasedClones(t *testing.T) {
	Convey("When one clone releases and then tries to release again", t, func() {
		pool := NewObjectPool[testObject](NewConfig(), nil)

		handle, err := pool.Acquire(nil)
		So(err, ShouldBeNil)
		clone := handle.Clone()

		So(handle.Release(), ShouldBeNil)
		So(errors.Is(handle.Release(), ErrHandleReleased), ShouldBeTrue)

		Convey("then the remaining clone still owns the object", func() {
			So(pool.Stats().Live, ShouldEqual, 1)
			So(clone.Release(), ShouldBeNil)
			So(pool.Stats().Live, ShouldEqual, 0)
		})
	})
}

func TestUsingAReleasedHandlePanics(t *testing.T) {
	Convey("When a handle has been released", t, func() {
		pool := NewObjectPool[testObject](NewConfig(), nil)

		handle, err := pool.Acquire(nil)
		So(err, ShouldBeNil)
		So(handle.Release(), ShouldBeNil)

		Convey("then accessing the value should panic", func() {
			So(func() { handle.Value() }, ShouldPanic)
		})

		Convey("and cloning it should panic as well", func() {
			So(func() { handle.Clone() }, ShouldPanic)
		})
	})
}

func TestDestructorSeesTheObjectState(t *testing.T) {
	Convey("When an object is released", t, func() {
		pool := NewObjectPool[testObject](NewConfig(), nil)
		var destructed []string
		pool.Destructor = func(obj *testObject) { destructed = append(destructed, obj.label) }

		handle, err := pool.Acquire(func(obj *testObject) error {
			obj.label = "first"
			return nil
		})
		So(err, ShouldBeNil)
		So(handle.Release(), ShouldBeNil)

		Convey("then the destructor should have run on the constructed object", func() {
			So(destructed, ShouldResemble, []string{"first"})

			Convey("and the recycled slot should be zeroed before the next construction", func() {
				handle, err := pool.Acquire(func(obj *testObject) error {
					So(obj.label, ShouldEqual, "")
					So(obj.id, ShouldEqual, 0)
					return nil
				})
				So(err, ShouldBeNil)
				So(handle, ShouldNotBeNil)
			})
		})
	})
}
