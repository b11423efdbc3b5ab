package test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/datambit/assethealth"
	"github.com/datambit/assethealth/healthmetric"
	"github.com/datambit/assethealth/healthtest"
	"github.com/datambit/assethealth/materialization"
	"github.com/datambit/assethealth/partition"
)

func TestMergedHealthFlow(t *testing.T) {
	Convey("Given a store with two assets over the same daily dimension", t, func() {
		store := materialization.NewStore()
		days := healthtest.Days("date", 4)
		So(store.DefineAsset("raw_events", days), ShouldBeNil)
		So(store.DefineAsset("daily_rollup", days), ShouldBeNil)

		So(store.PutAll([]materialization.Record{
			{Asset: "raw_events", Keys: []string{days.Keys[0]}, Status: materialization.StatusSuccess},
			{Asset: "raw_events", Keys: []string{days.Keys[1]}, Status: materialization.StatusSuccess},
			{Asset: "raw_events", Keys: []string{days.Keys[2]}, Status: materialization.StatusSuccess},
			{Asset: "daily_rollup", Keys: []string{days.Keys[0]}, Status: materialization.StatusSuccess},
			{Asset: "daily_rollup", Keys: []string{days.Keys[2]}, Status: materialization.StatusFailure},
		}), ShouldBeNil)

		Convey("When merging their health data", func() {
			health, err := assethealth.Inspect(store, []string{"raw_events", "daily_rollup"})
			So(err, ShouldBeNil)

			Convey("Range queries should combine the assets' states", func() {
				ranges := health.RangesForSingleDimension(0, nil)
				So(ranges, ShouldHaveLength, 3)
				So(ranges[0].Value, ShouldEqual, partition.StateSuccess)
				So(ranges[1].Value, ShouldEqual, partition.StateSuccessMissing)
				So(ranges[2].Value, ShouldEqual, partition.StateFailure)
			})

			Convey("Exploded reports should skip missing partitions", func() {
				entries, err := assethealth.Report(health, assethealth.SelectAll(health))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].PartitionKey, ShouldEqual, days.Keys[0])
			})

			Convey("Observed metrics should tally every state", func() {
				healthmetric.Observe("merged", health)
				counts := healthmetric.CountStates(health)
				So(counts["SUCCESS"], ShouldEqual, 1)
				So(counts["SUCCESS_MISSING"], ShouldEqual, 1)
				So(counts["FAILURE"], ShouldEqual, 1)
				So(counts["MISSING"], ShouldEqual, 1)
			})
		})
	})
}

func TestPointAndRangeQueriesAgree(t *testing.T) {
	Convey("Given randomly materialized assets", t, func() {
		rng := rand.New(rand.NewSource(1))
		store := materialization.NewStore()
		days := healthtest.Days("date", 25)
		assets := []string{"bronze", "silver", "gold"}
		for _, asset := range assets {
			So(store.DefineAsset(asset, days), ShouldBeNil)
			So(healthtest.SeedRandomRecords(rng, store, asset, days.Keys), ShouldBeNil)
		}

		Convey("Point queries on merged health should agree with merged ranges", func() {
			health, err := assethealth.Inspect(store, assets)
			So(err, ShouldBeNil)

			ranges := health.RangesForSingleDimension(0, nil)
			for idx, key := range days.Keys {
				expected := partition.StateMissing
				for _, r := range ranges {
					if r.Contains(idx) {
						expected = r.Value
						break
					}
				}
				So(health.StateForKey([]string{key}), ShouldEqual, expected)
			}
		})
	})
}

func TestTwoDimensionalFlow(t *testing.T) {
	Convey("Given a two-dimensional asset pair", t, func() {
		store := materialization.NewStore()
		days := healthtest.Days("date", 2)
		regions := partition.Dimension{Name: "region", Keys: []string{"us", "eu"}}
		So(store.DefineAsset("events", days, regions), ShouldBeNil)
		So(store.DefineAsset("sessions", days, regions), ShouldBeNil)

		So(store.PutAll([]materialization.Record{
			{Asset: "events", Keys: []string{days.Keys[0], "us"}, Status: materialization.StatusSuccess},
			{Asset: "events", Keys: []string{days.Keys[0], "eu"}, Status: materialization.StatusSuccess},
			{Asset: "sessions", Keys: []string{days.Keys[0], "us"}, Status: materialization.StatusSuccess},
		}), ShouldBeNil)

		Convey("When exploding a full selection of merged health", func() {
			health, err := assethealth.Inspect(store, []string{"events", "sessions"})
			So(err, ShouldBeNil)

			entries, err := assethealth.Report(health, assethealth.SelectAll(health), assethealth.WithMissingEntries())
			So(err, ShouldBeNil)

			Convey("It should yield the cross-product in order", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].PartitionKey, ShouldEqual, days.Keys[0]+"|us")
				So(entries[0].State, ShouldEqual, partition.StateSuccess)
				So(entries[1].PartitionKey, ShouldEqual, days.Keys[0]+"|eu")
				So(entries[1].State, ShouldEqual, partition.StateSuccessMissing)
				So(entries[2].State, ShouldEqual, partition.StateMissing)
				So(entries[3].State, ShouldEqual, partition.StateMissing)
			})
		})
	})
}
