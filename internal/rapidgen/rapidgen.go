// Package rapidgen holds rapid generators of layout-test data shared by
// property tests across packages.
package rapidgen

import (
	"pgregory.net/rapid"

	"github.com/dkoosis/lta/pkg/layouttest"
)

var keywords = []string{
	layouttest.KeywordSkip,
	layouttest.KeywordTimeout,
	layouttest.KeywordCrash,
	layouttest.KeywordPass,
	layouttest.KeywordGPU,
	"MAC",
}

// Expectation generates expectation entries with up to three keywords,
// two bug ids and an optional comment.
func Expectation() *rapid.Generator[layouttest.Expectation] {
	return rapid.Custom(func(t *rapid.T) layouttest.Expectation {
		kws := rapid.SliceOfN(rapid.SampledFrom(keywords), 0, 3).Draw(t, "keywords")
		bugs := rapid.SliceOfN(rapid.StringMatching(`BUG(CR|WK)[0-9]{1,5}`), 0, 2).Draw(t, "bugs")
		comments := rapid.SampledFrom([]string{"", "flaky on mac", "needs gpu"}).Draw(t, "comments")
		return layouttest.NewExpectation(kws, bugs, comments)
	})
}

// RawMap generates test information maps of up to twelve tests, each with
// up to three expectation entries.
func RawMap() *rapid.Generator[layouttest.RawMap] {
	return rapid.Custom(func(t *rapid.T) layouttest.RawMap {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}/[a-z]{1,6}\.html`), 0, 12, rapid.ID[string]).Draw(t, "names")
		raw := make(layouttest.RawMap, len(names))
		for _, n := range names {
			raw[n] = layouttest.Record{
				Description:  n,
				Expectations: rapid.SliceOfN(Expectation(), 0, 3).Draw(t, "expectations"),
			}
		}
		return raw
	})
}
