package regime

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-perf/internal/types"
	"github.com/stretchr/testify/suite"
)

type ClassifierTestSuite struct {
	suite.Suite
}

func TestClassifierSuite(t *testing.T) {
	suite.Run(t, new(ClassifierTestSuite))
}

// history returns 100 evenly spaced observations from 10 to 109.
func history() []float64 {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(10 + i)
	}

	return values
}

func (suite *ClassifierTestSuite) TestClassifyVolatilityLow() {
	suite.Equal(types.VolatilityLow, ClassifyVolatility(15, history()))
}

func (suite *ClassifierTestSuite) TestClassifyVolatilityHigh() {
	suite.Equal(types.VolatilityHigh, ClassifyVolatility(95, history()))
}

func (suite *ClassifierTestSuite) TestClassifyVolatilityMedium() {
	suite.Equal(types.VolatilityMedium, ClassifyVolatility(55, history()))
}

func (suite *ClassifierTestSuite) TestClassifyVolatilityEmptyHistory() {
	suite.Equal(types.VolatilityUnknown, ClassifyVolatility(50, nil))
}

func (suite *ClassifierTestSuite) TestClassifyVolatilitySinglePointHistory() {
	suite.Equal(types.VolatilityUnknown, ClassifyVolatility(50, []float64{50}))
}

func (suite *ClassifierTestSuite) TestClassifyVolatilityCustomBounds() {
	// With 10/90 bounds the same current value moves from low to medium.
	suite.Equal(types.VolatilityMedium, ClassifyVolatilityBetween(25, history(), 10, 90))
}

func (suite *ClassifierTestSuite) TestClassifyTrendBuckets() {
	testCases := []struct {
		adx      float64
		expected types.TrendRegime
	}{
		{15, types.TrendRanging},
		{19.99, types.TrendRanging},
		{20, types.TrendWeak},
		{25, types.TrendWeak},
		{29.99, types.TrendWeak},
		{30, types.TrendStrong},
		{35, types.TrendStrong},
	}

	for _, tc := range testCases {
		suite.Equal(tc.expected, ClassifyTrend(optional.Some(tc.adx)), "adx=%v", tc.adx)
	}
}

func (suite *ClassifierTestSuite) TestClassifyTrendAbsent() {
	suite.Equal(types.TrendUnknown, ClassifyTrend(optional.None[float64]()))
}

func (suite *ClassifierTestSuite) TestClassifyTrendNaN() {
	suite.Equal(types.TrendUnknown, ClassifyTrend(optional.Some(math.NaN())))
}

func (suite *ClassifierTestSuite) TestClassifyRegimeCombined() {
	regime := ClassifyRegime(95, history(), optional.Some(35.0))

	suite.Equal("high", regime.Volatility)
	suite.Equal("strong_trend", regime.Trend)
	suite.Equal("high_strong_trend", regime.Combined)
}

func (suite *ClassifierTestSuite) TestClassifyRegimeLowRanging() {
	regime := ClassifyRegime(15, history(), optional.Some(10.0))

	suite.Equal("low_ranging", regime.Combined)
}

func (suite *ClassifierTestSuite) TestClassifyRegimeUnknownComponents() {
	regime := ClassifyRegime(15, nil, optional.None[float64]())

	suite.Equal("unknown_unknown", regime.Combined)
}
