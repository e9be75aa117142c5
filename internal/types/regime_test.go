package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegimeTestSuite struct {
	suite.Suite
}

func TestRegimeSuite(t *testing.T) {
	suite.Run(t, new(RegimeTestSuite))
}

func (suite *RegimeTestSuite) TestCombineLabel() {
	suite.Equal("high_strong_trend", CombineLabel(VolatilityHigh, TrendStrong))
	suite.Equal("unknown_unknown", CombineLabel(VolatilityUnknown, TrendUnknown))
}

func (suite *RegimeTestSuite) TestNewRegime() {
	regime := NewRegime(VolatilityLow, TrendRanging)

	suite.Equal("low", regime.Volatility)
	suite.Equal("ranging", regime.Trend)
	suite.Equal("low_ranging", regime.Combined)
}
