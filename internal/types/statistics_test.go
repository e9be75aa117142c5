package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestEmptyInputYieldsZeroSummary() {
	stats := NewSummaryStatistics(nil, nil)

	suite.Equal(SummaryStatistics{}, stats)
}

func (suite *StatisticsTestSuite) TestMixedTrades() {
	stats := NewSummaryStatistics([]float64{4, 2, 1, -5}, []float64{60, 60, 60, 60})

	suite.Equal(4, stats.TotalTrades)
	suite.Equal(3, stats.Wins)
	suite.Equal(1, stats.Losses)
	suite.Equal(0.75, stats.WinRate)
	suite.Equal(2.3333, stats.AvgWinPct)
	suite.Equal(-5.0, stats.AvgLossPct)
	// 0.75*2.3333... + 0.25*(-5) = 0.5
	suite.Equal(0.5, stats.ExpectancyPct)
	// 7 / |-5| = 1.4
	suite.Equal(1.4, stats.ProfitFactor)
	suite.Equal(60.0, stats.AvgDurationMin)
}

func (suite *StatisticsTestSuite) TestZeroPnLCountsAsLoss() {
	stats := NewSummaryStatistics([]float64{0, 1}, nil)

	suite.Equal(1, stats.Wins)
	suite.Equal(1, stats.Losses)
	suite.Equal(0.5, stats.WinRate)
}

func (suite *StatisticsTestSuite) TestProfitFactorInfiniteWithoutLosses() {
	stats := NewSummaryStatistics([]float64{1, 2}, nil)

	suite.True(math.IsInf(stats.ProfitFactor, 1))
}

func (suite *StatisticsTestSuite) TestProfitFactorInfiniteWhenLossesSumToZero() {
	// A zero-P&L trade counts as a loss but contributes no gross loss.
	stats := NewSummaryStatistics([]float64{1, 0}, nil)

	suite.True(math.IsInf(stats.ProfitFactor, 1))
}

func (suite *StatisticsTestSuite) TestProfitFactorZeroWithoutWins() {
	stats := NewSummaryStatistics([]float64{0, 0}, nil)

	suite.Equal(0.0, stats.ProfitFactor)
}

func (suite *StatisticsTestSuite) TestMissingDurationsAveragedOverPresentOnes() {
	stats := NewSummaryStatistics([]float64{1, 2, 3}, []float64{30, 60})

	suite.Equal(45.0, stats.AvgDurationMin)
}
