package strategy

import (
	"testing"

	"github.com/rxtech-lab/argo-perf/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry()
}

func (suite *RegistryTestSuite) TestGetBuiltinStrategy() {
	config, err := suite.registry.Get("momentum_rsi_bb")
	suite.Require().NoError(err)

	suite.Equal("5m", config.Timeframe)
	suite.Equal(14, config.Indicators.RSIPeriod)
	suite.Equal(30.0, config.Entry.RSIThreshold)
	suite.Equal(70.0, config.Exit.RSIThreshold)
	suite.Equal(-0.10, config.Risk.Stoploss)
}

func (suite *RegistryTestSuite) TestGetUnknownStrategyListsAlternatives() {
	_, err := suite.registry.Get("does_not_exist")
	suite.Require().Error(err)

	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
	suite.Contains(err.Error(), "does_not_exist")
	suite.Contains(err.Error(), "momentum_rsi_bb")
}

func (suite *RegistryTestSuite) TestRegisterAndList() {
	suite.registry.Register("alpha_reversal", Config{Version: "0.1"})

	names := suite.registry.List()
	suite.Equal([]string{"alpha_reversal", "momentum_rsi_bb"}, names)

	config, err := suite.registry.Get("alpha_reversal")
	suite.Require().NoError(err)
	suite.Equal("0.1", config.Version)
}
