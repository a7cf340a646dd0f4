// Command mel2stfd is a thin demonstration driver around the state
// transition core: it is not part of the core's scope, but exercises
// genesis construction, NextBlock and Seal the way the original source
// crate's lib.rs test harness does, reproducing a multi-block replay end to
// end. It does not call ApplyAndValidate.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"mel2stf.dev/mel2stf/internal/block"
	"mel2stf.dev/mel2stf/internal/meltypes"
	"mel2stf.dev/mel2stf/internal/smt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	pflag.String("network", "testnet", "network to run: testnet or betanet")
	pflag.Int("blocks", 1000, "number of empty blocks to seal")
	pflag.Uint64("gas-price", 1_000_000, "fixed gas price used for every sealed block")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)
	viper.SetEnvPrefix("MEL2STF")
	viper.AutomaticEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("mel2stfd: building logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	network := viper.GetString("network")
	numBlocks := viper.GetInt("blocks")
	gasPrice := meltypes.QuantityFromMicro(viper.GetUint64("gas-price"))

	var genesis *block.Block
	switch network {
	case "testnet":
		genesis = block.TestnetGenesis()
	case "betanet":
		genesis = block.BetanetGenesis()
	default:
		return fmt.Errorf("mel2stfd: unknown network %q", network)
	}

	sugar.Infow("starting replay", "network", network, "blocks", numBlocks, "gas_price", gasPrice.String())

	store := smt.NewInMemoryStore()
	current := genesis
	sealInfo := meltypes.SealingInfo{
		Proposer:    meltypes.ZeroAddress,
		NewGasPrice: gasPrice,
	}

	for i := 0; i < numBlocks; i++ {
		ib, err := current.NextBlock(store)
		if err != nil {
			return fmt.Errorf("mel2stfd: opening next block at height %d: %w", current.Header.Height, err)
		}
		sealed, err := ib.Seal(sealInfo)
		if err != nil {
			return fmt.Errorf("mel2stfd: sealing block at height %d: %w", current.Header.Height+1, err)
		}
		current = sealed
	}

	finalIB, err := current.NextBlock(store)
	if err != nil {
		return fmt.Errorf("mel2stfd: reopening final state: %w", err)
	}
	zeroBalance, _ := finalIB.Handle().GetBalance(meltypes.ZeroAddress, meltypes.MEL)

	sugar.Infow("replay complete",
		"final_height", current.Header.Height,
		"final_state_root", current.Header.State.String(),
		"proposer_mel_balance", zeroBalance.String(),
	)
	return nil
}
