package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
//
// Install it with COMP_INSTALL=1 cf, tickers are read from the data file of
// the default configuration.
func Completion() *complete.Command {
	none := complete.PredictFunc(func(string) []string { return nil })
	tickers := complete.PredictFunc(predictTickers)
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"data":   predict.Files("*"),
			"v":      none,
			"plain":  none,
		},
		Sub: map[string]*complete.Command{
			"list":    {},
			"add":     {Args: tickers},
			"del":     {Args: tickers},
			"modify":  {Args: tickers, Flags: map[string]complete.Predictor{"strict": none}},
			"fmt":     {Flags: map[string]complete.Predictor{"o": predict.Files("*")}},
			"version": {},
			"help":    {},
			"flags":   {},
		},
	}
}

// predictTickers returns the tickers of the Folio starting with prefix.
// It never creates any file.
func predictTickers(prefix string) []string {
	path := os.Getenv(EnvDataFile)
	if path == "" {
		cfgPath := DefaultConfigPath()
		if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		cfg, err := ReadConfig(cfgPath)
		if err != nil {
			return nil
		}
		path = cfg.Main.DataFile
	}
	return tickersFrom(expandHome(path), prefix)
}

func tickersFrom(path, prefix string) []string {
	ledger, err := cryptofolio.LoadLedger(path)
	if err != nil {
		return nil
	}
	var res []string
	for _, t := range ledger.Tickers() {
		if strings.HasPrefix(t, prefix) {
			res = append(res, t)
		}
	}
	return res
}
