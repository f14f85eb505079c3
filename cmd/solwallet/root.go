package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
	"github.com/tetherto/wdk-wallet-solana-sub000/wallet"
	"golang.org/x/term"
)

const (
	envPrefix      = "SOLWALLET"
	mnemonicEnv    = envPrefix + "_MNEMONIC"
	configFileName = ".solwallet"
)

type app struct {
	v       *viper.Viper
	cfgFile string
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solwallet",
		Short: "Solana HD wallet",
		Long: `Solana HD wallet.

The seed phrase is read from ` + mnemonicEnv + ` or prompted for on the terminal.
It is never written to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.initConfig()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/"+configFileName+".yaml)")
	f.String("rpc-url", "", "JSON-RPC endpoint of a Solana node")
	f.String("ws-url", "", "pubsub endpoint, derived from --rpc-url when empty")
	f.String("commitment", string(rpc.CommitmentConfirmed), "processed, confirmed or finalized")
	f.Uint64("transfer-max-fee", 0, "reject token transfers whose fee in lamports reaches this value (0 disables)")
	f.Int("account", 0, "account index")
	f.String("path", "", "derivation path below m/44'/501', overrides --account")
	f.String("password", "", "optional BIP-39 passphrase")
	f.Duration("timeout", 30*time.Second, "timeout for network operations")
	f.Bool("debug", false, "enable debug logging")
	_ = a.v.BindPFlags(f)

	cmd.AddCommand(
		a.seedCmd(),
		a.addressCmd(),
		a.balanceCmd(),
		a.tokenBalanceCmd(),
		a.sendCmd(),
		a.transferCmd(),
		a.quoteCmd(),
		a.feeRatesCmd(),
		a.signCmd(),
		a.verifyCmd(),
		a.receiptCmd(),
	)
	return cmd
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to locate home directory")
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(configFileName)
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config")
		}
	}

	level := zerolog.InfoLevel
	if a.v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Debug().Str("config", a.v.ConfigFileUsed()).Msg("Configuration loaded")
	return nil
}

func (a *app) walletConfig() wallet.Config {
	cfg := wallet.Config{
		RPCURL:     a.v.GetString("rpc-url"),
		WSURL:      a.v.GetString("ws-url"),
		Commitment: rpc.Commitment(a.v.GetString("commitment")),
	}
	if maxFee := a.v.GetUint64("transfer-max-fee"); maxFee > 0 {
		cfg.TransferMaxFee = &maxFee
	}
	return cfg
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.v.GetDuration("timeout"))
}

// mnemonic is taken from the environment only, never from the config file.
func mnemonic(cmd *cobra.Command) (string, error) {
	if phrase, ok := os.LookupEnv(mnemonicEnv); ok && phrase != "" {
		return phrase, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.Errorf("%s is not set and stdin is not a terminal", mnemonicEnv)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Seed phrase: ")
	phrase, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", errors.Wrap(err, "failed to read seed phrase from terminal")
	}
	return string(phrase), nil
}

func (a *app) openWallet(cmd *cobra.Command) (*wallet.Wallet, error) {
	phrase, err := mnemonic(cmd)
	if err != nil {
		return nil, err
	}
	return wallet.NewBip39Wallet(phrase, a.v.GetString("password"), a.walletConfig())
}

// withAccount opens the wallet, selects the account chosen by --path or
// --account and disposes the wallet when fn returns.
func (a *app) withAccount(cmd *cobra.Command, fn func(*wallet.Account) error) error {
	w, err := a.openWallet(cmd)
	if err != nil {
		return err
	}
	defer w.Dispose()

	var account *wallet.Account
	if path := a.v.GetString("path"); path != "" {
		account, err = w.GetAccountByPath(path)
	} else {
		account, err = w.GetAccount(a.v.GetInt("account"))
	}
	if err != nil {
		return err
	}
	return fn(account)
}

// withReadOnly runs fn against address when it is set and against the
// selected wallet account otherwise.
func (a *app) withReadOnly(cmd *cobra.Command, address string, fn func(*wallet.ReadOnlyAccount) error) error {
	if address != "" {
		ro, err := wallet.NewReadOnlyAccount(address, a.walletConfig())
		if err != nil {
			return err
		}
		return fn(ro)
	}
	return a.withAccount(cmd, func(account *wallet.Account) error {
		return fn(account.ToReadOnlyAccount())
	})
}
