package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
	"github.com/tetherto/wdk-wallet-solana-sub000/wallet"
)

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func (a *app) seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate or check BIP-39 seed phrases",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Print a new 12-word seed phrase",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				phrase, err := wallet.GenerateSeedPhrase()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), phrase)
				return nil
			},
		},
		&cobra.Command{
			Use:   "check <word>...",
			Short: "Check the checksum of a seed phrase",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !wallet.IsValidSeedPhrase(strings.Join(args, " ")) {
					return wallet.ErrInvalidSeed
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			},
		},
	)
	return cmd
}

func (a *app) addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the derivation path and address of the selected account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAccount(cmd, func(account *wallet.Account) error {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", account.Path(), account.Address())
				return nil
			})
		},
	}
}

func (a *app) balanceCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance in lamports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.withReadOnly(cmd, address, func(account *wallet.ReadOnlyAccount) error {
				balance, err := account.Balance(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), balance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "query this address instead of a wallet account")
	return cmd
}

func (a *app) tokenBalanceCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "token-balance <mint>",
		Short: "Print the balance of a token in base units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.withReadOnly(cmd, address, func(account *wallet.ReadOnlyAccount) error {
				balance, err := account.TokenBalance(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), balance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "query this address instead of a wallet account")
	return cmd
}

func (a *app) printResult(cmd *cobra.Command, account *wallet.Account, res *wallet.TransactionResult, wait bool) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s fee=%d\n", res.Hash, res.Fee)
	if !wait {
		return nil
	}
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := account.WaitForConfirmation(ctx, res.Hash); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "confirmed")
	return nil
}

func (a *app) sendCmd() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "send <to> <lamports>",
		Short: "Send SOL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.withAccount(cmd, func(account *wallet.Account) error {
				res, err := account.SendTransaction(ctx, wallet.NativeTransfer{To: args[0], Value: value})
				if err != nil {
					return err
				}
				return a.printResult(cmd, account, res, wait)
			})
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the configured commitment")
	return cmd
}

func (a *app) transferCmd() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "transfer <mint> <recipient> <amount>",
		Short: "Transfer a token, creating the recipient's token account when needed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.withAccount(cmd, func(account *wallet.Account) error {
				res, err := account.Transfer(ctx, wallet.TransferOptions{Token: args[0], Recipient: args[1], Amount: amount})
				if err != nil {
					return err
				}
				return a.printResult(cmd, account, res, wait)
			})
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the configured commitment")
	return cmd
}

func (a *app) quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the fee in lamports a send or transfer would pay",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:  "send <to> <lamports>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				ctx, cancel := a.context(cmd)
				defer cancel()
				return a.withReadOnly(cmd, "", func(account *wallet.ReadOnlyAccount) error {
					fee, err := account.QuoteSendTransaction(ctx, wallet.NativeTransfer{To: args[0], Value: value})
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), fee)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:  "transfer <mint> <recipient> <amount>",
			Args: cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[2])
				if err != nil {
					return err
				}
				ctx, cancel := a.context(cmd)
				defer cancel()
				return a.withReadOnly(cmd, "", func(account *wallet.ReadOnlyAccount) error {
					fee, err := account.QuoteTransfer(ctx, wallet.TransferOptions{Token: args[0], Recipient: args[1], Amount: amount})
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), fee)
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) feeRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fee-rates",
		Short: "Print suggested normal and fast priority fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.walletConfig()
			var client rpc.Client
			if cfg.RPCURL != "" {
				commitment, err := rpc.ParseCommitment(string(cfg.Commitment))
				if err != nil {
					return err
				}
				client = rpc.NewClient(cfg.RPCURL, commitment)
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			rates, err := wallet.GetFeeRates(ctx, client)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "normal=%d fast=%d\n", rates.Normal, rates.Fast)
			return nil
		},
	}
}

func (a *app) signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message and print the hex signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccount(cmd, func(account *wallet.Account) error {
				sig, err := account.Sign([]byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sig)
				return nil
			})
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <message> <signature>",
		Short: "Verify a hex signature made by the selected account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccount(cmd, func(account *wallet.Account) error {
				ok, err := account.Verify([]byte(args[0]), args[1])
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("signature does not match")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			})
		},
	}
}

func (a *app) receiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <signature>",
		Short: "Print the on-chain record of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			return a.withReadOnly(cmd, "", func(account *wallet.ReadOnlyAccount) error {
				receipt, err := account.TransactionReceipt(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if receipt == nil {
					fmt.Fprintln(out, "not found")
					return nil
				}
				fmt.Fprintf(out, "slot=%d fee=%d", receipt.Slot, receipt.Fee)
				if receipt.BlockTime != nil {
					fmt.Fprintf(out, " time=%s", receipt.BlockTime.UTC().Format("2006-01-02T15:04:05Z"))
				}
				if receipt.Err != "" {
					fmt.Fprintf(out, " err=%s", receipt.Err)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}
