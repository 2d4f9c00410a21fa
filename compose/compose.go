package compose

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
	"github.com/inscription-c/ccoin/blockchain"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/config"
	"github.com/inscription-c/ccoin/constants"
	"github.com/inscription-c/ccoin/internal/engine"
	"github.com/inscription-c/ccoin/internal/signal"
	"github.com/inscription-c/ccoin/log"
	"github.com/inscription-c/ccoin/txspec"
	"github.com/spf13/cobra"
)

type composeOptions struct {
	to      string
	value   int64
	scheme  string
	color   string
	minConf int64
}

// NewIssueCmd returns the issue command composing the genesis transaction
// of a new color.
func NewIssueCmd(cfg *config.Config) *cobra.Command {
	opts := &composeOptions{}
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "compose the genesis transaction of a new color",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer e.Close()
			targets := []*coloring.ColorTarget{
				coloring.NewColorTarget(opts.to, coloring.NewColorValue(coloring.GenesisOutputMarker, opts.value)),
			}
			op := newTxSpec(signal.Context(), e, targets, opts, nil)
			spec, err := txspec.ComposeIssue(e.ColorMap().Registry(), opts.scheme, op)
			if err != nil {
				return err
			}
			return printTx(cmd.OutOrStdout(), cfg, spec)
		},
	}
	cmd.Flags().StringVarP(&opts.to, "to", "", "", "address receiving the issued value")
	cmd.Flags().Int64VarP(&opts.value, "value", "", 0, "issued value in satoshi")
	cmd.Flags().StringVarP(&opts.scheme, "scheme", "", constants.SchemeEPOBC, "coloring scheme: obc or epobc")
	cmd.Flags().Int64VarP(&opts.minConf, "min_conf", "", 1, "confirmations a wallet output needs to be spent")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// NewSendCmd returns the send command composing a transfer of colored
// value.
func NewSendCmd(cfg *config.Config) *cobra.Command {
	opts := &composeOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "compose a transfer of colored value",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer e.Close()
			def, err := e.ColorMap().GetColorDefByDesc(opts.color, true)
			if err != nil {
				return err
			}
			// coins of any configured color must not be spent as uncolored
			descs := append(append([]string{}, cfg.Colors...), opts.color)
			set, err := coloring.NewColorSet(e.ColorMap(), descs)
			if err != nil {
				return err
			}
			targets := []*coloring.ColorTarget{
				coloring.NewColorTarget(opts.to, coloring.NewColorValue(def, opts.value)),
			}
			op := newTxSpec(signal.Context(), e, targets, opts, set)
			spec, err := txspec.ComposeTransfer(e.ColorMap(), op)
			if err != nil {
				if txspec.IsFundsError(err) {
					log.Log.Warnf("wallet cannot pay %d of %s: %v", opts.value, opts.color, err)
				}
				return err
			}
			return printTx(cmd.OutOrStdout(), cfg, spec)
		},
	}
	cmd.Flags().StringVarP(&opts.to, "to", "", "", "receiving address")
	cmd.Flags().Int64VarP(&opts.value, "value", "", 0, "value in color units")
	cmd.Flags().StringVarP(&opts.color, "color", "", "", "color descriptor of the sent value")
	cmd.Flags().Int64VarP(&opts.minConf, "min_conf", "", 1, "confirmations a wallet output needs to be spent")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newTxSpec(ctx context.Context, e *engine.Engine, targets []*coloring.ColorTarget,
	opts *composeOptions, set *coloring.ColorSet) *txspec.BasicTxSpec {

	utxos := blockchain.NewRPCUtxoSource(e.Client, opts.minConf)
	specOpts := []txspec.Option{
		txspec.WithFeePerKb(e.Config.FeePerKb),
		txspec.WithDustThreshold(e.Config.DustThreshold),
	}
	if set != nil {
		specOpts = append(specOpts, txspec.WithColorSet(set))
	}
	return txspec.NewBasicTxSpec(ctx, targets, utxos, e.Reader(), utxos, e.ColorMap(), specOpts...)
}

// printTx writes the unsigned transaction of spec as hex.
func printTx(w io.Writer, cfg *config.Config, spec *coloring.ComposedTxSpec) error {
	tx, err := spec.MsgTx(cfg.Params())
	if err != nil {
		return err
	}
	raw, err := encodeTx(tx)
	if err != nil {
		return err
	}
	log.Log.Infof("composed %s: %d inputs, %d outputs, fee %d", tx.TxHash(), len(tx.TxIn), len(tx.TxOut), spec.Fee())
	_, err = fmt.Fprintln(w, raw)
	return err
}

func encodeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
