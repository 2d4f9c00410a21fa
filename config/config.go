package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/go-playground/validator/v10"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkRegtest = "regtest"

	mainNetRPCConnect = "localhost:8332"
	testNetRPCConnect = "localhost:18332"
	regTestRPCConnect = "localhost:18443"
)

// Config holds the settings shared by every command.
type Config struct {
	configFile string

	Network string `yaml:"network" validate:"oneof=mainnet testnet regtest"`
	Chain   struct {
		RpcConnect string `yaml:"rpc_connect" validate:"required,hostname_port"`
		Username   string `yaml:"username"`
		Password   string `yaml:"password"`
	} `yaml:"chain"`
	Mysql struct {
		Addr     string `yaml:"addr" validate:"required_without=DryRun"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db" validate:"required_without=DryRun"`
		DryRun   bool   `yaml:"dry_run"`
	} `yaml:"mysql"`
	Explorer      string   `yaml:"explorer" validate:"omitempty,url"`
	Strategy      string   `yaml:"strategy" validate:"oneof=full aided"`
	Thin          bool     `yaml:"thin"`
	FlushBlocks   int      `yaml:"flush_blocks" validate:"gte=1"`
	FeePerKb      int64    `yaml:"fee_per_kb" validate:"gte=0"`
	DustThreshold int64    `yaml:"dust_threshold" validate:"gte=0"`
	Colors        []string `yaml:"colors"`
	LogDir        string   `yaml:"log_dir"`
	LogLevel      string   `yaml:"log_level" validate:"oneof=trace debug info warn error critical off"`
}

// Default returns the configuration used when neither a file nor flags
// say otherwise.
func Default() *Config {
	cfg := &Config{
		Network:       NetworkMainnet,
		Strategy:      colordata.StrategyFull,
		FlushBlocks:   constants.DefaultFlushBlocks,
		FeePerKb:      constants.DefaultFeePerKb,
		DustThreshold: constants.DefaultDustThreshold,
		LogLevel:      "info",
	}
	cfg.Mysql.Addr = constants.DefaultDBAddr
	cfg.Mysql.User = constants.DefaultDBUser
	cfg.Mysql.DB = constants.DefaultDBName
	return cfg
}

// BindFlags registers the shared flags of cmd on cfg.
func (c *Config) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "yaml config file path")
	flags.StringVarP(&c.Network, "network", "n", c.Network, "bitcoin network: mainnet, testnet or regtest")
	flags.StringVarP(&c.Chain.RpcConnect, "rpc_connect", "s", "", "host:port of the bitcoin RPC server (default localhost:8332, testnet localhost:18332, regtest localhost:18443)")
	flags.StringVarP(&c.Chain.Username, "user", "u", "", "bitcoin rpc server username")
	flags.StringVarP(&c.Chain.Password, "password", "P", "", "bitcoin rpc server password")
	flags.StringVarP(&c.Mysql.Addr, "mysql_addr", "d", c.Mysql.Addr, "color data mysql database addr")
	flags.StringVarP(&c.Mysql.User, "mysql_user", "", c.Mysql.User, "color data mysql database user")
	flags.StringVarP(&c.Mysql.Password, "mysql_pass", "", "", "color data mysql database password")
	flags.StringVarP(&c.Mysql.DB, "db", "", c.Mysql.DB, "color data mysql database name")
	flags.BoolVarP(&c.Mysql.DryRun, "dry_run", "", false, "keep color data in memory only")
	flags.StringVarP(&c.Explorer, "explorer", "e", "", "block explorer url serving spends, needed by the aided strategy")
	flags.StringVarP(&c.Strategy, "strategy", "", c.Strategy, "color data builder strategy: full or aided")
	flags.BoolVarP(&c.Thin, "thin", "", false, "resolve color values through affecting inputs only")
	flags.IntVarP(&c.FlushBlocks, "flush_blocks", "", c.FlushBlocks, "blocks scanned between store flushes")
	flags.Int64VarP(&c.FeePerKb, "fee_per_kb", "", c.FeePerKb, "fee rate in satoshi per 1000 bytes")
	flags.Int64VarP(&c.DustThreshold, "dust", "", c.DustThreshold, "dust threshold in satoshi")
	flags.StringVarP(&c.LogDir, "log_dir", "", "", "log directory")
	flags.StringVarP(&c.LogLevel, "log_level", "", c.LogLevel, "log level: trace, debug, info, warn, error, critical or off")
}

// Load reads the config file, when one is set, beneath the flags set on
// the command line, fills the network defaults and validates the result.
func (c *Config) Load(flags *pflag.FlagSet) error {
	if c.configFile != "" {
		changed := make(map[string]string)
		if flags != nil {
			flags.Visit(func(f *pflag.Flag) {
				changed[f.Name] = f.Value.String()
			})
		}
		configFile, err := os.Open(c.configFile)
		if err != nil {
			return err
		}
		defer configFile.Close()
		if err := yaml.NewDecoder(configFile).Decode(c); err != nil {
			return fmt.Errorf("config file %s: %w", c.configFile, err)
		}
		for name, value := range changed {
			if err := flags.Set(name, value); err != nil {
				return err
			}
		}
	}
	return c.Check()
}

// Check fills the network defaults and validates c.
func (c *Config) Check() error {
	if c.Chain.RpcConnect == "" {
		switch c.Network {
		case NetworkTestnet:
			c.Chain.RpcConnect = testNetRPCConnect
		case NetworkRegtest:
			c.Chain.RpcConnect = regTestRPCConnect
		default:
			c.Chain.RpcConnect = mainNetRPCConnect
		}
	}
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Strategy == colordata.StrategyAided && c.Explorer == "" {
		return fmt.Errorf("%w: set an explorer url", colordata.ErrNoExplorer)
	}
	return nil
}

// Params returns the chain parameters of the configured network.
func (c *Config) Params() *chaincfg.Params {
	switch c.Network {
	case NetworkTestnet:
		return &chaincfg.TestNet3Params
	case NetworkRegtest:
		return &chaincfg.RegressionNetParams
	}
	return &chaincfg.MainNetParams
}

// LogFile returns where the log rotator writes.
func (c *Config) LogFile() string {
	dir := c.LogDir
	if dir == "" {
		dir = filepath.Join(btcutil.AppDataDir(constants.AppName, false), "logs", c.Network)
	}
	return filepath.Join(dir, constants.AppName+".log")
}
