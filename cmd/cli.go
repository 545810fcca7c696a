package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
)

var Version = "dev"
var Revision = "HEAD"

// StorageOptions are the flags shared by every command touching the
// persisted configuration.
type StorageOptions struct {
	ConfigURI string `help:"Configuration URI (e.g., file:///path/to/config.json or s3://bucket/key/config.json)"`
	KMSKeyID  string `help:"KMS key ID for configuration-at-rest encryption (e.g., alias/my-key)"`
	KMSRegion string `help:"KMS region (e.g., us-west-2)"`
}

type CLI struct {
	Serve struct {
		StorageOptions
		Edit     bool   `help:"Start in edit mode even when a configuration is stored"`
		LogLevel string `help:"Log level (debug|info|warn|error)" default:"info" enum:"debug,info,warn,error"`
	} `cmd:"" help:"Run the local chat UI server"`

	Show struct {
		StorageOptions
	} `cmd:"" help:"Print the stored configuration"`

	Validate struct {
		StorageOptions
	} `cmd:"" help:"Validate the stored configuration"`

	Reset struct {
		StorageOptions
	} `cmd:"" help:"Delete the stored configuration"`

	Version VersionFlag `name:"version" help:"show version"`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Printf("%s-%s\n", Version, Revision)
	app.Exit(0)
	return nil
}

func RunCLI(ctx context.Context, args []string) error {
	cli := CLI{
		Version: VersionFlag("0.1.0"),
	}
	parser, err := kong.New(&cli)
	if err != nil {
		return fmt.Errorf("error creating CLI parser: %w", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Printf("error parsing CLI: %v\n", err)
		return fmt.Errorf("error parsing CLI: %w", err)
	}
	cmd := strings.Fields(kctx.Command())[0]

	switch cmd {
	case "serve":
		return Serve(&cli)
	case "show":
		return Show(&cli)
	case "validate":
		return Validate(&cli)
	case "reset":
		return Reset(&cli)
	}
	return nil
}
