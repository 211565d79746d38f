package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/domain-resolution/cmd/flags"
	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/resolution"
)

var flagJSON = &cli.BoolFlag{
	Name:  "json",
	Usage: "print results as JSON",
}

const usage string = `Resolve blockchain domains against CNS, ZNS and ENS registries`

func main() {
	app := &cli.App{
		Name:  "resolution",
		Usage: usage,
		Flags: append(append([]cli.Flag{flagJSON, flags.LogServiceFlagFn("resolution-cli")}, flags.LogFlags...), flags.SourceFlags...),
		Commands: []*cli.Command{
			{
				Name:      "address",
				Usage:     "print the address of a currency ticker",
				ArgsUsage: "<domain> <ticker>",
				Action: withResolution(2, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					return res.Address(cCtx.Context, cCtx.Args().Get(0), cCtx.Args().Get(1))
				}),
			},
			{
				Name:      "record",
				Usage:     "print a record by key",
				ArgsUsage: "<domain> <key>",
				Action: withResolution(2, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					return res.Record(cCtx.Context, cCtx.Args().Get(0), cCtx.Args().Get(1))
				}),
			},
			{
				Name:      "records",
				Usage:     "print every record of a domain",
				ArgsUsage: "<domain>",
				Action: withResolution(1, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					return res.Resolve(cCtx.Context, cCtx.Args().Get(0))
				}),
			},
			{
				Name:      "owner",
				Usage:     "print the owner of a domain",
				ArgsUsage: "<domain>",
				Action: withResolution(1, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					return res.Owner(cCtx.Context, cCtx.Args().Get(0))
				}),
			},
			{
				Name:      "resolver",
				Usage:     "print the resolver contract of a domain",
				ArgsUsage: "<domain>",
				Action: withResolution(1, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					return res.Resolver(cCtx.Context, cCtx.Args().Get(0))
				}),
			},
			{
				Name:      "namehash",
				Usage:     "print the node hash of a domain",
				ArgsUsage: "<domain>",
				Action: withResolution(1, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					node, err := res.Namehash(cCtx.Args().Get(0))
					if err != nil {
						return nil, err
					}
					return node.Hex(), nil
				}),
			},
			{
				Name:      "childhash",
				Usage:     "print the node hash of a label under a parent node",
				ArgsUsage: "<parent-hash> <label> <suffix>",
				Action: withResolution(3, func(cCtx *cli.Context, res *resolution.Resolution) (any, error) {
					parent, err := interfaces.NewNodeHashFromHex(cCtx.Args().Get(0))
					if err != nil {
						return nil, err
					}
					node, err := res.Childhash(parent, cCtx.Args().Get(1), cCtx.Args().Get(2))
					if err != nil {
						return nil, err
					}
					return node.Hex(), nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withResolution connects the configured naming services, runs fn and prints
// its result.
func withResolution(nargs int, fn func(*cli.Context, *resolution.Resolution) (any, error)) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		if cCtx.NArg() != nargs {
			return fmt.Errorf("expected %d arguments, got %d", nargs, cCtx.NArg())
		}

		logger := flags.SetupLogger(cCtx)
		cfg, err := flags.LoadConfig(cCtx)
		if err != nil {
			return err
		}

		res, err := resolution.NewFromConfig(cCtx.Context, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer res.Close()

		result, err := fn(cCtx, res)
		if err != nil {
			return err
		}
		return printResult(cCtx.Bool(flagJSON.Name), result)
	}
}

func printResult(asJSON bool, result any) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	records, ok := result.(map[string]string)
	if !ok {
		fmt.Println(result)
		return nil
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s\t%s\n", key, records[key])
	}
	return nil
}
