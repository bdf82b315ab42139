// Command sheetctl inspects and edits spreadsheet tables from the command
// line, either a Google spreadsheet (with an interactive OAuth login) or a
// local .xlsx workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/gridkit/gridkit/sheet"
	"github.com/gridkit/gridkit/sheet/gsheets"
	"github.com/gridkit/gridkit/sheet/xlsxfile"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	godotenv.Load()

	fs := flag.NewFlagSet("sheetctl", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagSpreadsheet := fs.String("spreadsheet", os.Getenv("SHEETCTL_SPREADSHEET"),
		"Google spreadsheet id")
	flagXlsx := fs.String("xlsx", "", "operate on a local .xlsx file instead of a Google spreadsheet")
	flagTable := fs.String("table", "Sheet1", "table (tab) name")
	flagSecrets := fs.String("client-secrets", os.Getenv("SHEETCTL_CLIENT_SECRETS"),
		"path to the OAuth client secrets JSON")

	openSheet := func(ctx context.Context) (*sheet.Sheet, error) {
		if *flagXlsx != "" {
			return sheet.New(xlsxfile.New(), *flagXlsx, *flagTable), nil
		}
		if *flagSpreadsheet == "" {
			return nil, fmt.Errorf("either -xlsx or -spreadsheet is required")
		}
		creds, err := credentials(*flagSecrets)
		if err != nil {
			return nil, err
		}
		tr, err := gsheets.NewWithCredentials(ctx, creds)
		if err != nil {
			return nil, err
		}
		return sheet.New(tr, *flagSpreadsheet, *flagTable), nil
	}

	dumpCmd := &ffcli.Command{
		Name: "dump", ShortUsage: "sheetctl dump", ShortHelp: "print the table contents",
		Exec: func(ctx context.Context, args []string) error {
			s, err := openSheet(ctx)
			if err != nil {
				return err
			}
			if err := s.Load(ctx); err != nil {
				return err
			}
			return dump(s, s.Rows())
		},
	}

	filterCmd := &ffcli.Command{
		Name: "filter", ShortUsage: "sheetctl filter <condition>",
		ShortHelp: "print the rows matching a condition over header columns",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("filter needs exactly one condition argument")
			}
			s, err := openSheet(ctx)
			if err != nil {
				return err
			}
			if err := s.Load(ctx); err != nil {
				return err
			}
			if s.Size() > 0 {
				s.SetHeaderRow(0)
			}
			rows, err := s.Filter(args[0])
			if err != nil {
				return err
			}
			return dump(s, rows)
		},
	}

	renameCmd := &ffcli.Command{
		Name: "rename", ShortUsage: "sheetctl rename <new-name>",
		ShortHelp: "rename the table",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("rename needs exactly one name argument")
			}
			s, err := openSheet(ctx)
			if err != nil {
				return err
			}
			return s.Rename(ctx, args[0])
		},
	}

	duplicateCmd := &ffcli.Command{
		Name: "duplicate", ShortUsage: "sheetctl duplicate",
		ShortHelp: "copy the table within its spreadsheet",
		Exec: func(ctx context.Context, args []string) error {
			s, err := openSheet(ctx)
			if err != nil {
				return err
			}
			dup, err := s.Duplicate(ctx, s.SpreadsheetID())
			if err != nil {
				return err
			}
			fmt.Println(dup)
			return nil
		},
	}

	authCmd := &ffcli.Command{
		Name: "auth", ShortUsage: "sheetctl auth <status|logout>",
		ShortHelp: "inspect or discard the cached Google login",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("auth needs status or logout")
			}
			creds, err := credentials(*flagSecrets)
			if err != nil {
				return err
			}
			switch args[0] {
			case "status":
				fmt.Println(creds.CheckStatus())
				return nil
			case "logout":
				return creds.Cleanup()
			}
			return fmt.Errorf("unknown auth action %q", args[0])
		},
	}

	app := &ffcli.Command{
		Name: "sheetctl", FlagSet: fs,
		ShortUsage:  "sheetctl [flags] <subcommand>",
		Subcommands: []*ffcli.Command{dumpCmd, filterCmd, renameCmd, duplicateCmd, authCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = zlog.NewSContext(ctx, logger)
	return app.Run(ctx)
}

func credentials(secretsPath string) (gsheets.Credentials, error) {
	if secretsPath == "" {
		return nil, fmt.Errorf("-client-secrets (or SHEETCTL_CLIENT_SECRETS) is required for Google access")
	}
	secretJSON, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	cache, err := gsheets.NewFileCache("")
	if err != nil {
		return nil, err
	}
	return gsheets.NewUserLogin(secretJSON, cache), nil
}

func dump(s *sheet.Sheet, rows []*sheet.Row) error {
	if h := s.Header(); h != nil && h.Len() > 0 {
		fmt.Println(strings.Join(rowValues(h), "\t"))
	}
	for _, r := range rows {
		fmt.Println(strings.Join(rowValues(r), "\t"))
	}
	return nil
}

func rowValues(r *sheet.Row) []string {
	out := make([]string, r.Len())
	for i := range out {
		out[i] = r.Cell(i).String()
	}
	return out
}
