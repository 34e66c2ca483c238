// Package config loads the connection, schema and SRID settings shared by
// the import and update subcommands, from CLI flags layered over an
// optional JSON config file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

// Config is the JSON config file shape. Any field present there becomes
// the default for the matching flag; an explicitly passed flag always
// wins.
type Config struct {
	Connection      string `json:"connection"`
	Schema          string `json:"schema"`
	Srid            int    `json:"srid"`
	DataTablespace  string `json:"data_tablespace"`
	IndexTablespace string `json:"index_tablespace"`
}

const defaultSrid = 4326
const defaultSchema = "public"

// ImportFlags parses the "import" subcommand: fresh import, drops and
// recreates the place table.
var ImportFlags = flag.NewFlagSet("import", flag.ExitOnError)

// UpdateFlags parses the "update" subcommand: applies add/modify/delete
// events against an existing table. Always runs in slim mode.
var UpdateFlags = flag.NewFlagSet("update", flag.ExitOnError)

// BaseOptions holds the settings common to both subcommands, after flag
// parsing and config-file merging.
type BaseOptions struct {
	Connection           string
	Schema               string
	Srid                 int
	DataTablespace       string
	IndexTablespace      string
	ConfigFile           string
	Quiet                bool
	ExcludeBrokenPolygon bool
}

var Base = BaseOptions{}

func addBaseFlags(flags *flag.FlagSet) {
	flags.StringVar(&Base.Connection, "connection", "", "postgres connection string")
	flags.StringVar(&Base.Schema, "schema", defaultSchema, "schema for the place table")
	flags.IntVar(&Base.Srid, "srid", defaultSrid, "srid for the geometry column")
	flags.StringVar(&Base.DataTablespace, "tablespace-data", "", "tablespace for the place table")
	flags.StringVar(&Base.IndexTablespace, "tablespace-index", "", "tablespace for the place index")
	flags.StringVar(&Base.ConfigFile, "config", "", "config file (json)")
	flags.BoolVar(&Base.Quiet, "quiet", false, "quiet log output")
	flags.BoolVar(&Base.ExcludeBrokenPolygon, "exclude-broken-polygon", false, "drop polygons GEOS reports as invalid instead of loading them as-is")
}

func init() {
	ImportFlags.Usage = UsageImport
	UpdateFlags.Usage = UsageUpdate
	addBaseFlags(ImportFlags)
	addBaseFlags(UpdateFlags)
}

// updateFromConfig layers Base over an optional JSON config file: a field
// left at its flag default is replaced by the file's value, a field the
// user actually set on the command line is left alone.
func (o *BaseOptions) updateFromConfig() error {
	conf := &Config{Srid: defaultSrid, Schema: defaultSchema}

	if o.ConfigFile != "" {
		f, err := os.Open(o.ConfigFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(conf); err != nil {
			return err
		}
	}

	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.Schema == defaultSchema && conf.Schema != "" {
		o.Schema = conf.Schema
	}
	if o.Srid == defaultSrid && conf.Srid != 0 {
		o.Srid = conf.Srid
	}
	if o.DataTablespace == "" {
		o.DataTablespace = conf.DataTablespace
	}
	if o.IndexTablespace == "" {
		o.IndexTablespace = conf.IndexTablespace
	}
	return nil
}

func (o *BaseOptions) check() []error {
	var errs []error
	if o.Connection == "" {
		errs = append(errs, errors.New("missing -connection"))
	}
	if o.Srid != 3857 && o.Srid != 4326 {
		errs = append(errs, errors.New("only -srid=3857 or -srid=4326 are supported"))
	}
	return errs
}

func UsageImport() {
	fmt.Fprintf(os.Stderr, "Usage: %s import [args]\n\n", os.Args[0])
	ImportFlags.PrintDefaults()
	os.Exit(2)
}

func UsageUpdate() {
	fmt.Fprintf(os.Stderr, "Usage: %s update [args]\n\n", os.Args[0])
	UpdateFlags.PrintDefaults()
	os.Exit(2)
}

// ParseImport parses the import subcommand's flags and validates them,
// exiting the process on any failure (matching the teacher's
// parse-or-exit style for its own subcommands).
func ParseImport(args []string) {
	if err := ImportFlags.Parse(args); err != nil {
		log.Fatal(err)
	}
	if err := Base.updateFromConfig(); err != nil {
		log.Fatal(err)
	}
	if errs := Base.check(); len(errs) != 0 {
		reportErrors(errs)
		UsageImport()
	}
}

// ParseUpdate parses the update subcommand's flags and validates them.
func ParseUpdate(args []string) {
	if err := UpdateFlags.Parse(args); err != nil {
		log.Fatal(err)
	}
	if err := Base.updateFromConfig(); err != nil {
		log.Fatal(err)
	}
	if errs := Base.check(); len(errs) != 0 {
		reportErrors(errs)
		UsageUpdate()
	}
}

func reportErrors(errs []error) {
	fmt.Println("errors in config/options:")
	for _, err := range errs {
		fmt.Printf("\t%s\n", err)
	}
	os.Exit(1)
}
