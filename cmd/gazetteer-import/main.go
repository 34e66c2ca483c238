package main

import (
	"fmt"
	golog "log"
	"os"

	"github.com/omniscale/gazetteer/config"
	"github.com/omniscale/gazetteer/gazetteerdb"
	"github.com/omniscale/gazetteer/logging"
)

var log = logging.NewLogger("")

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\timport")
	fmt.Println("\tupdate")
}

// Main dispatches to the import/update subcommands. It owns the
// database connection lifecycle (Open, Init, Close); wiring a
// MiddleStore and GeomBuilder to an actual OSM source is left to the
// embedding application, since those two collaborators (spec §6) are
// consumed interfaces this module never implements itself.
func Main(usage func()) {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		usage()
		logging.Shutdown()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		config.ParseImport(os.Args[2:])
		logging.SetQuiet(config.Base.Quiet)
		runBootstrap(false)
	case "update":
		config.ParseUpdate(os.Args[2:])
		logging.SetQuiet(config.Base.Quiet)
		runBootstrap(true)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	logging.Shutdown()
	os.Exit(0)
}

// runBootstrap opens the database, runs the schema bootstrap (or, in slim
// mode, prepares the class-lookup statements) and closes cleanly. A
// caller embedding this as a library would hold onto db past this point
// and drive a writer.PlaceWriter with node/way/relation events instead.
func runBootstrap(slimMode bool) {
	db, err := gazetteerdb.Open(gazetteerdb.Config{
		Connection:      config.Base.Connection,
		Schema:          config.Base.Schema,
		Srid:            config.Base.Srid,
		SlimMode:        slimMode,
		DataTablespace:  config.Base.DataTablespace,
		IndexTablespace: config.Base.IndexTablespace,
	})
	if err != nil {
		log.Fatalf("connecting: %s", err)
		return
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		log.Fatalf("initializing schema: %s", err)
		return
	}

	log.Printf("ready (schema=%s srid=%d slim=%v)", config.Base.Schema, config.Base.Srid, slimMode)
}

func main() {
	Main(PrintCmds)
}
