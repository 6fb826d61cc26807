// cmd/querypad/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vmdang/querypad/internal/config"
	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/dispatch"
	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/logging"
	"github.com/vmdang/querypad/internal/session"
	"github.com/vmdang/querypad/internal/templates"
	"github.com/vmdang/querypad/internal/ui"
)

func main() {
	connName := flag.String("conn", "", "Saved connection name from the config file")
	dbURL := flag.String("url", "", "Connection string (postgres://, mysql://, mongodb://)")
	dbType := flag.String("type", "", "Database type: postgres, mysql, mongodb (inferred from -url when omitted)")
	tableName := flag.String("table", "", "Value substituted for {table_name} placeholders")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ui.InitStyles(cfg.Theme)

	dataPath, err := xdg.DataFile("querypad/querypad.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve data dir: %v\n", err)
		os.Exit(1)
	}

	templateStore, err := templates.Open(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open template store: %v\n", err)
		os.Exit(1)
	}
	defer templateStore.Close()

	historyLog, err := history.Open(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer historyLog.Close()

	dispatcher := dispatch.New(logger)
	coord := session.New(dispatcher, historyLog, templateStore,
		session.Options{RecordFailures: cfg.RecordFailures}, logger)

	desc, err := resolveConnection(cfg, *connName, *dbURL, *dbType, *tableName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if desc != nil {
		if err := coord.UseConnection(*desc); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid connection: %v\n", err)
			os.Exit(1)
		}
		logger.Info("connection selected",
			zap.String("db_type", string(desc.Type)),
			zap.String("url", logging.SanitizeURL(desc.URL)))
	}

	model := ui.New(cfg, coord, historyLog, templateStore)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// resolveConnection picks the startup connection from flags or the config's
// default. Returns nil when nothing is configured; the user can still browse
// templates and history without a connection.
func resolveConnection(cfg *config.Config, connName, dbURL, dbType, tableName string) (*db.Descriptor, error) {
	if dbURL != "" {
		var driverType db.DriverType
		if dbType != "" {
			parsed, err := db.ParseDriverType(dbType)
			if err != nil {
				return nil, err
			}
			driverType = parsed
		} else {
			inferred, ok := db.InferType(dbURL)
			if !ok {
				return nil, fmt.Errorf("cannot infer database type from URL, pass -type (example: %s)",
					db.URLPlaceholder(db.Postgres))
			}
			driverType = inferred
		}
		return &db.Descriptor{Type: driverType, URL: dbURL, TableName: tableName}, nil
	}

	name := connName
	if name == "" {
		name = cfg.DefaultConnection
	}
	if name == "" {
		return nil, nil
	}

	conn, err := cfg.GetConnection(name)
	if err != nil {
		return nil, err
	}
	desc, err := conn.Descriptor()
	if err != nil {
		return nil, err
	}
	if tableName != "" {
		desc.TableName = tableName
	}
	return &desc, nil
}
