package cmd

import (
	"log/slog"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/activity"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/config"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/console"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/db"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/ledger"
	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/pathutil"
)

// environment bundles what every feed-based command needs.
type environment struct {
	cfg     *config.Config
	paths   *pathutil.PathResolver
	conn    *db.Connection
	session *console.Session
}

func (e *environment) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}

// setup loads configuration, opens the history database and creates a
// session for the requested feed.
func setup() *environment {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"ledger", "apiUrl"},
		[]string{"ledger", "token"},
		[]string{"report", "root"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	feed, err := activity.ParseFeed(feedType)
	exitOnError(err, "invalid --type")

	rules := activity.DefaultRules()
	if cfg.Report.RulesFile != "" {
		rules, err = activity.LoadRules(cfg.Report.RulesFile)
		exitOnError(err, "failed to load rules")
	}

	paths := pathutil.New(pathutil.Config{
		ReportRoot:   cfg.Report.Root,
		DatabasePath: cfg.Report.DBPath,
	})

	dbPath := paths.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")

	client := ledger.NewClient(ledger.ClientConfig{
		APIURL:           cfg.Ledger.APIURL,
		Token:            cfg.Ledger.Token,
		Timeout:          cfg.Ledger.Timeout,
		PerPage:          cfg.Ledger.PerPage,
		JournalPageLimit: cfg.Ledger.JournalPageLimit,
		RateLimit:        cfg.Ledger.RateLimit,
		AccountsCacheTTL: cfg.Ledger.AccountsCacheTTL,
	})

	session := console.NewSession(feed, client, console.Options{
		Rules:    &rules,
		Recorder: db.NewHistory(conn),
		Currency: cfg.Report.Currency,
	})

	return &environment{cfg: cfg, paths: paths, conn: conn, session: session}
}
