// Package arbor is a hierarchical, configuration-driven logging framework.
// Loggers are named nodes in a dotted hierarchy; configuration decides per
// subtree which events are enabled and which appenders receive them, so
// applications log against names and operators decide routing.
//
// Basic Usage:
//
//	logger, err := arbor.GetLogger("svc/checkout")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer arbor.Shutdown(context.Background())
//
//	logger.Info("service started")
//	logger.Warn("retrying {} after {}", "payment-gateway", backoff)
//
// The Hierarchy:
//
// Logger names are dotted paths. A logger without an explicit level
// inherits the nearest ancestor's, ultimately the root's; events accepted
// by a logger also flow to ancestor appenders until a node switches
// additivity off. "app.web.handlers" inherits from "app.web", then "app",
// then the root.
//
// Declarative Configuration:
//
// On first use a context looks for arbor.yaml, arbor.yml or arbor.json in
// the working directory (or the file named via WithConfigFile):
//
//	appenders:
//	  - name: console
//	    kind: console
//	  - name: audit
//	    kind: file
//	    path: /var/log/app/audit.log
//	    layout:
//	      kind: json
//	root:
//	  level: info
//	  refs:
//	    - appender: console
//	loggers:
//	  - name: app.audit
//	    level: debug
//	    additive: false
//	    refs:
//	      - appender: audit
//
// A missing or broken source is reported to the diagnostic channel and
// replaced with the fallback configuration (console at ERROR), so logging
// always comes up.
//
// Programmatic Configuration:
//
//	cfg, err := config.NewBuilder("service").
//		WithAppender(console).
//		WithRoot(types.LevelInfo, config.RefSpec{Appender: "console"}).
//		Build()
//
//	logger, err := arbor.GetLogger("svc/checkout",
//		arbor.WithConfigBuilder(func() (*config.Configuration, error) {
//			return cfg, err
//		}))
//
// Markers:
//
//	logger.LogMarker(types.LevelInfo, "AUDIT", "user {} deleted {}", user, doc)
//
// Markers tag events independently of name and level; appender references
// can filter on them.
//
// Shutdown:
//
// Shutdown stops every context, which stops and flushes every appender.
// Contexts and configurations are single-use: once stopped they refuse to
// start again, and a fresh GetLogger after shutdown returns an error.
//
// Thread Safety:
//
// Loggers, contexts and configurations are safe for concurrent use.
// Acquiring the same logger from many goroutines yields the same handle.
//
// Self-Diagnostics:
//
// The framework never reports its own failures through the logging
// pipeline. Broken appenders, bad configuration sources and lifecycle
// anomalies go to the status channel, which writes to stderr at ERROR by
// default and is adjustable via Init(WithStatusLevel(...)).
package arbor
