package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/spamicity/app/corpus"
	"github.com/umputun/spamicity/app/webapi"
	"github.com/umputun/spamicity/lib/spamicity"
)

type options struct {
	Train struct {
		Spam string `long:"spam" env:"SPAM" description:"training spam corpus directory"`
		Ham  string `long:"ham" env:"HAM" description:"training ham corpus directory"`
	} `group:"train" namespace:"train" env-namespace:"TRAIN"`

	Test struct {
		Spam string `long:"spam" env:"SPAM" description:"testing spam corpus directory"`
		Ham  string `long:"ham" env:"HAM" description:"testing ham corpus directory"`
	} `group:"test" namespace:"test" env-namespace:"TEST"`

	StopWords string `long:"stop-words" env:"STOP_WORDS" description:"stop words file, comma or line separated"`
	Model     string `long:"model" env:"MODEL" description:"model snapshot file, loaded if nothing to train from"`
	DB        string `long:"db" env:"DB" description:"database, sqlite file or postgres url, storage disabled if empty"`
	GID       string `long:"gid" env:"GID" default:"spamicity" description:"group id of the records in the database"`
	Import    bool   `long:"import" env:"IMPORT" description:"import training directories to the database and train from it"`

	Threshold   float64 `long:"threshold" env:"THRESHOLD" default:"0.7" description:"spam probability threshold"`
	Terms       int     `long:"terms" env:"TERMS" default:"20" description:"number of max/min spamicity terms used"`
	MinDocs     int     `long:"min-docs" env:"MIN_DOCS" default:"5" description:"prune terms seen in this many documents or fewer"`
	Workers     int     `long:"workers" env:"WORKERS" default:"1" description:"number of parallel training workers"`
	HistorySize int     `long:"history-size" env:"HISTORY_SIZE" default:"100" description:"recent checks kept in memory per class"`

	Server struct {
		Enabled    bool    `long:"enabled" env:"ENABLED" description:"enable web server"`
		Listen     string  `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthUser   string  `long:"auth-user" env:"AUTH_USER" default:"spamicity" description:"basic auth user"`
		AuthPasswd string  `long:"auth" env:"AUTH" description:"basic auth password, \"auto\" to generate"`
		RateLimit  float64 `long:"rate-limit" env:"RATE_LIMIT" default:"50" description:"max requests per second per client"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Watch      bool          `long:"watch" env:"WATCH" description:"retrain when training directories or stop words change"`
	WatchDelay time.Duration `long:"watch-delay" env:"WATCH_DELAY" default:"5s" description:"delay before retrain on change"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated log of checks"`
		FileName   string `long:"file" env:"FILE" default:"spamicity.log" description:"location of checks log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("spamicity %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Server.AuthPasswd)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	detector := spamicity.NewDetector(spamicity.Config{
		Threshold:       opts.Threshold,
		TermsConsidered: opts.Terms,
		MinDocFrequency: opts.MinDocs,
		Workers:         opts.Workers,
		HistorySize:     opts.HistorySize,
	})

	st, err := makeStores(ctx, opts)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	builder := &modelBuilder{opts: opts, detector: detector, stores: st}
	if err := builder.init(ctx); err != nil {
		return err
	}

	if opts.Test.Spam != "" || opts.Test.Ham != "" {
		if err := evaluate(ctx, opts, detector, os.Stdout); err != nil {
			return err
		}
	}

	if !opts.Server.Enabled {
		return nil
	}
	return serve(ctx, opts, detector, builder)
}

// evaluate classifies the testing directories and prints the report
func evaluate(ctx context.Context, opts options, detector *spamicity.Detector, out io.Writer) error {
	if opts.Test.Spam == "" || opts.Test.Ham == "" {
		return errors.New("both testing spam and ham directories are required")
	}
	report, err := corpus.Evaluate(ctx, detector, opts.Test.Spam, opts.Test.Ham, opts.Workers)
	if err != nil {
		return fmt.Errorf("testing %w", err)
	}
	report.Print(out)
	log.Printf("[INFO] tested, spam: %d, ham: %d, spam as ham: %d, ham as spam: %d",
		report.Spam, report.Ham, report.SpamAsHam, report.HamAsSpam)
	return nil
}

// serve runs the web server and, if enabled, the corpus watcher until the context is canceled
func serve(ctx context.Context, opts options, detector *spamicity.Detector, builder *modelBuilder) error {
	checkLog, err := makeCheckLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make check log writer: %w", err)
	}
	defer checkLog.Close()

	authPasswd := opts.Server.AuthPasswd
	if authPasswd == "auto" {
		if authPasswd, err = webapi.GenerateRandomPassword(20); err != nil {
			return fmt.Errorf("can't generate auth password: %w", err)
		}
		log.Printf("[WARN] generated basic auth password for user %s: %q", opts.Server.AuthUser, authPasswd)
	}

	cfg := webapi.Config{
		Version:    revision,
		ListenAddr: opts.Server.Listen,
		Detector:   detector,
		CheckLog:   checkLog,
		Retrain:    builder.rebuild,
		AuthUser:   opts.Server.AuthUser,
		AuthPasswd: authPasswd,
		RateLimit:  opts.Server.RateLimit,
		Dbg:        opts.Dbg,
	}
	if builder.stores != nil {
		cfg.Samples = builder.stores.samples
		cfg.Checks = builder.stores.checks
		cfg.Dictionary = builder.stores.dict
	}
	srv := webapi.NewServer(cfg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })

	if opts.Watch && len(builder.trainDirs()) == 0 {
		log.Printf("[WARN] watch enabled, but no training directories set")
	}
	if opts.Watch && len(builder.trainDirs()) > 0 {
		w := &corpus.Watcher{
			Dirs:      builder.trainDirs(),
			StopWords: opts.StopWords,
			Delay:     opts.WatchDelay,
			OnChange: func(ctx context.Context) error {
				if _, err := builder.rebuild(ctx); err != nil {
					return err
				}
				srv.ResetCache()
				return nil
			},
		}
		if _, err := os.Stat(opts.StopWords); err != nil {
			w.StopWords = "" // nothing to watch
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}

func makeCheckLogWriter(opts options) (checkLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, err := sizeParse(opts.Logger.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", err)
	}
	maxSize /= 1048576

	log.Printf("[INFO] checks logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses size with optional k, m, g or t suffix
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(strings.ToLower(inp), sfx) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(1024, float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" && s != "auto" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
