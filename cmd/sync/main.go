package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"main/internal/chaos"
	"main/internal/journal"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/realtime"
	"main/internal/schema"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "JSON config file path")
	baseURLFlag := flag.String("base-url", "", "coordination service base URL (overrides config)")
	userFlag := flag.String("user", "", "user id")
	platformFlag := flag.String("platform", "", "platform name")
	journalFlag := flag.String("journal", "", "journal sqlite path (overrides config)")
	pyroscopeFlag := flag.String("pyroscope", "", "pyroscope server address (optional)")
	chaosFlag := flag.Float64("chaos", 0, "dial failure rate in [0,1] for reconnect soak testing")
	chaosLifetimeFlag := flag.Duration("chaos-lifetime", 0, "max connection lifetime for reconnect soak testing")
	flag.Parse()

	userID := strings.TrimSpace(*userFlag)
	if userID == "" {
		return fmt.Errorf("missing user id; use -user")
	}

	loaded := ops.Loaded{
		Platform: realtime.DefaultPlatform,
		Policy:   realtime.DefaultPolicy(),
	}
	if *configFlag != "" {
		var err error
		loaded, err = ops.Load(*configFlag)
		if err != nil {
			return err
		}
	}
	if *baseURLFlag != "" {
		loaded.BaseURL = *baseURLFlag
	}
	if *platformFlag != "" {
		loaded.Platform = *platformFlag
	}
	if *journalFlag != "" {
		loaded.Journal = ops.JournalConfig{Enabled: true, Path: *journalFlag}
	}
	if loaded.BaseURL == "" {
		return fmt.Errorf("missing base URL; use -base-url or -config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := strings.TrimSpace(*pyroscopeFlag); addr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "sync-client",
			ServerAddress:   addr,
			Tags: map[string]string{
				"platform": loaded.Platform,
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	var eventLog *journal.Journal
	if loaded.Journal.Enabled {
		var err error
		eventLog, err = journal.Open(ctx, loaded.Journal.Path)
		if err != nil {
			return err
		}
		defer func() {
			_ = eventLog.Close()
		}()
	}
	metrics := obs.NewMetrics()

	var dialer realtime.Dialer
	if *chaosFlag > 0 || *chaosLifetimeFlag > 0 {
		var err error
		dialer, err = chaos.NewDialer(realtime.NewDialer(), chaos.Config{
			DialFailRate:    *chaosFlag,
			MaxConnLifetime: *chaosLifetimeFlag,
		})
		if err != nil {
			return err
		}
		logs.Warnf("chaos dialer enabled, fail rate %.2f lifetime %s", *chaosFlag, *chaosLifetimeFlag)
	}

	client := realtime.New(realtime.Config{
		BaseURL:      loaded.BaseURL,
		Policy:       loaded.Policy,
		PingInterval: loaded.PingInterval,
		Dialer:       dialer,
		Observer:     obs.Fanout(eventLog, metrics),
	})

	subs := []*realtime.Subscription{
		client.OnEvent(realtime.EventConnectionChange, func(env realtime.Envelope) {
			logs.Infof("connection_change: %s", env.Data)
		}),
		client.OnEvent(realtime.EventStateUpdate, printEvent),
		client.OnEvent(realtime.EventChatMessage, printEvent),
		client.OnEvent(realtime.EventLimbicUpdate, printEvent),
	}
	defer func() {
		for _, sub := range subs {
			sub.Cancel()
		}
	}()

	if err := client.Connect(ctx, userID, loaded.Platform); err != nil {
		return err
	}
	logs.Infof("sync client started, user %s platform %s", userID, loaded.Platform)

	<-ctx.Done()

	client.Disconnect()
	// Give in-flight journal writes a moment before teardown.
	time.Sleep(100 * time.Millisecond)

	snap := metrics.Snapshot()
	logs.Infof("traffic summary, in: %v out: %v delay avg %s", snap.Inbound, snap.Outbound, snap.DeliveryDelay.Avg)
	return nil
}

func printEvent(env realtime.Envelope) {
	payload, err := schema.Decode(env.EventType, env.Data)
	if err != nil {
		logs.Warnf("%s: undecodable payload, err: %+v", env.EventType, err)
		return
	}
	logs.Infof("%s: %+v", env.EventType, payload)
}
