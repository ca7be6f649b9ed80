package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/sirupsen/logrus"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/config"
	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/session"
	"github.com/debatify/debatify-go/synchronizer"
	"github.com/debatify/debatify-go/utils/dotenv"
	. "github.com/debatify/debatify-go/utils/flag"
	. "github.com/debatify/debatify-go/utils/log"
)

var (
	entityType = flag.String("type", "debate", "entity type to watch: discussion | debate | blog")
	entityId   = flag.String("id", "", "entity id to watch")
	configPath = flag.String("config", "", "optional YAML config path")
	passcode   = flag.String("passcode", "", "passcode for private entities")
)

func init() {
	LogV2.Info("entity watcher initialized")
}

func main() {
	ParseFlags()
	if *NoColor {
		LogV2.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	LogV2.Infof("starting", *ServiceName)

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	t := model.EntityType(*entityType)
	if !t.Valid() || *entityId == "" {
		fmt.Fprintln(os.Stderr, "usage: watcher -type {discussion|debate|blog} -id <entity id>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	sessionPath, err := session.DefaultPath()
	if err != nil {
		panic(err)
	}
	sess, err := session.NewStore(sessionPath)
	if err != nil {
		panic(err)
	}

	client := api.NewClient(cfg.ApiBase, sess).SetTimeout(cfg.RequestTimeout())

	opts := []synchronizer.Option{synchronizer.WithInterval(cfg.PollInterval(t))}
	if cfg.StatsdAddr != "" {
		statsdClient, err := statsd.New(cfg.StatsdAddr)
		if err != nil {
			LogV2.Errorf("statsd unavailable, counters disabled:", err)
		} else {
			opts = append(opts, synchronizer.WithStatsd(statsdClient))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	sync := synchronizer.New(client, sess, t, *entityId, opts...)
	snapshots, err := sync.Subscribe(ctx)
	if err != nil {
		panic(err)
	}
	go func() {
		if err := sync.Start(ctx); err != nil {
			LogV2.Errorf("synchronizer exited:", err)
		}
	}()

	for snap := range snapshots {
		switch snap.State {
		case synchronizer.StatePasscodeRequired:
			if *passcode == "" {
				fmt.Println(snap.Message)
				os.Exit(1)
			}
			go func() {
				if err := sync.SubmitPasscode(ctx, *passcode); err != nil {
					fmt.Println(err)
					cancel()
				}
			}()
		case synchronizer.StateFailed:
			fmt.Println(snap.Message)
			os.Exit(1)
		case synchronizer.StateReady:
			printSnapshot(snap)
		}
	}
}

func printSnapshot(snap synchronizer.EntitySnapshot) {
	e := snap.Entity
	if e == nil {
		return
	}
	fmt.Printf("%s | score %+d (up %d / down %d) | views %d | bookmarks %d | comments %d\n",
		e.Title, e.NetScore(), e.Upvotes, e.Downvotes, e.Views, e.BookmarkCount, len(e.Comments))
	for _, c := range synchronizer.SortComments(e.Comments, synchronizer.OrderLatest) {
		author := "unknown"
		if c.User != nil {
			author = c.User.Username
		}
		line := fmt.Sprintf("  [%d likes] %s: %s", c.Likes, author, c.Text)
		if c.Stance != "" {
			line += fmt.Sprintf(" (%s)", c.Stance)
		}
		fmt.Println(line)
	}
}
