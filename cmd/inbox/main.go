package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/config"
	"github.com/debatify/debatify-go/notifier"
	"github.com/debatify/debatify-go/session"
	"github.com/debatify/debatify-go/utils/dotenv"
	. "github.com/debatify/debatify-go/utils/flag"
	. "github.com/debatify/debatify-go/utils/log"
)

var (
	configPath = flag.String("config", "", "optional YAML config path")
	markRead   = flag.Bool("mark_read", false, "mark all notifications read after printing")
)

func init() {
	LogV2.Info("inbox initialized")
}

func main() {
	ParseFlags()
	LogV2.Infof("starting", *ServiceName)

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
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
	if !sess.Authenticated() {
		fmt.Fprintln(os.Stderr, "You must be logged in to read notifications.")
		os.Exit(1)
	}

	client := api.NewClient(cfg.ApiBase, sess).SetTimeout(cfg.RequestTimeout())
	navbar := notifier.NewNavbar(client, sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	navbar.RefreshOnce(ctx)
	if !navbar.Authenticated() {
		fmt.Fprintln(os.Stderr, "Session expired, log in again.")
		os.Exit(1)
	}

	now := time.Now()
	grouped := navbar.Grouped(now)
	total := 0
	for _, group := range notifier.GroupOrder {
		items := grouped[group]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("== %s ==\n", group)
		for _, n := range items {
			marker := " "
			if !n.Read {
				marker = "*"
			}
			fmt.Printf("%s %s (%s)\n", marker, n.Message, n.CreatedAt.Local().Format(time.RFC822))
		}
		total += len(items)
	}
	if total == 0 {
		fmt.Println("No notifications yet.")
		return
	}
	fmt.Printf("%d unread\n", navbar.Unread())

	if *markRead {
		if err := navbar.Open(ctx); err != nil {
			LogV2.Errorf("mark read failed:", err)
			os.Exit(1)
		}
		fmt.Println("All notifications marked read.")
	}
}
