// Command outly is a terminal front end for the Outly sync layer: it logs
// in, refreshes the on-device cache, and browses events, outings, and
// notifications through the same synchronizers the app UI observes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/calculator"
	"github.com/outly-app/outly-go/internal/config"
	"github.com/outly-app/outly-go/internal/filter"
	"github.com/outly-app/outly-go/internal/metrics"
	"github.com/outly-app/outly-go/internal/models"
	"github.com/outly-app/outly-go/internal/storage/sqlite"
	syncpkg "github.com/outly-app/outly-go/internal/sync"
	"github.com/outly-app/outly-go/pkg/logging"
)

const usage = `usage: outly <command> [flags]

commands:
  login      -email -password
  signup     -name -email -phone -password
  whoami
  logout
  sync                 refresh every domain
  events     [-type t] [-from date] [-to date] [-lat l -lng l -radius km]
  outings
  create     -title [-description] [-participants a,b,c]
  activity   -outing id -title -amount -payer id -participants a,b,c
  pay        -outing id -debt id
  purchase   -event id -tier name -qty n
  notifications [-read id | -read-all]
`

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.NewClient(api.Options{
		BaseURL:           cfg.BaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Tokens:            store,
	})

	recorder := metrics.NewCollector(prometheus.NewRegistry())
	hub := syncpkg.NewHub(client, store, slog.Default(), recorder)
	defer hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := hub.Prime(ctx); err != nil {
		slog.Warn("Failed to prime from cache", "error", err)
	}

	if err := run(ctx, hub, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, hub *syncpkg.Hub, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, hub, args)
	case "signup":
		return runSignup(ctx, hub, args)
	case "whoami":
		return runWhoami(ctx, hub)
	case "logout":
		return hub.Session.Logout(ctx)
	case "sync":
		return runSync(ctx, hub)
	case "events":
		return runEvents(ctx, hub, args)
	case "outings":
		return runOutings(ctx, hub)
	case "create":
		return runCreate(ctx, hub, args)
	case "activity":
		return runActivity(ctx, hub, args)
	case "pay":
		return runPay(ctx, hub, args)
	case "purchase":
		return runPurchase(ctx, hub, args)
	case "notifications":
		return runNotifications(ctx, hub, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runLogin(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	identity, err := hub.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", identity.Name, identity.Email)
	return nil
}

func runSignup(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	identity, err := hub.Session.Signup(ctx, *name, *email, *phone, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n", identity.Name)
	return nil
}

func runWhoami(ctx context.Context, hub *syncpkg.Hub) error {
	identity, err := hub.Session.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> %s\n", identity.Name, identity.Email, identity.Phone)
	return nil
}

func runSync(ctx context.Context, hub *syncpkg.Hub) error {
	if !hub.Session.Authenticated() {
		return fmt.Errorf("not logged in")
	}
	if err := hub.RefreshAll(ctx); err != nil {
		// Individual fetch failures keep their stale snapshots; report anyway.
		slog.Warn("Some domains failed to refresh", "error", err)
	}
	fmt.Printf("events: %d, outings: %d, notifications: %d (%d unread)\n",
		len(hub.Events.Events()),
		len(hub.Outings.Outings()),
		len(hub.Notifications.Notifications()),
		hub.Notifications.Unread(),
	)
	return nil
}

func runEvents(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	eventType := fs.String("type", "", "event type filter")
	from := fs.String("from", "", "start date (2006-01-02)")
	to := fs.String("to", "", "end date (2006-01-02)")
	lat := fs.Float64("lat", 0, "device latitude")
	lng := fs.Float64("lng", 0, "device longitude")
	radius := fs.Float64("radius", 0, "radius in km")
	fs.Parse(args)

	if hub.Events.State() == syncpkg.StateIdle {
		if err := hub.Events.Refresh(ctx); err != nil {
			slog.Warn("Event refresh failed, showing cached data", "error", err)
		}
	}

	var predicates []filter.Predicate
	predicates = append(predicates, filter.ByType(models.EventType(*eventType)))

	start, end, err := parseDateRange(*from, *to)
	if err != nil {
		return err
	}
	predicates = append(predicates, filter.ByDate(start, end))

	if *radius > 0 {
		device := &filter.Point{Latitude: *lat, Longitude: *lng}
		predicates = append(predicates, filter.ByDistance(device, *radius))
	}

	events := filter.Apply(hub.Events.Events(), predicates...)
	for _, e := range events {
		fmt.Printf("%s  %-28s %-10s %s (%d/%d sold)\n",
			e.Date.Format("2006-01-02"), e.Title, e.Type, e.Location.Name, e.Sold, e.Capacity)
	}
	fmt.Printf("%d event(s)\n", len(events))
	return nil
}

func runOutings(ctx context.Context, hub *syncpkg.Hub) error {
	if hub.Outings.State() == syncpkg.StateIdle {
		if err := hub.Outings.Refresh(ctx); err != nil {
			slog.Warn("Outing refresh failed, showing cached data", "error", err)
		}
	}

	me := hub.Session.Current()
	for _, o := range hub.Outings.Outings() {
		fmt.Printf("%s  %-24s %-12s %d participant(s), spent %.2f\n",
			o.ID, o.Title, o.Status, len(o.Participants), o.TotalSpent())
		if me == nil {
			continue
		}
		if debts := o.DebtsOwedBy(me.UserID); len(debts) > 0 {
			for _, d := range debts {
				fmt.Printf("    owe %.2f to %s (%s)\n", d.Amount, d.ToUserID, d.Status)
			}
		} else {
			// No debt rows yet; show the locally recomputed share.
			fmt.Printf("    your share (estimated): %.2f\n", calculator.FallbackShare(o, me.UserID))
		}
	}
	return nil
}

func runCreate(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "outing title")
	description := fs.String("description", "", "outing description")
	participants := fs.String("participants", "", "comma-separated user ids")
	fs.Parse(args)

	outing, err := hub.Outings.Create(ctx, api.CreateOutingParams{
		Title:        *title,
		Description:  *description,
		Participants: splitList(*participants),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created outing %s\n", outing.ID)
	return nil
}

func runActivity(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	outingID := fs.String("outing", "", "outing id")
	title := fs.String("title", "", "activity title")
	amount := fs.String("amount", "0", "amount paid")
	payer := fs.String("payer", "", "payer user id")
	participants := fs.String("participants", "", "comma-separated user ids")
	fs.Parse(args)

	parsed, err := strconv.ParseFloat(*amount, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	people := splitList(*participants)
	if err := hub.Outings.AddActivity(ctx, *outingID, api.AddActivityParams{
		Title:        *title,
		Amount:       parsed,
		PayerID:      *payer,
		Participants: people,
	}); err != nil {
		return err
	}

	shares, err := calculator.EqualShares(parsed, people)
	if err == nil {
		for userID, share := range shares {
			fmt.Printf("%s owes %.2f\n", userID, share)
		}
	}
	return nil
}

func runPay(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	outingID := fs.String("outing", "", "outing id")
	debtID := fs.String("debt", "", "debt id")
	fs.Parse(args)

	return hub.Outings.MarkDebtPaid(ctx, *outingID, *debtID)
}

func runPurchase(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("purchase", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	tier := fs.String("tier", "", "ticket type name")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	return hub.Events.PurchaseTickets(ctx, *eventID, *tier, *qty)
}

func runNotifications(ctx context.Context, hub *syncpkg.Hub, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	readID := fs.String("read", "", "mark one notification read")
	readAll := fs.Bool("read-all", false, "mark every notification read")
	fs.Parse(args)

	if *readID != "" {
		return hub.Notifications.MarkRead(ctx, *readID)
	}
	if *readAll {
		return hub.Notifications.MarkAllRead(ctx)
	}

	if hub.Notifications.State() == syncpkg.StateIdle {
		if err := hub.Notifications.Refresh(ctx); err != nil {
			slog.Warn("Notification refresh failed, showing cached data", "error", err)
		}
	}
	for _, n := range hub.Notifications.Notifications() {
		marker := " "
		if !n.Read() {
			marker = "*"
		}
		fmt.Printf("%s %s  [%s] %s: %s\n", marker, n.SentAt.Format("01-02 15:04"), n.Type, n.Title, n.Message)
	}
	return nil
}

func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid -from date: %w", err)
		}
		start = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid -to date: %w", err)
		}
		// Inclusive upper bound: cover the whole day.
		t = t.Add(24*time.Hour - time.Second)
		end = &t
	}
	return start, end, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
