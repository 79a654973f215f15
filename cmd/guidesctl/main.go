// Command guidesctl is a terminal client for a guides server. The session
// token is persisted in an auth file so later invocations stay logged in.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vbonduro/guides/internal/client"
	"github.com/vbonduro/guides/internal/domain"
)

const usage = `usage: guidesctl [flags] <command> [args]

commands:
  login -u <username> [-p <password>]
  logout
  whoami
  list [-category TRAVEL|GAME|STUDY] [-q text] [-sort latest|updated] [-page n] [-size n]
  show <guide-id>
  like <guide-id>
  favorite <guide-id>
  comment <guide-id> <text>
  checkin <guide-id> <progress> [note]

flags:
`

var errUsage = errors.New("invalid usage")

type cli struct {
	client *client.Client
	out    io.Writer
	json   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("guidesctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("GUIDES_SERVER", "http://localhost:8082"), "Guides server base URL")
	authFile := fs.String("auth-file", defaultAuthFile(), "Path of the persisted login")
	asJSON := fs.Bool("json", false, "Print responses as JSON")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	storage, err := client.NewFileStorage(*authFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening auth file: %v\n", err)
		return 1
	}
	c, err := client.New(*server, client.NewAuthStore(storage))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app := &cli{client: c, out: stdout, json: *asJSON}
	if err := app.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		u, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		return a.print(u, func(w io.Writer) {
			fmt.Fprintf(w, "%s (%s) #%d %s\n", u.DisplayName, u.Username, u.ID, u.Role)
		})
	case "list":
		return a.list(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "like":
		return a.guideAction(args, func(id int64) error { return a.client.Like(ctx, id) }, "Liked")
	case "favorite":
		return a.guideAction(args, func(id int64) error { return a.client.Favorite(ctx, id) }, "Favorited")
	case "comment":
		return a.comment(ctx, args)
	case "checkin":
		return a.checkIn(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("u", "", "Username")
	password := fs.String("p", os.Getenv("GUIDES_PASSWORD"), "Password")
	if err := fs.Parse(args); err != nil || *username == "" || *password == "" {
		return errUsage
	}
	resp, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	return a.print(resp.User, func(w io.Writer) {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", resp.User.DisplayName, resp.User.Role)
	})
}

func (a *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", "", "Category filter")
	query := fs.String("q", "", "Title search")
	sort := fs.String("sort", "latest", "latest or updated")
	page := fs.Int("page", 0, "Zero-based page")
	size := fs.Int("size", 0, "Page size, server default when 0")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	result, err := a.client.ListGuides(ctx, client.ListGuidesParams{
		Category: domain.GuideCategory(strings.ToUpper(*category)),
		Query:    *query,
		Page:     *page,
		Size:     *size,
		Sort:     *sort,
	})
	if err != nil {
		return err
	}
	return a.print(result, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tAUTHOR\tLIKES\tFAVORITES")
		for _, g := range result.Content {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", g.ID, g.Category, g.Title, g.AuthorName, g.LikeCount, g.FavoriteCount)
		}
		_ = tw.Flush()
		fmt.Fprintf(w, "page %d of %d, %d guides\n", result.Number+1, max(result.TotalPages, 1), result.TotalElements)
	})
}

func (a *cli) show(ctx context.Context, args []string) error {
	id, err := guideID(args)
	if err != nil {
		return err
	}
	g, err := a.client.GetGuide(ctx, id)
	if err != nil {
		return err
	}
	return a.print(g, func(w io.Writer) {
		fmt.Fprintf(w, "%s [%s] by %s\n", g.Title, g.Category, g.AuthorName)
		fmt.Fprintf(w, "likes %d, favorites %d, check-ins %d\n\n", g.LikeCount, g.FavoriteCount, g.CheckinCount)
		fmt.Fprintln(w, g.ContentMarkdown)
	})
}

func (a *cli) guideAction(args []string, action func(int64) error, done string) error {
	id, err := guideID(args)
	if err != nil {
		return err
	}
	if err := action(id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s guide %d\n", done, id)
	return nil
}

func (a *cli) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	id, err := guideID(args[:1])
	if err != nil {
		return err
	}
	cm, err := a.client.CreateComment(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return a.print(cm, func(w io.Writer) {
		fmt.Fprintf(w, "Comment %d posted\n", cm.ID)
	})
}

func (a *cli) checkIn(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	id, err := guideID(args[:1])
	if err != nil {
		return err
	}
	progress, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: progress must be a number", errUsage)
	}
	req := domain.UpsertCheckInRequest{Day: time.Now().Format(time.DateOnly), Progress: &progress}
	if len(args) > 2 {
		note := strings.Join(args[2:], " ")
		req.Note = &note
	}
	ci, err := a.client.UpsertCheckIn(ctx, id, req)
	if err != nil {
		return err
	}
	return a.print(ci, func(w io.Writer) {
		fmt.Fprintf(w, "Checked in %s at %d%%\n", ci.Day, ci.Progress)
	})
}

func (a *cli) print(v any, text func(io.Writer)) error {
	if !a.json {
		text(a.out)
		return nil
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func guideID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid guide id %q", errUsage, args[0])
	}
	return id, nil
}

func defaultAuthFile() string {
	if v := os.Getenv("GUIDES_AUTH_FILE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".guides-auth.json"
	}
	return filepath.Join(dir, "guides", "auth.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
