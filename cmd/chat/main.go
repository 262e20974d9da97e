package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"deepchat/pkg/client"
)

const help = `commands:
  /list              list chats (* marks the active one)
  /use <n|id>        switch to a chat by list number or id
  /new               start a new chat
  /rename <name>     rename the active chat
  /delete            delete the active chat
  /reconcile         reload the active chat from the server
  /quit              exit
anything else is sent as a prompt`

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("DEEPCHAT_SERVER", "http://localhost:8080"), "server base URL")
	token := flag.String("token", os.Getenv("DEEPCHAT_TOKEN"), "session token (or DEEPCHAT_TOKEN)")
	statePath := flag.String("state", "", "selection file (default <config dir>/deepchat/session.yaml)")
	timeout := flag.Duration("timeout", 0, "per-request timeout, 0 for none (match the server's COMPLETION_TIMEOUT plus a margin)")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	if *token == "" {
		log.Fatalf("a session token is required (-token or DEEPCHAT_TOKEN)")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := *statePath
	if path == "" {
		p, err := client.DefaultSelectionPath()
		if err != nil {
			log.Fatalf("Failed to locate selection file: %v", err)
		}
		path = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(*server, client.StaticToken(*token), client.WithTimeout(*timeout))
	session := client.NewSession(api, client.NewFileSelectionStore(path), logger)

	if err := session.Load(ctx); err != nil {
		log.Fatalf("Failed to load chats: %v", err)
	}

	repl := newREPL(session, os.Stdout)
	repl.printActive()
	if err := repl.run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Fatalf("%v", err)
	}
}

type repl struct {
	session   *client.Session
	out       io.Writer
	assistant *color.Color
	user      *color.Color
	failure   *color.Color
}

func newREPL(session *client.Session, out io.Writer) *repl {
	return &repl{
		session:   session,
		out:       out,
		assistant: color.New(color.FgCyan),
		user:      color.New(color.FgGreen),
		failure:   color.New(color.FgRed),
	}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if err := r.handle(ctx, line); err != nil {
			// Any failure is shown generically; details go to the debug log
			r.failure.Fprintf(r.out, "something went wrong: %v\n", err)
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		fmt.Fprintln(r.out, help)
	case "/list":
		r.printList()
	case "/use":
		return r.use(arg)
	case "/new":
		chat, err := r.session.NewChat(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "started %q\n", chat.Name)
	case "/rename":
		active, ok := r.session.Active()
		if !ok {
			return client.ErrNoActiveChat
		}
		return r.session.Rename(ctx, active.ID, arg)
	case "/delete":
		active, ok := r.session.Active()
		if !ok {
			return client.ErrNoActiveChat
		}
		if err := r.session.Delete(ctx, active.ID); err != nil {
			return err
		}
		r.printActive()
	case "/reconcile":
		active, ok := r.session.Active()
		if !ok {
			return client.ErrNoActiveChat
		}
		if err := r.session.Reconcile(ctx, active.ID); err != nil {
			return err
		}
		r.printActive()
	default:
		if strings.HasPrefix(cmd, "/") {
			fmt.Fprintln(r.out, help)
			return nil
		}
		reply, err := r.session.Send(ctx, line)
		if err != nil {
			return err
		}
		r.assistant.Fprintf(r.out, "assistant: %s\n", reply.Content)
	}
	return nil
}

func (r *repl) use(arg string) error {
	chats := r.session.Chats()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(chats) {
		arg = chats[n-1].ID
	}
	if err := r.session.Select(arg); err != nil {
		return err
	}
	r.printActive()
	return nil
}

func (r *repl) printList() {
	active, _ := r.session.Active()
	for i, c := range r.session.Chats() {
		marker := " "
		if c.ID == active.ID {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %2d. %s  (%d messages, %s)\n",
			marker, i+1, c.Name, len(c.Messages), c.UpdatedAt.Local().Format(time.DateTime))
	}
}

func (r *repl) printActive() {
	active, ok := r.session.Active()
	if !ok {
		fmt.Fprintln(r.out, "no active chat, use /new")
		return
	}
	fmt.Fprintf(r.out, "== %s [%s]\n", active.Name, r.session.State(active.ID))
	for _, m := range active.Messages {
		c := r.assistant
		if m.Role == client.RoleUser {
			c = r.user
		}
		c.Fprintf(r.out, "%s: %s\n", m.Role, m.Content)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
