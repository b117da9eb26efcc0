package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"taskpilot/client"
	"taskpilot/taskview"
)

const usage = `Usage: taskpilot <command> [flags]

Commands:
  register   create a TaskPilot account
  login      log in and store a session token
  logout     drop the stored session
  whoami     show the logged-in user
  list       list tasks (-search, -completed, -pending)
  add        add a task
  edit       edit a task by id
  done       toggle a task's completed flag by id
  rm         delete a task by id (asks first, -y to skip)
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("taskpilot: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	tokens, err := client.NewFileTokenStore()
	if err != nil {
		log.Fatal(err)
	}
	c := client.New(cfg.API.BaseURL, tokens)
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "register":
		err = runRegister(ctx, c, args)
	case "login":
		err = runLogin(ctx, c, args)
	case "logout":
		err = c.Logout()
		if err == nil {
			fmt.Println("logged out")
		}
	case "whoami":
		err = runWhoami(ctx, c)
	case "list":
		err = runList(ctx, c, args)
	case "add":
		err = runAdd(ctx, c, args)
	case "edit":
		err = runEdit(ctx, c, args)
	case "done":
		err = runDone(ctx, c, args)
	case "rm":
		err = runRemove(ctx, c, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, client.ErrNoSession) || errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrUnauthorized) {
			log.Fatal("no valid session, please log in with: taskpilot login")
		}
		log.Fatal(err)
	}
}

func runRegister(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	msg, err := c.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	fmt.Println("you can now log in with: taskpilot login")
	return nil
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("welcome to TaskPilot, %s\n", u.Name)
	return nil
}

func runWhoami(ctx context.Context, c *client.Client) error {
	u, err := c.RequireSession(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", u.Name, u.AvatarURL)
	return nil
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "show only tasks whose title or description contains this text")
	completedOnly := fs.Bool("completed", false, "show only completed tasks")
	pendingOnly := fs.Bool("pending", false, "show only pending tasks")
	fs.Parse(args)

	if _, err := c.RequireSession(ctx); err != nil {
		return err
	}
	tasks, err := c.List(ctx)
	if err != nil {
		return err
	}
	printTasks(tasks, *search, *completedOnly, *pendingOnly)
	return nil
}

func printTasks(tasks []client.Task, search string, completedOnly, pendingOnly bool) {
	filtered := taskview.Filter(tasks, search)
	completed, pending := taskview.Partition(filtered)

	if !completedOnly {
		printSection("Pending", pending)
	}
	if !pendingOnly {
		printSection("Completed", completed)
	}
}

func printSection(title string, tasks []client.Task) {
	fmt.Printf("%s (%d)\n", title, len(tasks))
	if len(tasks) == 0 {
		fmt.Println("  no tasks found")
		return
	}
	for _, t := range tasks {
		marker := " "
		if t.Completed {
			marker = "x"
		}
		due := t.DueDate
		if taskview.IsOverdue(t) {
			due += " (Past Due)"
		}
		fmt.Printf("  [%s] %s  %s/%s  due %s\n", marker, t.Title, t.Category, t.Priority, due)
		fmt.Printf("      %s\n", t.Description)
		fmt.Printf("      id %s\n", t.ID)
	}
}

func taskFlags(fs *flag.FlagSet) *client.TaskFields {
	var f client.TaskFields
	fs.StringVar(&f.Title, "title", "", "task title")
	fs.StringVar(&f.Description, "desc", "", "task description")
	fs.StringVar(&f.DueDate, "due", "", "due date (YYYY-MM-DD)")
	fs.StringVar(&f.Category, "category", "", "category (defaults to Others)")
	fs.StringVar(&f.Priority, "priority", "", "priority Low|Medium|High (defaults to Medium)")
	return &f
}

func runAdd(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fields := taskFlags(fs)
	fs.Parse(args)

	if _, err := c.RequireSession(ctx); err != nil {
		return err
	}
	tasks, err := c.Create(ctx, *fields)
	if err != nil {
		return err
	}
	fmt.Println("task added")
	printTasks(tasks, "", false, false)
	return nil
}

func runEdit(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	fields := taskFlags(fs)
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	if _, err := c.RequireSession(ctx); err != nil {
		return err
	}
	tasks, err := c.Update(ctx, id, *fields)
	if err != nil {
		return err
	}
	fmt.Println("task updated")
	printTasks(tasks, "", false, false)
	return nil
}

func runDone(ctx context.Context, c *client.Client, args []string) error {
	id, _, err := popID(args)
	if err != nil {
		return err
	}
	if _, err := c.RequireSession(ctx); err != nil {
		return err
	}
	tasks, err := c.List(ctx)
	if err != nil {
		return err
	}
	current, found := false, false
	for _, t := range tasks {
		if t.ID == id {
			current, found = t.Completed, true
			break
		}
	}
	if !found {
		return fmt.Errorf("no task with id %s", id)
	}
	tasks, err = c.Toggle(ctx, id, current)
	if err != nil {
		return err
	}
	printTasks(tasks, "", false, false)
	return nil
}

func runRemove(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	yes := fs.Bool("y", false, "delete without asking")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	if _, err := c.RequireSession(ctx); err != nil {
		return err
	}
	if !*yes && !confirm("Are you sure you want to delete?") {
		fmt.Println("aborted")
		return nil
	}
	tasks, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println("task deleted")
	printTasks(tasks, "", false, false)
	return nil
}

func popID(args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args, errors.New("a task id is required")
	}
	return args[0], args[1:], nil
}

// parseWithID parses a command line where the task id may come before or
// after the flags, e.g. both "rm <id> -y" and "rm -y <id>".
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if err := fs.Parse(args[1:]); err != nil {
			return "", err
		}
		return args[0], nil
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() == 0 {
		return "", errors.New("a task id is required")
	}
	return fs.Arg(0), nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
