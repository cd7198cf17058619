package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"employee_roster/internal/client"
	"employee_roster/internal/domain"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const defaultEndpoint = "http://localhost:4000/graphql"

var errReadOnlySession = errors.New("only admins can modify employees")

type app struct {
	api      *client.Client
	sessions *client.SessionStore
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	endpoint := os.Getenv("ROSTER_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	sessionPath := os.Getenv("ROSTER_SESSION_FILE")
	if sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			color.Red("Error: %v\n", err)
			os.Exit(1)
		}
		sessionPath = p
	}
	a := &app{api: client.New(endpoint, nil), sessions: client.NewSessionStore(sessionPath)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "register":
		err = a.cmdRegister(ctx, args)
	case "login":
		err = a.cmdLogin(ctx, args)
	case "logout":
		err = a.sessions.Clear()
		if err == nil {
			color.Green("Logged out")
		}
	case "whoami":
		err = a.cmdWhoami()
	case "list":
		err = a.cmdList(ctx)
	case "get":
		err = a.cmdGet(ctx, args)
	case "add":
		err = a.cmdAdd(ctx, args)
	case "update":
		err = a.cmdUpdate(ctx, args)
	case "flag", "unflag":
		err = a.cmdFlag(ctx, args, cmd == "flag")
	case "delete":
		err = a.cmdDelete(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", describe(err))
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: rosterctl <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  register <username> <password> <role>   Create an account (role: admin|employee)")
	fmt.Println("  login <username> <password>             Log in and store the session")
	fmt.Println("  logout                                  Forget the stored session")
	fmt.Println("  whoami                                  Show the stored session")
	fmt.Println("  list                                    List employees")
	fmt.Println("  get <id>                                Show one employee")
	fmt.Println("  add -name N -age A [flags]              Add an employee (admin)")
	fmt.Println("  update <id> [flags]                     Change only the given fields (admin)")
	fmt.Println("  flag <id> | unflag <id>                 Set or clear the flag (admin)")
	fmt.Println("  delete <id>                             Delete an employee (admin)")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  ROSTER_ENDPOINT       GraphQL endpoint (default: " + defaultEndpoint + ")")
	fmt.Println("  ROSTER_SESSION_FILE   Session file (default: user config dir)")
}

func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		return fmt.Sprintf("%s: %s", apiErr.Field, apiErr.Message)
	}
	if errors.Is(err, client.ErrNoSession) {
		return "not logged in, run `rosterctl login` first"
	}
	return err.Error()
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: rosterctl register <username> <password> <role>")
	}
	user, err := a.api.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	return a.remember(user)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rosterctl login <username> <password>")
	}
	user, err := a.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return a.remember(user)
}

func (a *app) remember(user *client.User) error {
	sess, err := a.sessions.Save(user)
	if err != nil {
		return err
	}
	color.Green("Logged in as %s (%s), session valid until %s", sess.Username, sess.Role, sess.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (a *app) cmdWhoami() error {
	sess, err := a.sessions.Load()
	if err != nil {
		return err
	}
	cyan := color.New(color.FgCyan)
	cyan.Printf("%s", sess.Username)
	fmt.Printf(" (%s) id=%s expires=%s\n", sess.Role, sess.ID, sess.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

// authed returns a client for the stored session. When mutating is set,
// non-admin sessions are turned away before any request is made.
func (a *app) authed(mutating bool) (*client.Client, error) {
	sess, err := a.sessions.Load()
	if err != nil {
		return nil, err
	}
	if mutating && !sess.CanMutate() {
		return nil, fmt.Errorf("role %q: %w", sess.Role, errReadOnlySession)
	}
	return a.api.WithToken(sess.Token), nil
}

func (a *app) cmdList(ctx context.Context) error {
	api, err := a.authed(false)
	if err != nil {
		return err
	}
	employees, err := api.Employees(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		color.Yellow("No employees")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tCLASS\tSUBJECTS\tATTENDANCE\tFLAGGED")
	for _, e := range employees {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Age, str(e.Class), strings.Join(e.Subjects, ","), attendance(e.Attendance), flagged(e.Flagged))
	}
	return w.Flush()
}

func (a *app) cmdGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rosterctl get <id>")
	}
	api, err := a.authed(false)
	if err != nil {
		return err
	}
	e, err := api.Employee(ctx, args[0])
	if err != nil {
		return err
	}
	if e == nil {
		color.Yellow("Employee %s not found", args[0])
		return nil
	}
	printEmployee(e)
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	in, err := parseAddArgs(args)
	if err != nil {
		return err
	}

	api, err := a.authed(true)
	if err != nil {
		return err
	}
	e, err := api.AddEmployee(ctx, in)
	if err != nil {
		return err
	}
	color.Green("Added %s", e.ID)
	printEmployee(e)
	return nil
}

func (a *app) cmdUpdate(ctx context.Context, args []string) error {
	id, patch, err := parseUpdateArgs(args)
	if err != nil {
		return err
	}
	return a.update(ctx, id, patch)
}

func (a *app) cmdFlag(ctx context.Context, args []string, value bool) error {
	if len(args) != 1 {
		return errors.New("usage: rosterctl flag|unflag <id>")
	}
	return a.update(ctx, args[0], domain.EmployeePatch{Flagged: &value})
}

func (a *app) update(ctx context.Context, id string, patch domain.EmployeePatch) error {
	api, err := a.authed(true)
	if err != nil {
		return err
	}
	e, err := api.UpdateEmployee(ctx, id, patch)
	if err != nil {
		return err
	}
	color.Green("Updated %s", e.ID)
	printEmployee(e)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rosterctl delete <id>")
	}
	api, err := a.authed(true)
	if err != nil {
		return err
	}
	msg, err := api.DeleteEmployee(ctx, args[0])
	if err != nil {
		return err
	}
	color.Green("%s", msg)
	return nil
}

func printEmployee(e *client.Employee) {
	cyan := color.New(color.FgCyan)
	cyan.Printf("%s", e.Name)
	fmt.Printf(" (id=%s)\n", e.ID)
	fmt.Printf("  age:        %d\n", e.Age)
	fmt.Printf("  class:      %s\n", str(e.Class))
	fmt.Printf("  subjects:   %s\n", strings.Join(e.Subjects, ", "))
	fmt.Printf("  attendance: %s\n", attendance(e.Attendance))
	fmt.Printf("  flagged:    %s\n", flagged(e.Flagged))
}

func str(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func attendance(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

func flagged(v *bool) string {
	if v != nil && *v {
		return color.RedString("yes")
	}
	return "no"
}
