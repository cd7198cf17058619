package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"employee_roster/internal/domain"
)

const updateUsage = "usage: rosterctl update <id> [-name N] [-age A] [-class C] [-subjects a,b] [-attendance P] [-flagged=true|false]"

func parseAddArgs(args []string) (domain.NewEmployee, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "employee name")
	age := fs.Int("age", 0, "employee age")
	class := fs.String("class", "", "class label")
	subjects := fs.String("subjects", "", "comma separated subjects")
	att := fs.String("attendance", "", "attendance percentage")
	flagged := fs.Bool("flagged", false, "flag the employee")
	if err := fs.Parse(args); err != nil {
		return domain.NewEmployee{}, err
	}
	if *name == "" {
		return domain.NewEmployee{}, errors.New("-name is required")
	}

	in := domain.NewEmployee{Name: *name, Age: *age, Subjects: splitSubjects(*subjects)}
	if *class != "" {
		in.Class = class
	}
	if *att != "" {
		v, err := strconv.ParseFloat(*att, 64)
		if err != nil {
			return domain.NewEmployee{}, fmt.Errorf("invalid attendance %q", *att)
		}
		in.Attendance = &v
	}
	if *flagged {
		in.Flagged = flagged
	}
	return in, nil
}

// parseUpdateArgs builds a patch holding only the flags given on the
// command line.
func parseUpdateArgs(args []string) (string, domain.EmployeePatch, error) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return "", domain.EmployeePatch{}, errors.New(updateUsage)
	}
	id := args[0]
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "employee name")
	age := fs.Int("age", 0, "employee age")
	class := fs.String("class", "", "class label")
	subjects := fs.String("subjects", "", "comma separated subjects")
	att := fs.Float64("attendance", 0, "attendance percentage")
	flagged := fs.Bool("flagged", false, "flag the employee")
	if err := fs.Parse(args[1:]); err != nil {
		return "", domain.EmployeePatch{}, err
	}

	var patch domain.EmployeePatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "age":
			patch.Age = age
		case "class":
			patch.Class = class
		case "subjects":
			s := splitSubjects(*subjects)
			patch.Subjects = &s
		case "attendance":
			patch.Attendance = att
		case "flagged":
			patch.Flagged = flagged
		}
	})
	if patch == (domain.EmployeePatch{}) {
		return "", domain.EmployeePatch{}, errors.New("nothing to update: " + updateUsage)
	}
	return id, patch, nil
}

func splitSubjects(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
