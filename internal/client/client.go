package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"employee_roster/internal/domain"
)

const defaultTimeout = 15 * time.Second

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Class      *string  `json:"class"`
	Subjects   []string `json:"subjects"`
	Attendance *float64 `json:"attendance"`
	Flagged    *bool    `json:"flagged"`
}

// APIError is the first GraphQL error of a response.
type APIError struct {
	Message string
	Code    string
	Field   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Client talks to the roster GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	token    string
}

func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// WithToken returns a copy of the client that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"extensions"`
	} `json:"errors"`
}

// Do executes query and decodes the data object into out.
func (c *Client) Do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var gr response
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		e := gr.Errors[0]
		return &APIError{Message: e.Message, Code: e.Extensions.Code, Field: e.Extensions.Field}
	}
	if out == nil || len(gr.Data) == 0 {
		return nil
	}
	return json.Unmarshal(gr.Data, out)
}

const employeeFields = `id name age class subjects attendance flagged`

func (c *Client) Register(ctx context.Context, username, password, role string) (*User, error) {
	var out struct {
		Register User `json:"register"`
	}
	err := c.Do(ctx, `mutation($username: String!, $password: String!, $role: String!) {
		register(username: $username, password: $password, role: $role) { id username role token }
	}`, map[string]interface{}{"username": username, "password": password, "role": role}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Register, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var out struct {
		Login User `json:"login"`
	}
	err := c.Do(ctx, `mutation($username: String!, $password: String!) {
		login(username: $username, password: $password) { id username role token }
	}`, map[string]interface{}{"username": username, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Login, nil
}

func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	var out struct {
		Employees []Employee `json:"employees"`
	}
	if err := c.Do(ctx, `{ employees { `+employeeFields+` } }`, nil, &out); err != nil {
		return nil, err
	}
	return out.Employees, nil
}

// Employee returns nil without error when the record does not exist.
func (c *Client) Employee(ctx context.Context, id string) (*Employee, error) {
	var out struct {
		Employee *Employee `json:"employee"`
	}
	err := c.Do(ctx, `query($id: ID!) { employee(id: $id) { `+employeeFields+` } }`,
		map[string]interface{}{"id": id}, &out)
	if err != nil {
		return nil, err
	}
	return out.Employee, nil
}

func (c *Client) AddEmployee(ctx context.Context, in domain.NewEmployee) (*Employee, error) {
	subjects := in.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	vars := map[string]interface{}{
		"name":       in.Name,
		"age":        in.Age,
		"class":      in.Class,
		"subjects":   subjects,
		"attendance": in.Attendance,
		"flagged":    in.Flagged,
	}
	var out struct {
		AddEmployee Employee `json:"addEmployee"`
	}
	err := c.Do(ctx, `mutation($name: String!, $age: Int!, $class: String, $subjects: [String!]!, $attendance: Float, $flagged: Boolean) {
		addEmployee(name: $name, age: $age, class: $class, subjects: $subjects, attendance: $attendance, flagged: $flagged) { `+employeeFields+` }
	}`, vars, &out)
	if err != nil {
		return nil, err
	}
	return &out.AddEmployee, nil
}

// UpdateEmployee sends only the fields set on patch.
func (c *Client) UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch) (*Employee, error) {
	vars := map[string]interface{}{"id": id}
	if patch.Name != nil {
		vars["name"] = *patch.Name
	}
	if patch.Age != nil {
		vars["age"] = *patch.Age
	}
	if patch.Class != nil {
		vars["class"] = *patch.Class
	}
	if patch.Subjects != nil {
		vars["subjects"] = *patch.Subjects
	}
	if patch.Attendance != nil {
		vars["attendance"] = *patch.Attendance
	}
	if patch.Flagged != nil {
		vars["flagged"] = *patch.Flagged
	}
	var out struct {
		UpdateEmployee Employee `json:"updateEmployee"`
	}
	err := c.Do(ctx, `mutation($id: ID!, $name: String, $age: Int, $class: String, $subjects: [String!], $attendance: Float, $flagged: Boolean) {
		updateEmployee(id: $id, name: $name, age: $age, class: $class, subjects: $subjects, attendance: $attendance, flagged: $flagged) { `+employeeFields+` }
	}`, vars, &out)
	if err != nil {
		return nil, err
	}
	return &out.UpdateEmployee, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) (string, error) {
	var out struct {
		DeleteEmployee string `json:"deleteEmployee"`
	}
	err := c.Do(ctx, `mutation($id: ID!) { deleteEmployee(id: $id) }`, map[string]interface{}{"id": id}, &out)
	if err != nil {
		return "", err
	}
	return out.DeleteEmployee, nil
}
