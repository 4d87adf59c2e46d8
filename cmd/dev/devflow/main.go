package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bookit/pkg/config"
)

// devflow drives a running API through the booking happy path: a booker
// requests a seat, an admin approves it, and a second approve is refused.
func main() {
	cfg := config.MustLoad()

	var (
		baseURL   = flag.String("base-url", "", "API base url (defaults to http://localhost<HTTP_ADDR>)")
		booker    = flag.String("booker", "john@example.com", "booker email")
		admin     = flag.String("admin", "admin@bookit.com", "admin email")
		password  = flag.String("password", cfg.SeedPassword, "password for both accounts (SEED_PASSWORD)")
		eventID   = flag.String("event", "1", "event to book")
		attendees = flag.Int("attendees", 2, "number of attendees")
		pkg       = flag.String("package", "standard", "standard, premium or vip")
	)
	flag.Parse()

	if *baseURL == "" {
		*baseURL = defaultBaseURL(cfg.HTTPAddr)
	}
	c := client{base: strings.TrimRight(*baseURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}

	bookerTok := c.login(*booker, *password)
	adminTok := c.login(*admin, *password)

	var created struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		TotalPrice string `json:"totalPrice"`
	}
	c.must(http.MethodPost, "/v1/bookings", bookerTok, map[string]any{
		"eventId":           *eventID,
		"numberOfAttendees": *attendees,
		"package":           *pkg,
		"notes":             "devflow",
	}, http.StatusCreated, &created)
	fmt.Printf("booking=%s status=%s total=%s\n", created.ID, created.Status, created.TotalPrice)

	var approved struct {
		Status    string `json:"status"`
		DecidedBy string `json:"decidedBy"`
	}
	c.must(http.MethodPost, "/v1/bookings/"+created.ID+"/approve", adminTok, nil, http.StatusOK, &approved)
	fmt.Printf("approved status=%s decided_by=%s\n", approved.Status, approved.DecidedBy)

	c.must(http.MethodPost, "/v1/bookings/"+created.ID+"/approve", adminTok, nil, http.StatusConflict, nil)
	fmt.Println("second approve refused (409)")

	var history struct {
		Items []struct {
			Action string `json:"action"`
			Actor  string `json:"actor"`
		} `json:"items"`
	}
	c.must(http.MethodGet, "/v1/bookings/"+created.ID+"/events", bookerTok, nil, http.StatusOK, &history)
	for _, e := range history.Items {
		fmt.Printf("  - %s by %s\n", e.Action, e.Actor)
	}
}

type client struct {
	base string
	http *http.Client
}

func (c client) login(email, password string) string {
	var out struct {
		Token string `json:"token"`
	}
	c.must(http.MethodPost, "/v1/auth/login", "", map[string]any{"email": email, "password": password}, http.StatusOK, &out)
	return out.Token
}

func (c client) must(method, path, token string, body any, want int, out any) {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", method, path, err)
		fmt.Fprintf(os.Stderr, "tip: is the API running? base_url=%s\n", c.base)
		os.Exit(1)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Fprintf(os.Stderr, "%s %s status=%d want=%d body=%s\n", method, path, resp.StatusCode, want, string(raw))
		os.Exit(1)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			fmt.Fprintf(os.Stderr, "decode %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8081"
	}
	switch {
	case strings.HasPrefix(addr, ":"):
		return "http://localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	default:
		return "http://" + addr
	}
}
