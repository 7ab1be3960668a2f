// vfclient is a CLI tool for exercising the gateway's REST surface by hand.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	vfclient login -gateway URL -email E -password P
//	vfclient orders -gateway URL -session TOK [-when "last month"]
//	vfclient order -gateway URL -session TOK -number ORD-042
//	vfclient prices -gateway URL -session TOK -products 1,2,3 [-qty N] [-discounts]
//	vfclient return -gateway URL -session TOK -number ORD-042 -line 301 -qty 1 -reason Defective -action Refund
//	vfclient cart -gateway URL -session TOK
//	vfclient cart-add -gateway URL -session TOK -product 60 [-qty N] [-wishlist]
//	vfclient cart-update -gateway URL -session TOK -item 10 -qty 3
//	vfclient wishlist -gateway URL -session TOK
//	vfclient wishlist-sync -gateway URL -session TOK
//
// The session token can also come from the VF_SESSION environment variable:
//
//	TOK=$(vfclient login -gateway http://localhost:8080 -email a@b.test -password pw -q)
//	VF_SESSION=$TOK vfclient orders -gateway http://localhost:8080
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "login":
		err = runLogin(args)
	case "orders":
		err = runOrders(args)
	case "order":
		err = runOrder(args)
	case "prices":
		err = runPrices(args)
	case "return":
		err = runReturn(args)
	case "cart":
		err = runGet(args, "/vf/cart")
	case "cart-add":
		err = runCartAdd(args)
	case "cart-update":
		err = runCartUpdate(args)
	case "wishlist":
		err = runGet(args, "/vf/wishlist")
	case "wishlist-sync":
		err = runPost(args, "/vf/wishlist/sync", nil)
	case "logout":
		err = runPost(args, "/vf/logout", nil)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: vfclient <command> [flags]

commands:
  login          authenticate and print a session token
  orders         list orders, optionally filtered with -when
  order          show one order with fulfillment state
  prices         fetch final prices for -products
  return         create a return for one order line
  cart           show the cart
  cart-add       add a product to the cart (or -wishlist)
  cart-update    change a cart line quantity
  wishlist       show the wishlist
  wishlist-sync  copy missing cart products into the wishlist
  logout         destroy the session`)
}

// commonFlags registers the flags every command shares.
func commonFlags(fs *flag.FlagSet) (gatewayURL, sessionTok *string, quiet *bool) {
	gatewayURL = fs.String("gateway", "http://localhost:8080", "gateway base URL")
	sessionTok = fs.String("session", os.Getenv("VF_SESSION"), "session token (or VF_SESSION)")
	quiet = fs.Bool("q", false, "print only the primary value")
	return
}

func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	gatewayURL, _, quiet := commonFlags(fs)
	email := fs.String("email", "", "customer email")
	password := fs.String("password", "", "customer password")
	fs.Parse(args)

	body := map[string]string{"email": *email, "password": *password}
	raw, err := call("POST", *gatewayURL+"/vf/login", "", body)
	if err != nil {
		return err
	}

	if *quiet {
		var res struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
		fmt.Println(res.SessionID)
		return nil
	}
	return printJSON(raw)
}

func runOrders(args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	when := fs.String("when", "", "natural-language date filter")
	fs.Parse(args)

	u := *gatewayURL + "/vf/orders"
	if *when != "" {
		u += "?when=" + url.QueryEscape(*when)
	}
	raw, err := call("GET", u, *sessionTok, nil)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runOrder(args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	number := fs.String("number", "", "order display number")
	fs.Parse(args)

	raw, err := call("GET", *gatewayURL+"/vf/orders/"+url.PathEscape(*number), *sessionTok, nil)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runPrices(args []string) error {
	fs := flag.NewFlagSet("prices", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	products := fs.String("products", "", "comma-separated product ids")
	qty := fs.Int("qty", 1, "quantity per product")
	discounts := fs.Bool("discounts", false, "apply customer discounts")
	fs.Parse(args)

	ids, err := parseIDs(*products)
	if err != nil {
		return err
	}
	body := map[string]interface{}{
		"product_ids":       ids,
		"quantity":          *qty,
		"include_discounts": *discounts,
	}
	raw, err := call("POST", *gatewayURL+"/vf/prices", *sessionTok, body)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runReturn(args []string) error {
	fs := flag.NewFlagSet("return", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	number := fs.String("number", "", "order display number")
	line := fs.Int64("line", 0, "order line id")
	qty := fs.Int("qty", 1, "units to return")
	reason := fs.String("reason", "", "reason for return")
	action := fs.String("action", "Refund", "requested action")
	comments := fs.String("comments", "", "customer comments")
	fs.Parse(args)

	body := map[string]interface{}{
		"order_line_id": *line,
		"quantity":      *qty,
		"reason":        *reason,
		"action":        *action,
		"comments":      *comments,
	}
	raw, err := call("POST", *gatewayURL+"/vf/orders/"+url.PathEscape(*number)+"/returns", *sessionTok, body)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runCartAdd(args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	product := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	wishlist := fs.Bool("wishlist", false, "add to the wishlist instead")
	fs.Parse(args)

	cartType := "cart"
	if *wishlist {
		cartType = "wishlist"
	}
	body := map[string]interface{}{
		"product_id": *product,
		"quantity":   *qty,
		"cart_type":  cartType,
	}
	raw, err := call("POST", *gatewayURL+"/vf/cart/items", *sessionTok, body)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runCartUpdate(args []string) error {
	fs := flag.NewFlagSet("cart-update", flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	item := fs.Int64("item", 0, "cart item id")
	qty := fs.Int("qty", 0, "new quantity (0 removes)")
	fs.Parse(args)

	body := map[string]interface{}{"quantity": *qty}
	raw, err := call("PUT", *gatewayURL+"/vf/cart/items/"+strconv.FormatInt(*item, 10), *sessionTok, body)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runGet(args []string, path string) error {
	fs := flag.NewFlagSet(path, flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	fs.Parse(args)

	raw, err := call("GET", *gatewayURL+path, *sessionTok, nil)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runPost(args []string, path string, body interface{}) error {
	fs := flag.NewFlagSet(path, flag.ExitOnError)
	gatewayURL, sessionTok, _ := commonFlags(fs)
	fs.Parse(args)

	raw, err := call("POST", *gatewayURL+path, *sessionTok, body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		fmt.Println("ok")
		return nil
	}
	return printJSON(raw)
}

// call performs one request and returns the raw response body, treating
// non-2xx statuses as errors with the body attached.
func call(method, u, sessionTok string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionTok != "" {
		req.Header.Set("X-Session-Token", sessionTok)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func printJSON(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}

func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, fmt.Errorf("-products is required")
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad product id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
