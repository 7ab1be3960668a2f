// Package config handles loading and validation of gateway configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Default runtime settings, matching the original deployment.
const (
	DefaultSessionTTL  = time.Hour
	DefaultHTTPTimeout = 12 * time.Second
)

// Config holds all gateway configuration.
// Environment determines whether store credentials load from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	MerchantID string

	// Session and upstream behavior
	SessionTTL  time.Duration
	HTTPTimeout time.Duration

	// Store connection (loaded from secrets in production)
	Store StoreConfig

	// Upstream path templates, overridable per deployment
	Paths PathConfig
}

// StoreConfig contains the upstream store settings.
// In production this is loaded from Secret Manager as JSON.
type StoreConfig struct {
	BaseURL       string `json:"base_url"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// PathConfig holds the upstream path templates. Placeholders in braces are
// substituted by the client ({productId}, {customerId}, {orderId},
// {shipmentId}, {returnRequestId}, {cartTypeId}).
type PathConfig struct {
	FrontendToken  string `json:"frontend_token"`
	BackendToken   string `json:"backend_token"`
	Price          string `json:"price"`
	CustomerOrders string `json:"customer_orders"`
	OrderDetails   string `json:"order_details"`
	BackendOrder   string `json:"backend_order"`
	Shipments      string `json:"shipments"`
	ShipmentItems  string `json:"shipment_items"`
	ReturnSearch   string `json:"return_search"`
	ReturnCreate   string `json:"return_create"`
	ReturnUpdate   string `json:"return_update"`
	Cart           string `json:"cart"`
	CartAdd        string `json:"cart_add"`
	CartUpdate     string `json:"cart_update"`
	WishlistAdd    string `json:"wishlist_add"`
}

// DefaultPaths returns the stock nopCommerce api-frontend/api-backend routes.
func DefaultPaths() PathConfig {
	return PathConfig{
		FrontendToken:  "/api-frontend/Authenticate/GetToken",
		BackendToken:   "/api-backend/Authenticate/GetToken",
		Price:          "/api-backend/PriceCalculation/GetFinalPrice/{productId}/{customerId}",
		CustomerOrders: "/api-frontend/Order/CustomerOrders",
		OrderDetails:   "/api-frontend/Order/OrderDetails/{orderId}",
		BackendOrder:   "/api-backend/Order/GetByCustomOrderNumber/{orderNumber}",
		Shipments:      "/api-backend/Shipment/GetShipmentsByOrderId/{orderId}",
		ShipmentItems:  "/api-backend/Shipment/GetShipmentItemsByShipmentId/{shipmentId}",
		ReturnSearch:   "/api-backend/ReturnRequest/GetByOrderId/{orderId}",
		ReturnCreate:   "/api-backend/ReturnRequest/Create",
		ReturnUpdate:   "/api-backend/ReturnRequest/Update/{returnRequestId}",
		Cart:           "/api-frontend/ShoppingCart/Cart/{cartTypeId}",
		CartAdd:        "/api-frontend/ShoppingCart/AddProductToCartFromCatalog/{productId}/{cartTypeId}",
		CartUpdate:     "/api-frontend/ShoppingCart/UpdateCart",
		WishlistAdd:    "/api-frontend/ShoppingCart/AddProductsToWishlist",
	}
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		MerchantID:  os.Getenv("MERCHANT_ID"),
		SessionTTL:  secondsOrDefault("SESSION_TTL_SECONDS", DefaultSessionTTL),
		HTTPTimeout: secondsOrDefault("HTTP_TIMEOUT_SECONDS", DefaultHTTPTimeout),
		Paths:       pathsFromEnv(),
	}

	// Load store config based on environment
	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.MerchantID == "" {
			return nil, fmt.Errorf("MERCHANT_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		cfg.Store = StoreConfig{
			BaseURL:       os.Getenv("NC_BASE_URL"),
			AdminEmail:    os.Getenv("NC_ADMIN_EMAIL"),
			AdminPassword: os.Getenv("NC_ADMIN_PASSWORD"),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid a dozen ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port              string      `json:"port"`
		Environment       string      `json:"environment"`
		LogLevel          string      `json:"log_level"`
		MerchantID        string      `json:"merchant_id"`
		SessionTTLSeconds int         `json:"session_ttl_seconds"`
		HTTPTimeoutSecs   int         `json:"http_timeout_seconds"`
		Store             StoreConfig `json:"store"`
		Paths             *PathConfig `json:"paths"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "8080"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		MerchantID:  fileConfig.MerchantID,
		SessionTTL:  DefaultSessionTTL,
		HTTPTimeout: DefaultHTTPTimeout,
		Store:       fileConfig.Store,
		Paths:       DefaultPaths(),
	}

	if fileConfig.SessionTTLSeconds > 0 {
		cfg.SessionTTL = time.Duration(fileConfig.SessionTTLSeconds) * time.Second
	}
	if fileConfig.HTTPTimeoutSecs > 0 {
		cfg.HTTPTimeout = time.Duration(fileConfig.HTTPTimeoutSecs) * time.Second
	}
	if fileConfig.Paths != nil {
		cfg.Paths = mergePaths(*fileConfig.Paths)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromSecretManager fetches store config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{merchant_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.MerchantID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Store); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// pathsFromEnv builds the path templates, letting NC_*_PATH env vars override
// any of the stock routes.
func pathsFromEnv() PathConfig {
	p := DefaultPaths()
	p.FrontendToken = envOrDefault("NC_FRONTEND_TOKEN_PATH", p.FrontendToken)
	p.BackendToken = envOrDefault("NC_BACKEND_TOKEN_PATH", p.BackendToken)
	p.Price = envOrDefault("NC_PRICE_PATH_TEMPLATE", p.Price)
	p.CustomerOrders = envOrDefault("NC_CUSTOMER_ORDERS_PATH", p.CustomerOrders)
	p.OrderDetails = envOrDefault("NC_ORDER_DETAILS_PATH", p.OrderDetails)
	p.BackendOrder = envOrDefault("NC_BACKEND_ORDER_PATH", p.BackendOrder)
	p.Shipments = envOrDefault("NC_SHIPMENTS_PATH", p.Shipments)
	p.ShipmentItems = envOrDefault("NC_SHIPMENT_ITEMS_PATH", p.ShipmentItems)
	p.ReturnSearch = envOrDefault("NC_RETURN_SEARCH_PATH", p.ReturnSearch)
	p.ReturnCreate = envOrDefault("NC_RETURN_CREATE_PATH", p.ReturnCreate)
	p.ReturnUpdate = envOrDefault("NC_RETURN_UPDATE_PATH", p.ReturnUpdate)
	p.Cart = envOrDefault("NC_CART_PATH", p.Cart)
	p.CartAdd = envOrDefault("NC_CART_ADD_PATH", p.CartAdd)
	p.CartUpdate = envOrDefault("NC_CART_UPDATE_PATH", p.CartUpdate)
	p.WishlistAdd = envOrDefault("NC_WISHLIST_ADD_PATH", p.WishlistAdd)
	return p
}

// mergePaths fills any template left empty in a config file with its default.
func mergePaths(p PathConfig) PathConfig {
	d := DefaultPaths()
	fill := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return PathConfig{
		FrontendToken:  fill(p.FrontendToken, d.FrontendToken),
		BackendToken:   fill(p.BackendToken, d.BackendToken),
		Price:          fill(p.Price, d.Price),
		CustomerOrders: fill(p.CustomerOrders, d.CustomerOrders),
		OrderDetails:   fill(p.OrderDetails, d.OrderDetails),
		BackendOrder:   fill(p.BackendOrder, d.BackendOrder),
		Shipments:      fill(p.Shipments, d.Shipments),
		ShipmentItems:  fill(p.ShipmentItems, d.ShipmentItems),
		ReturnSearch:   fill(p.ReturnSearch, d.ReturnSearch),
		ReturnCreate:   fill(p.ReturnCreate, d.ReturnCreate),
		ReturnUpdate:   fill(p.ReturnUpdate, d.ReturnUpdate),
		Cart:           fill(p.Cart, d.Cart),
		CartAdd:        fill(p.CartAdd, d.CartAdd),
		CartUpdate:     fill(p.CartUpdate, d.CartUpdate),
		WishlistAdd:    fill(p.WishlistAdd, d.WishlistAdd),
	}
}

// validate checks that all required configuration fields are present.
// Admin credentials are deliberately not required here: they are only needed
// for privileged calls, and their absence surfaces as CONFIGURATION_ERROR at
// first use rather than blocking customer-scoped operation.
func (c *Config) validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("store base_url is required (NC_BASE_URL)")
	}
	if _, err := url.Parse(c.Store.BaseURL); err != nil {
		return fmt.Errorf("invalid store base_url: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	c.Store.BaseURL = strings.TrimSuffix(c.Store.BaseURL, "/")
	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// secondsOrDefault reads an integer seconds env var as a duration.
func secondsOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Second
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}
